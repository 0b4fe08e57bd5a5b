package services

import (
	"fmt"
	"math"
)

// Options configures one optimizer instance. There is no package-level state;
// every run receives its configuration explicitly.
type Options struct {
	MaxRangeMiles       float64 // Vehicle range on a full tank.
	MilesPerGallon      float64 // Fixed fuel efficiency.
	SampleStride        int     // Every Nth route point is used for corridor queries.
	CorridorRadiusMiles float64 // Lateral search radius around each sampled point.
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MaxRangeMiles:       500,
		MilesPerGallon:      10,
		SampleStride:        20,
		CorridorRadiusMiles: 5,
	}
}

func (o Options) validate() error {
	if !(o.MaxRangeMiles > 0) || math.IsInf(o.MaxRangeMiles, 0) {
		return fmt.Errorf("max range must be a positive number, got %v", o.MaxRangeMiles)
	}
	if !(o.MilesPerGallon > 0) || math.IsInf(o.MilesPerGallon, 0) {
		return fmt.Errorf("miles per gallon must be a positive number, got %v", o.MilesPerGallon)
	}
	if o.SampleStride < 1 {
		return fmt.Errorf("sample stride must be >= 1, got %d", o.SampleStride)
	}
	if !(o.CorridorRadiusMiles > 0) || math.IsInf(o.CorridorRadiusMiles, 0) {
		return fmt.Errorf("corridor radius must be a positive number, got %v", o.CorridorRadiusMiles)
	}
	return nil
}
