package spatial

import (
	"cmp"
	"context"
	"fmt"
	"fuel-route-service/internal/domain"
	"slices"

	"github.com/dhconnelly/rtreego"
)

const (
	dims        = 2 // lon, lat
	minChildren = 25
	maxChildren = 50
	pointTol    = 1e-9
)

// stopItem adapts a PricedStop to the rtreego.Spatial interface.
type stopItem struct {
	stop domain.PricedStop
	rect rtreego.Rect
}

func (s *stopItem) Bounds() rtreego.Rect { return s.rect }

// RTreeCorpus is an immutable in-memory snapshot of priced stops indexed by an
// R-tree. Radius queries prune by bounding box before exact great-circle
// filtering. Safe for concurrent readers.
type RTreeCorpus struct {
	tree *rtreego.Rtree
	size int
}

// NewRTreeCorpus bulk-loads stops into a new index. Stops with invalid
// coordinates are rejected rather than silently dropped.
func NewRTreeCorpus(stops []domain.PricedStop) (*RTreeCorpus, error) {
	items := make([]rtreego.Spatial, 0, len(stops))
	for _, s := range stops {
		if err := s.Location.Validate(); err != nil {
			return nil, fmt.Errorf("new rtree corpus: stop %q: %w", s.ID, err)
		}
		items = append(items, &stopItem{
			stop: s,
			rect: rtreego.Point{s.Location.Lon, s.Location.Lat}.ToRect(pointTol),
		})
	}

	return &RTreeCorpus{
		tree: rtreego.NewTree(dims, minChildren, maxChildren, items...),
		size: len(items),
	}, nil
}

// Size returns the number of indexed stops.
func (c *RTreeCorpus) Size() int { return c.size }

// StopsWithinRadius implements ports.StopCorpus. Results are ordered by stop ID.
func (c *RTreeCorpus) StopsWithinRadius(
	ctx context.Context,
	center domain.GeoPoint,
	radiusMiles float64,
) ([]domain.PricedStop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := center.Validate(); err != nil {
		return nil, fmt.Errorf("rtree radius query: %w", err)
	}

	var out []domain.PricedStop
	for _, b := range domain.BoundingBoxes(center, radiusMiles) {
		box, err := rtreego.NewRectFromPoints(
			rtreego.Point{b.Min.Lon, b.Min.Lat},
			rtreego.Point{b.Max.Lon, b.Max.Lat},
		)
		if err != nil {
			return nil, fmt.Errorf("rtree radius query: build search box: %w", err)
		}

		for _, h := range c.tree.SearchIntersect(box) {
			item := h.(*stopItem)
			if domain.HaversineMiles(center, item.stop.Location) <= radiusMiles {
				out = append(out, item.stop)
			}
		}
	}

	// A stop sitting exactly on the antimeridian intersects both boxes.
	slices.SortFunc(out, func(a, b domain.PricedStop) int { return cmp.Compare(a.ID, b.ID) })
	out = slices.CompactFunc(out, func(a, b domain.PricedStop) bool { return a.ID == b.ID })
	if out == nil {
		out = []domain.PricedStop{}
	}
	return out, nil
}
