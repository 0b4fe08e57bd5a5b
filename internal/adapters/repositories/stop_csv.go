package repositories

import (
	"encoding/csv"
	"errors"
	"fmt"
	"fuel-route-service/internal/domain"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column layout of the geocoded fuel price export. Column 5 is not used.
const (
	colOpisID = 0
	colName   = 1
	colAddr   = 2
	colCity   = 3
	colState  = 4
	colLat    = 6
	colLon    = 7
	colRackID = 8
	colPrice  = 9
	numCols   = 10
)

// LoadStopsCSV parses a fuel price export. The header row is skipped and each
// malformed row is logged and skipped on its own. Stop IDs are the 1-based
// data row numbers, which keeps them unique for in-memory use.
func LoadStopsCSV(r io.Reader, log *slog.Logger) (stops []domain.PricedStop, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.PricedStop{}, 0, nil
		}
		return nil, 0, fmt.Errorf("load stops csv: read header: %w", err)
	}

	stops = make([]domain.PricedStop, 0, 1024)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			log.Warn("Skipping malformed row", "row", row, "error", err)
			skipped++
			continue
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("load stops csv: row %d: %w", row, err)
		}

		stop, err := parseStopRecord(record)
		if err != nil {
			log.Warn("Skipping malformed row", "row", row, "error", err)
			skipped++
			continue
		}

		stop.ID = strconv.Itoa(row)
		stops = append(stops, stop)
	}

	log.Info("Fuel price file parsed", "stops", len(stops), "skipped", skipped)
	return stops, skipped, nil
}

func parseStopRecord(record []string) (domain.PricedStop, error) {
	if len(record) < numCols {
		return domain.PricedStop{}, fmt.Errorf("expected %d columns, got %d", numCols, len(record))
	}

	field := func(i int) string { return strings.TrimSpace(record[i]) }

	lat, err := strconv.ParseFloat(field(colLat), 64)
	if err != nil {
		return domain.PricedStop{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(field(colLon), 64)
	if err != nil {
		return domain.PricedStop{}, fmt.Errorf("parse longitude: %w", err)
	}
	location := domain.GeoPoint{Lon: lon, Lat: lat}
	if err := location.Validate(); err != nil {
		return domain.PricedStop{}, err
	}

	price, err := decimal.NewFromString(field(colPrice))
	if err != nil {
		return domain.PricedStop{}, fmt.Errorf("parse retail price: %w", err)
	}
	if price.IsNegative() {
		return domain.PricedStop{}, fmt.Errorf("retail price %s is negative", price)
	}

	opisID := field(colOpisID)
	if opisID == "" {
		return domain.PricedStop{}, errors.New("opis id is empty")
	}

	return domain.PricedStop{
		OpisID:      opisID,
		Name:        field(colName),
		Address:     field(colAddr),
		City:        field(colCity),
		State:       field(colState),
		RackID:      field(colRackID),
		RetailPrice: price,
		Location:    location,
	}, nil
}
