package services

import (
	"cmp"
	"context"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"slices"
)

// Candidates returns the corpus stops lying within radiusMiles of any sampled
// route point, each annotated with its straight-line distance from start.
//
// Only every stride-th route point is queried, so a stop close to an unsampled
// point can be missed. Results are deduplicated by stop ID and sorted by
// distance from start, then by ID.
func Candidates(
	ctx context.Context,
	routePoints []domain.GeoPoint,
	start domain.GeoPoint,
	corpus ports.StopCorpus,
	stride int,
	radiusMiles float64,
) (_ []domain.RouteCandidate, err error) {
	defer obs.Time(ctx, "corridor.Candidates")(&err)

	if stride < 1 {
		stride = 1
	}

	seen := make(map[string]struct{})
	out := make([]domain.RouteCandidate, 0)

	for i := 0; i < len(routePoints); i += stride {
		stops, err := corpus.StopsWithinRadius(ctx, routePoints[i], radiusMiles)
		if err != nil {
			return nil, &domain.CorpusUnavailableError{Err: err}
		}

		for _, s := range stops {
			if _, ok := seen[s.ID]; ok {
				continue
			}
			seen[s.ID] = struct{}{}

			out = append(out, domain.RouteCandidate{
				Stop:                   s,
				DistanceFromStartMiles: domain.HaversineMiles(start, s.Location),
			})
		}
	}

	slices.SortFunc(out, compareCandidates)
	return out, nil
}

func compareCandidates(a, b domain.RouteCandidate) int {
	if c := cmp.Compare(a.DistanceFromStartMiles, b.DistanceFromStartMiles); c != 0 {
		return c
	}
	return cmp.Compare(a.Stop.ID, b.Stop.ID)
}
