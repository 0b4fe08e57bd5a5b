package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"fuel-route-service/internal/adapters/cache"
	"fuel-route-service/internal/domain"
	"fuel-route-service/internal/metrics"
	"fuel-route-service/internal/platform/obs"
	"fuel-route-service/internal/ports"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const DefaultORSBaseURL = "https://api.openrouteservice.org"

// HTTPClient is satisfied by *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ORSConfig struct {
	APIKey    string
	BaseURL   string     // Defaults to DefaultORSBaseURL.
	RateLimit float64    // Requests per second; <= 0 disables throttling.
	Client    HTTPClient // Defaults to an *http.Client with a 10s timeout.
}

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions API.
//
// It coordinates:
//   - Persistent route caching (optional)
//   - Client-side rate limiting
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	session    HTTPClient
	apiKey     string
	baseURL    string
	profile    string
	limiter    *rate.Limiter
	backoff    time.Duration
	routeCache *cache.SQLRouteCache
	metrics    *metrics.Metrics
}

// NewORSRouteProvider builds a provider. routeCache and m may be nil.
func NewORSRouteProvider(
	cfg ORSConfig,
	routeCache *cache.SQLRouteCache,
	m *metrics.Metrics,
) (*ORSRouteProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultORSBaseURL
	}

	session := cfg.Client
	if session == nil {
		session = &http.Client{Timeout: 10 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &ORSRouteProvider{
		session:    session,
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		profile:    "driving-car",
		limiter:    limiter,
		backoff:    200 * time.Millisecond,
		routeCache: routeCache,
		metrics:    m,
	}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
	} `json:"routes"`
}

// GetRoute returns the driving route geometry and distance from start to end.
func (o *ORSRouteProvider) GetRoute(
	ctx context.Context,
	start, end domain.GeoPoint,
) (_ ports.Route, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	if err := start.Validate(); err != nil {
		return ports.Route{}, fmt.Errorf("get ORS route: start: %w", err)
	}
	if err := end.Validate(); err != nil {
		return ports.Route{}, fmt.Errorf("get ORS route: end: %w", err)
	}

	// Check persistent route cache before issuing external API calls.
	if o.routeCache != nil {
		cached, ok, err := o.routeCache.Get(ctx, start, end)
		if err != nil {
			obs.Logger(ctx).WarnContext(ctx, "route cache read failed",
				"req_id", obs.RequestID(ctx), "error", err)
		} else if ok {
			return cached, nil
		}
	}

	route, err := o.fetchRoute(ctx, start, end)
	if err != nil {
		return ports.Route{}, fmt.Errorf("get ORS route %s -> %s: %w", start.Key(), end.Key(), err)
	}

	if o.routeCache != nil {
		if err := o.routeCache.Put(ctx, start, end, route); err != nil {
			obs.Logger(ctx).WarnContext(ctx, "route cache write failed",
				"req_id", obs.RequestID(ctx), "error", err)
		}
	}

	return route, nil
}

func (o *ORSRouteProvider) fetchRoute(ctx context.Context, start, end domain.GeoPoint) (ports.Route, error) {
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{start.CoordsToList(), end.CoordsToList()},
	})
	if err != nil {
		return ports.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := o.baseURL + "/v2/directions/" + o.profile

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	})
	if err != nil {
		var he *httpStatusError
		if errors.As(err, &he) && he.Code == http.StatusNotFound {
			return ports.Route{}, fmt.Errorf("%w: %v", domain.ErrRouteNotFound, err)
		}
		return ports.Route{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.Route{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.Route{}, domain.ErrRouteNotFound
	}

	r := decoded.Routes[0]
	points, err := domain.DecodePolyline(r.Geometry)
	if err != nil {
		return ports.Route{}, err
	}
	if len(points) == 0 {
		return ports.Route{}, errors.New("directions response has empty geometry")
	}

	return ports.Route{Points: points, DistanceMeters: r.Summary.Distance}, nil
}
