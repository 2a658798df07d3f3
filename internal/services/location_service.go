package services

import (
	"context"
	"time"

	"offerlens/internal/cache"
	"offerlens/internal/domain"
	"offerlens/internal/geo"
	"offerlens/internal/kv"
	applog "offerlens/internal/log"
)

// Geocoder is the external lookup surface LocationService wraps.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	GeocodeLocation(ctx context.Context, text string) (*domain.Coords, error)
	LocationSuggestions(ctx context.Context, partial string) ([]string, error)
}

// LocationService fronts the external geocoder with the two-tier TTL
// cache. Lookup failures are logged here and degrade to nil/empty; they
// never reach the caller as errors.
type LocationService struct {
	geo     Geocoder
	coords  *cache.Cache[*domain.Coords]
	city    *cache.Cache[string]
	suggest *cache.Cache[[]string]
}

func NewLocationService(g Geocoder, durable kv.Store, ttl time.Duration, now cache.Clock) *LocationService {
	return &LocationService{
		geo:     g,
		coords:  cache.New[*domain.Coords](durable, ttl, now),
		city:    cache.New[string](durable, ttl, now),
		suggest: cache.New[[]string](durable, ttl, now),
	}
}

// Geocode resolves free text to a center point, nil when unknown.
func (s *LocationService) Geocode(ctx context.Context, text string) *domain.Coords {
	key := cache.TextKey("geo", text)
	if v, ok := s.coords.Get(ctx, key); ok {
		return v
	}
	v, err := s.geo.GeocodeLocation(ctx, text)
	if err != nil {
		applog.Error(nil, "geo.geocode.fail", err, map[string]any{"q": text})
		return nil
	}
	s.coords.Set(ctx, key, v)
	return v
}

// ReverseCity resolves coordinates to a city name, "" when unknown.
// The key rounds to two decimals so nearby fixes share an entry.
func (s *LocationService) ReverseCity(ctx context.Context, lat, lng float64) string {
	key := cache.CoordKey("city", lat, lng)
	if v, ok := s.city.Get(ctx, key); ok {
		return v
	}
	v, err := s.geo.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		applog.Error(nil, "geo.reverse.fail", err, map[string]any{"lat": lat, "lng": lng})
		return ""
	}
	s.city.Set(ctx, key, v)
	return v
}

// Suggest returns completions for a partial location input. Short
// inputs come back empty without touching cache or upstream.
func (s *LocationService) Suggest(ctx context.Context, partial string) []string {
	if len([]rune(partial)) < geo.SuggestMinLen {
		return []string{}
	}
	key := cache.TextKey("sug", partial)
	if v, ok := s.suggest.Get(ctx, key); ok {
		return v
	}
	v, err := s.geo.LocationSuggestions(ctx, partial)
	if err != nil {
		applog.Error(nil, "geo.suggest.fail", err, map[string]any{"q": partial})
		return []string{}
	}
	s.suggest.Set(ctx, key, v)
	return v
}
