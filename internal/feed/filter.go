package feed

import (
	"math"
	"strings"
	"time"

	"offerlens/internal/domain"
)

// DefaultRadiusKm is the fixed proximity radius for the feed.
const DefaultRadiusKm = 50.0

const earthRadiusKm = 6371.0

// TypeAll disables the type stage.
const TypeAll = "all"

// Params is the UI filter state the feed applies to a user's offers.
type Params struct {
	Today    time.Time      // date-only cutoff for the expiry stage
	Type     string         // "all" (or empty) keeps every variant
	Center   *domain.Coords // nil disables the proximity stage
	RadiusKm float64        // 0 means DefaultRadiusKm
	Query    string         // empty disables the text stage
}

// Filter narrows offers to the visible feed subset. All four stages are
// independent predicates; relative order of the input is preserved and
// the input slice is never mutated.
func Filter(offers []domain.Offer, p Params) []domain.Offer {
	radius := p.RadiusKm
	if radius <= 0 {
		radius = DefaultRadiusKm
	}
	today := truncateToDate(p.Today)
	query := strings.ToLower(strings.TrimSpace(p.Query))

	out := make([]domain.Offer, 0, len(offers))
	for i := range offers {
		o := &offers[i]
		if expired(o, today) {
			continue
		}
		if !matchesType(o, p.Type) {
			continue
		}
		if !withinRadius(o, p.Center, radius) {
			continue
		}
		if !matchesQuery(o, query) {
			continue
		}
		out = append(out, offers[i])
	}
	return out
}

// expired reports whether the offer's expiry parses to a date strictly
// before today. Absent or malformed expiry keeps the offer.
func expired(o *domain.Offer, today time.Time) bool {
	if o.ExpiresAt == "" {
		return false
	}
	exp, ok := domain.ParseExpiry(o.ExpiresAt)
	if !ok {
		return false
	}
	return exp.Before(today)
}

func matchesType(o *domain.Offer, typeFilter string) bool {
	if typeFilter == "" || typeFilter == TypeAll {
		return true
	}
	return string(o.Type) == typeFilter
}

func withinRadius(o *domain.Offer, center *domain.Coords, radiusKm float64) bool {
	if center == nil {
		return true
	}
	if o.Location == nil {
		return false
	}
	return DistanceKm(*center, o.Location.Coords()) <= radiusKm
}

func matchesQuery(o *domain.Offer, loweredQuery string) bool {
	if loweredQuery == "" {
		return true
	}
	fields := []string{o.DisplayTitle(), o.Summary}
	switch o.Type {
	case domain.OfferTypeJob:
		if o.Job != nil {
			fields = append(fields, o.Job.Company+" "+strings.Join(o.Job.Skills, " "))
		}
	case domain.OfferTypeService:
		if o.Service != nil {
			fields = append(fields, o.Service.Provider)
		}
	case domain.OfferTypeProduct:
		if o.Product != nil {
			fields = append(fields, o.Product.Brand)
		}
	}
	if o.Location != nil {
		fields = append(fields, o.Location.Address)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), loweredQuery) {
			return true
		}
	}
	return false
}

// DistanceKm computes the great-circle distance between two points via
// the haversine formula (Earth radius 6371 km).
func DistanceKm(a, b domain.Coords) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
