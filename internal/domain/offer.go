package domain

import (
	"strconv"
	"strings"
	"time"
)

type OfferType string

const (
	OfferTypeJob     OfferType = "job"
	OfferTypeService OfferType = "service"
	OfferTypeProduct OfferType = "product"
)

// ValidType reports whether t is one of the three offer variants.
func ValidType(t OfferType) bool {
	switch t {
	case OfferTypeJob, OfferTypeService, OfferTypeProduct:
		return true
	}
	return false
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

func (l *Location) Coords() Coords { return Coords{Lat: l.Lat, Lng: l.Lng} }

// Job is the variant payload for job offers.
type Job struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	SalaryAmount     *float64 `json:"salaryAmount,omitempty"`
	SalaryUnit       string   `json:"salaryUnit,omitempty"` // hour | month | project
}

// Service is the variant payload for service offers.
type Service struct {
	Name        string   `json:"name"`
	Provider    string   `json:"provider,omitempty"`
	PriceAmount *float64 `json:"priceAmount,omitempty"`
	PriceUnit   string   `json:"priceUnit,omitempty"` // hour | project | fixed
}

// Product is the variant payload for product offers.
type Product struct {
	Name      string  `json:"name"`
	Brand     string  `json:"brand,omitempty"`
	Price     float64 `json:"price"`
	Condition string  `json:"condition,omitempty"`
}

// Offer is a tagged union discriminated by Type: exactly one of Job,
// Service, Product is non-nil. Records are immutable once created;
// save/unsave membership lives in a separate identifier set.
type Offer struct {
	ID         string    `json:"id"`
	Type       OfferType `json:"type"`
	CreatedAt  string    `json:"createdAt"` // RFC3339
	Summary    string    `json:"summary"`
	Location   *Location `json:"location,omitempty"`
	Details    string    `json:"details,omitempty"`
	ExpiresAt  string    `json:"expiresAt,omitempty"` // YYYY-MM-DD
	Applicants int       `json:"applicants"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`

	Job     *Job     `json:"job,omitempty"`
	Service *Service `json:"service,omitempty"`
	Product *Product `json:"product,omitempty"`
}

// DisplayTitle returns the variant-specific headline.
func (o *Offer) DisplayTitle() string {
	switch o.Type {
	case OfferTypeJob:
		if o.Job != nil {
			return o.Job.Title
		}
	case OfferTypeService:
		if o.Service != nil {
			return o.Service.Name
		}
	case OfferTypeProduct:
		if o.Product != nil {
			return o.Product.Name
		}
	}
	return ""
}

// ParseExpiry parses a YYYY-MM-DD expiry string (1-indexed month).
// Anything that is not three dash-separated numbers reports false, and
// the offer is treated as never expiring. Out-of-range components are
// normalized the way time.Date normalizes them.
func ParseExpiry(s string) (time.Time, bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), true
}

// OfferDraft holds the partial fields extracted from a scanned notice.
// The client uses it to prefill the create form; nothing is persisted
// until the user submits.
type OfferDraft struct {
	Type      OfferType `json:"type,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	Details   string    `json:"details,omitempty"`
	Address   string    `json:"address,omitempty"`
	ExpiresAt string    `json:"expiresAt,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Job       *Job      `json:"job,omitempty"`
	Service   *Service  `json:"service,omitempty"`
	Product   *Product  `json:"product,omitempty"`
}
