package services

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"offerlens/internal/domain"
	"offerlens/internal/feed"
	"offerlens/internal/repos"
)

var ErrOfferNotFound = errors.New("offer not found")

// applicantSeedMax bounds the random applicant count assigned at
// creation (0–19 inclusive).
const applicantSeedMax = 20

type OfferService struct {
	Offers *repos.OfferRepo
	now    func() time.Time
}

func NewOfferService(offers *repos.OfferRepo, now func() time.Time) *OfferService {
	if now == nil {
		now = time.Now
	}
	return &OfferService{Offers: offers, now: now}
}

// FeedState is the filter state the client sends with a feed request.
type FeedState struct {
	Type   string
	Query  string
	Center *domain.Coords
}

// Create stores a new offer for the user. The id, creation timestamp
// and seeded applicant count are assigned here; the record is immutable
// afterwards.
func (s *OfferService) Create(userID string, o domain.Offer) (domain.Offer, error) {
	if err := validateOffer(&o); err != nil {
		return domain.Offer{}, err
	}
	o.ID = uuid.NewString()
	o.CreatedAt = s.now().UTC().Format(time.RFC3339)
	o.Applicants = rand.IntN(applicantSeedMax)
	if err := s.Offers.Insert(userID, o); err != nil {
		return domain.Offer{}, err
	}
	return o, nil
}

func (s *OfferService) Get(id string) (domain.Offer, error) {
	o, err := s.Offers.Get(id)
	if err != nil {
		return domain.Offer{}, ErrOfferNotFound
	}
	return o, nil
}

// Feed returns the user's offers narrowed by the filter pipeline, with
// "today" taken from the service clock.
func (s *OfferService) Feed(userID string, st FeedState) ([]domain.Offer, error) {
	offers, err := s.Offers.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return feed.Filter(offers, feed.Params{
		Today:  s.now(),
		Type:   st.Type,
		Center: st.Center,
		Query:  st.Query,
	}), nil
}

func validateOffer(o *domain.Offer) error {
	if !domain.ValidType(o.Type) {
		return fmt.Errorf("invalid offer type %q", o.Type)
	}
	if o.Summary == "" {
		return errors.New("summary is required")
	}
	switch o.Type {
	case domain.OfferTypeJob:
		if o.Job == nil || o.Job.Title == "" || o.Job.Company == "" {
			return errors.New("job offers need a title and company")
		}
		o.Service, o.Product = nil, nil
	case domain.OfferTypeService:
		if o.Service == nil || o.Service.Name == "" {
			return errors.New("service offers need a service name")
		}
		o.Job, o.Product = nil, nil
	case domain.OfferTypeProduct:
		if o.Product == nil || o.Product.Name == "" {
			return errors.New("product offers need a product name")
		}
		if o.Product.Price < 0 {
			return errors.New("product price must not be negative")
		}
		o.Job, o.Service = nil, nil
	}
	return nil
}
