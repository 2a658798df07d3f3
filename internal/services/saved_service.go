package services

import (
	"offerlens/internal/domain"
	"offerlens/internal/repos"
)

type SavedService struct {
	Saved  *repos.SavedRepo
	Offers *repos.OfferRepo
}

func NewSavedService(saved *repos.SavedRepo, offers *repos.OfferRepo) *SavedService {
	return &SavedService{Saved: saved, Offers: offers}
}

func (s *SavedService) Save(userID, offerID string) error {
	if _, err := s.Offers.Get(offerID); err != nil {
		return ErrOfferNotFound
	}
	return s.Saved.Add(userID, offerID)
}

func (s *SavedService) Unsave(userID, offerID string) error {
	return s.Saved.Remove(userID, offerID)
}

func (s *SavedService) List(userID string) ([]domain.Offer, error) {
	return s.Saved.ListOffers(userID)
}

func (s *SavedService) IDs(userID string) ([]string, error) {
	return s.Saved.IDs(userID)
}
