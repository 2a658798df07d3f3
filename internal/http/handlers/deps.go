package handlers

import (
	"offerlens/internal/config"
	"offerlens/internal/repos"
	"offerlens/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	FeedHandler    *FeedHandler
	OfferHandler   *OfferHandler
	ScanHandler    *ScanHandler
	GeoHandler     *GeoHandler
	SavedHandler   *SavedHandler
	LocatorHandler *LocatorHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, loc *services.LocationService, scan *services.ScanService) *Deps {
	offerRepo := repos.NewOfferRepo(db)
	savedRepo := repos.NewSavedRepo(db)

	offerSvc := services.NewOfferService(offerRepo, nil)
	savedSvc := services.NewSavedService(savedRepo, offerRepo)

	return &Deps{
		FeedHandler:    &FeedHandler{Offers: offerSvc, Location: loc},
		OfferHandler:   &OfferHandler{Offers: offerSvc},
		ScanHandler:    &ScanHandler{Scan: scan},
		GeoHandler:     &GeoHandler{Location: loc},
		SavedHandler:   &SavedHandler{Saved: savedSvc},
		LocatorHandler: NewLocatorHandler(loc),
	}
}
