package feed_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"offerlens/internal/domain"
	"offerlens/internal/feed"
)

func job(id, expires string) domain.Offer {
	return domain.Offer{
		ID: id, Type: domain.OfferTypeJob, Summary: "summary " + id,
		ExpiresAt: expires,
		Job:       &domain.Job{Title: "Title " + id, Company: "Company"},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpiryStageDropsPastKeepsFuture(t *testing.T) {
	offers := []domain.Offer{job("future", "2099-01-01"), job("past", "2000-01-01")}
	got := feed.Filter(offers, feed.Params{Today: day(2024, time.June, 1), Type: "all"})
	if len(got) != 1 || got[0].ID != "future" {
		t.Fatalf("want only future job, got %+v", got)
	}
}

func TestExpiryStageKeepsAbsentAndMalformed(t *testing.T) {
	offers := []domain.Offer{
		job("none", ""),
		job("garbage", "not a date"),
		job("twopart", "2024-01"),
		job("alpha", "20xx-01-01"),
	}
	got := feed.Filter(offers, feed.Params{Today: day(2024, time.June, 1)})
	if len(got) != 4 {
		t.Fatalf("malformed/absent expiry must never exclude, got %d of 4", len(got))
	}
}

func TestExpiryStageIsDateOnly(t *testing.T) {
	// Expiring today is not "strictly before today" and stays visible
	// regardless of time of day on the clock.
	offers := []domain.Offer{job("today", "2024-06-01")}
	now := time.Date(2024, time.June, 1, 23, 59, 59, 0, time.UTC)
	got := feed.Filter(offers, feed.Params{Today: now})
	if len(got) != 1 {
		t.Fatalf("offer expiring today must be kept, got %d", len(got))
	}
}

func TestTypeStage(t *testing.T) {
	offers := []domain.Offer{
		job("j1", ""),
		{ID: "s1", Type: domain.OfferTypeService, Service: &domain.Service{Name: "Cleaning"}},
		{ID: "p1", Type: domain.OfferTypeProduct, Product: &domain.Product{Name: "Bike", Price: 50}},
	}
	got := feed.Filter(offers, feed.Params{Today: day(2024, 6, 1), Type: "service"})
	if len(got) != 1 || got[0].ID != "s1" {
		t.Fatalf("type filter service: got %+v", got)
	}
	got = feed.Filter(offers, feed.Params{Today: day(2024, 6, 1), Type: "all"})
	if len(got) != 3 {
		t.Fatalf(`type filter "all" must keep everything, got %d`, len(got))
	}
}

func TestProximityStage(t *testing.T) {
	near := job("near", "")
	near.Location = &domain.Location{Address: "Nearby", Lat: 40.3, Lng: -75.2} // ~29 km
	far := job("far", "")
	far.Location = &domain.Location{Address: "Far away", Lat: 41.5, Lng: -75.0} // ~167 km
	noLoc := job("noloc", "")

	center := &domain.Coords{Lat: 40.0, Lng: -75.0}
	got := feed.Filter([]domain.Offer{near, far, noLoc}, feed.Params{
		Today: day(2024, 6, 1), Center: center,
	})
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("proximity: want [near], got %+v", got)
	}

	// No center point keeps location-less offers.
	got = feed.Filter([]domain.Offer{near, far, noLoc}, feed.Params{Today: day(2024, 6, 1)})
	if len(got) != 3 {
		t.Fatalf("no center point must disable proximity, got %d", len(got))
	}
}

func TestTextStage(t *testing.T) {
	j := job("j1", "")
	j.Job.Company = "Acme Corp"
	p := domain.Offer{
		ID: "p1", Type: domain.OfferTypeProduct, Summary: "old bike",
		Product: &domain.Product{Name: "Bike", Brand: "Trek", Price: 40},
	}
	got := feed.Filter([]domain.Offer{j, p}, feed.Params{Today: day(2024, 6, 1), Query: "acme"})
	if len(got) != 1 || got[0].ID != "j1" {
		t.Fatalf("query acme: want [j1], got %+v", got)
	}

	// Case-insensitive, matches skills and address too.
	j.Job.Skills = []string{"Go", "SQL"}
	j.Location = &domain.Location{Address: "Main Street 5"}
	for _, q := range []string{"ACME", "sql", "main street"} {
		got := feed.Filter([]domain.Offer{j, p}, feed.Params{Today: day(2024, 6, 1), Query: q})
		if len(got) != 1 || got[0].ID != "j1" {
			t.Fatalf("query %q: want [j1], got %+v", q, got)
		}
	}
}

func TestFilterStableAndIdempotent(t *testing.T) {
	offers := []domain.Offer{job("a", ""), job("b", ""), job("c", "2000-01-01"), job("d", "")}
	p := feed.Params{Today: day(2024, 6, 1), Query: "summary"}
	once := feed.Filter(offers, p)
	twice := feed.Filter(once, p)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %+v vs %+v", once, twice)
	}
	wantOrder := []string{"a", "b", "d"}
	for i, id := range wantOrder {
		if once[i].ID != id {
			t.Fatalf("order not preserved: got %+v", once)
		}
	}
}

func TestFilterEmptyInput(t *testing.T) {
	got := feed.Filter(nil, feed.Params{Today: day(2024, 6, 1), Query: "x"})
	if len(got) != 0 {
		t.Fatalf("empty input must give empty output, got %+v", got)
	}
}

func TestDistanceKm(t *testing.T) {
	a := domain.Coords{Lat: 40.0, Lng: -75.0}
	if d := feed.DistanceKm(a, a); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
	b := domain.Coords{Lat: 41.5, Lng: -75.0}
	ab, ba := feed.DistanceKm(a, b), feed.DistanceKm(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", ab, ba)
	}
	// 1.5 degrees of latitude is ~166.8 km.
	if ab < 160 || ab > 175 {
		t.Fatalf("unexpected distance %v km", ab)
	}
	c := domain.Coords{Lat: 40.3, Lng: -75.2}
	if d := feed.DistanceKm(a, c); d < 25 || d > 35 {
		t.Fatalf("expected ~29 km, got %v", d)
	}
}
