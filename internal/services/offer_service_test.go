package services_test

import (
	"testing"
	"time"

	"offerlens/internal/domain"
	"offerlens/internal/repos"
	"offerlens/internal/services"
)

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestOfferCreateAssignsIdentityAndSeed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := services.NewOfferService(repos.NewOfferRepo(db), fixedNow)

	in := domain.Offer{
		Type:    domain.OfferTypeJob,
		Summary: "Dog walker needed",
		Job:     &domain.Job{Title: "Dog walker", Company: "Private"},
	}
	o, err := svc.Create("u-bob", in)
	if err != nil {
		t.Fatal(err)
	}
	if o.ID == "" {
		t.Fatal("id not assigned")
	}
	if o.CreatedAt != "2024-06-01T12:00:00Z" {
		t.Fatalf("created_at = %q", o.CreatedAt)
	}
	if o.Applicants < 0 || o.Applicants > 19 {
		t.Fatalf("applicant seed out of range: %d", o.Applicants)
	}

	got, err := svc.Get(o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Job == nil || got.Job.Title != "Dog walker" {
		t.Fatalf("payload lost on round trip: %+v", got)
	}
}

func TestOfferCreateRejectsInvalid(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := services.NewOfferService(repos.NewOfferRepo(db), fixedNow)

	cases := []domain.Offer{
		{Type: "car", Summary: "x"},
		{Type: domain.OfferTypeJob, Summary: "no payload"},
		{Type: domain.OfferTypeProduct, Summary: "neg", Product: &domain.Product{Name: "x", Price: -1}},
		{Type: domain.OfferTypeService, Job: &domain.Job{Title: "t", Company: "c"}},
	}
	for i, in := range cases {
		if _, err := svc.Create("u-bob", in); err == nil {
			t.Fatalf("case %d: expected rejection, got none", i)
		}
	}
}

func TestFeedAppliesFilters(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	svc := services.NewOfferService(repos.NewOfferRepo(db), fixedNow)

	// Expired offer never shows up.
	if _, err := svc.Create("u-bob", domain.Offer{
		Type: domain.OfferTypeJob, Summary: "stale", ExpiresAt: "2000-01-01",
		Job: &domain.Job{Title: "Old", Company: "Gone Inc"},
	}); err != nil {
		t.Fatal(err)
	}
	fresh, err := svc.Create("u-bob", domain.Offer{
		Type: domain.OfferTypeJob, Summary: "fresh", ExpiresAt: "2099-01-01",
		Job: &domain.Job{Title: "New", Company: "Here Inc"},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Feed("u-bob", services.FeedState{Type: "all"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != fresh.ID {
		t.Fatalf("feed: want only fresh offer, got %+v", got)
	}

	// Seeded alice account: three offers, one job.
	all, err := svc.Feed("u-alice", services.FeedState{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("seeded feed: want 3, got %d", len(all))
	}
	jobs, err := svc.Feed("u-alice", services.FeedState{Type: "job"})
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Type != domain.OfferTypeJob {
		t.Fatalf("type filter: got %+v", jobs)
	}

	// Proximity: center on downtown Philadelphia keeps located offers only.
	near, err := svc.Feed("u-alice", services.FeedState{Center: &domain.Coords{Lat: 39.95, Lng: -75.17}})
	if err != nil {
		t.Fatal(err)
	}
	if len(near) != 2 {
		t.Fatalf("proximity: want 2 located offers, got %d", len(near))
	}
}
