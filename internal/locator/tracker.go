package locator

import (
	"context"
	"sync"
	"time"

	"offerlens/internal/domain"
)

const (
	// SuggestDelay paces suggestion lookups while the user types.
	SuggestDelay = 300 * time.Millisecond
	// GeocodeDelay paces the heavier geocode lookup from the same field.
	GeocodeDelay = 1000 * time.Millisecond

	lookupTimeout = 10 * time.Second
)

// Resolver is the lookup side of the tracker, typically the cached
// location service. Both calls already degrade to nil/empty on failure.
type Resolver interface {
	Suggest(ctx context.Context, q string) []string
	Geocode(ctx context.Context, q string) *domain.Coords
}

// Tracker owns the two debounce timers derived from one text input.
// The geocode timer does not fire a lookup while the user is
// interacting with the suggestion dropdown (SuggestionActive on the
// latest input), which avoids geocoding both the raw text and the
// selection the user is about to make.
//
// Responses apply last-write-wins: a slow response to a superseded
// query can overwrite a newer value. No request fencing.
type Tracker struct {
	mu               sync.Mutex
	res              Resolver
	suggestions      []string
	center           *domain.Coords
	suggestionActive bool

	suggestDeb *Debouncer
	geocodeDeb *Debouncer
}

func NewTracker(res Resolver) *Tracker {
	return newTracker(res, SuggestDelay, GeocodeDelay)
}

func newTracker(res Resolver, suggestDelay, geocodeDelay time.Duration) *Tracker {
	t := &Tracker{res: res}
	t.suggestDeb = NewDebouncer(suggestDelay, t.onSuggest)
	t.geocodeDeb = NewDebouncer(geocodeDelay, t.onGeocode)
	return t
}

// Input records a new raw text value plus whether the suggestion
// dropdown is currently in use, and re-arms both timers.
func (t *Tracker) Input(text string, suggestionActive bool) {
	t.mu.Lock()
	t.suggestionActive = suggestionActive
	t.mu.Unlock()
	t.suggestDeb.Set(text)
	t.geocodeDeb.Set(text)
}

// State returns the latest suggestion list and resolved center point.
func (t *Tracker) State() ([]string, *domain.Coords) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := make([]string, len(t.suggestions))
	copy(s, t.suggestions)
	var c *domain.Coords
	if t.center != nil {
		cc := *t.center
		c = &cc
	}
	return s, c
}

// Stop cancels both pending timers. In-flight lookups are not
// cancelled; their responses still land as latest-known values.
func (t *Tracker) Stop() {
	t.suggestDeb.Stop()
	t.geocodeDeb.Stop()
}

func (t *Tracker) onSuggest(q string) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	s := t.res.Suggest(ctx, q)
	t.mu.Lock()
	t.suggestions = s
	t.mu.Unlock()
}

func (t *Tracker) onGeocode(q string) {
	t.mu.Lock()
	skip := t.suggestionActive
	t.mu.Unlock()
	if skip {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()
	c := t.res.Geocode(ctx, q)
	t.mu.Lock()
	t.center = c
	t.mu.Unlock()
}
