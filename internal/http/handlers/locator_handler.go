package handlers

import (
	"sync"
	"time"

	"offerlens/internal/locator"
	applog "offerlens/internal/log"

	"github.com/gofiber/fiber/v2"
)

// trackerIdleTTL is how long a session tracker may sit untouched before
// it is evicted. The endpoint is reachable without a login and every
// cookieless request mints a fresh sid, so the map must not grow
// without bound.
const trackerIdleTTL = 10 * time.Minute

type trackerEntry struct {
	tracker  *locator.Tracker
	lastSeen time.Time
}

// LocatorHandler keeps one locator.Tracker per session, driving the
// server-side typeahead: the client streams raw keystrokes of the
// location field, the tracker debounces them into suggestion and
// geocode lookups, and the client polls the resolved state. Idle
// trackers are purged lazily on access, the same way the cache purges
// expired entries on read.
type LocatorHandler struct {
	mu       sync.Mutex
	trackers map[string]*trackerEntry
	resolver locator.Resolver
	now      func() time.Time
}

func NewLocatorHandler(res locator.Resolver) *LocatorHandler {
	return &LocatorHandler{
		trackers: make(map[string]*trackerEntry),
		resolver: res,
		now:      time.Now,
	}
}

type locatorInput struct {
	Text string `json:"text"`
	// SuggestionActive marks that the suggestion dropdown is in use,
	// which suppresses the geocode timer for this value.
	SuggestionActive bool `json:"suggestionActive"`
}

func (h *LocatorHandler) Input(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var in locatorInput
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	h.tracker(sid).Input(in.Text, in.SuggestionActive)
	applog.Info(c, "locator.input", map[string]any{"len": len(in.Text), "dropdown": in.SuggestionActive})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *LocatorHandler) State(c *fiber.Ctx) error {
	sid := ensureSID(c)
	suggestions, center := h.tracker(sid).State()
	resp := fiber.Map{"suggestions": suggestions}
	if center != nil {
		resp["center"] = center
	}
	return c.JSON(resp)
}

func (h *LocatorHandler) tracker(sid string) *locator.Tracker {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()

	for id, e := range h.trackers {
		if id != sid && now.Sub(e.lastSeen) > trackerIdleTTL {
			e.tracker.Stop()
			delete(h.trackers, id)
		}
	}

	e, ok := h.trackers[sid]
	if !ok {
		e = &trackerEntry{tracker: locator.NewTracker(h.resolver)}
		h.trackers[sid] = e
	}
	e.lastSeen = now
	return e.tracker
}
