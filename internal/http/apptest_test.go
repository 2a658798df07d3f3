package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"offerlens/internal/config"
	"offerlens/internal/domain"
	"offerlens/internal/http/handlers"
	"offerlens/internal/kv"
	"offerlens/internal/repos"
	"offerlens/internal/services"
)

// stubGeocoder is a deterministic services.Geocoder for handler tests.
type stubGeocoder struct{}

func (stubGeocoder) ReverseGeocode(context.Context, float64, float64) (string, error) {
	return "Philadelphia", nil
}

func (stubGeocoder) GeocodeLocation(_ context.Context, text string) (*domain.Coords, error) {
	if text == "nowhere" {
		return nil, nil
	}
	return &domain.Coords{Lat: 39.95, Lng: -75.17}, nil
}

func (stubGeocoder) LocationSuggestions(_ context.Context, partial string) ([]string, error) {
	return []string{partial + " City"}, nil
}

// newTestApp wires the real routes over an in-memory database, the
// stub geocoder and an optional scan service.
func newTestApp(t *testing.T, scanSvc *services.ScanService) (*fiber.App, *sqlx.DB) {
	t.Helper()
	cfg := config.Config{DBDSN: ":memory:"}
	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	locSvc := services.NewLocationService(stubGeocoder{}, kv.NewSQLiteStore(db), 5*time.Minute, nil)
	if scanSvc == nil {
		scanSvc = services.NewScanService(nil)
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, cfg, locSvc, scanSvc)
	requireUser := handlers.RequireUser(authSvc)

	api := app.Group("/api/v1")
	api.Post("/login", authH.Login)
	api.Post("/logout", authH.Logout)
	api.Get("/feed", requireUser, deps.FeedHandler.List)
	api.Post("/offers", requireUser, deps.OfferHandler.Create)
	api.Get("/offers/:id", requireUser, deps.OfferHandler.Detail)
	api.Post("/scan", requireUser, deps.ScanHandler.Analyze)
	api.Get("/geo/suggest", deps.GeoHandler.Suggest)
	api.Get("/geo/geocode", deps.GeoHandler.Geocode)
	api.Get("/geo/reverse", deps.GeoHandler.Reverse)
	api.Get("/saved", requireUser, deps.SavedHandler.List)
	api.Post("/saved", requireUser, deps.SavedHandler.Save)
	api.Delete("/saved/:id", requireUser, deps.SavedHandler.Unsave)

	return app, db
}

func jsonReq(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func extractCookie(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// loginAlice logs the seeded alice account in and returns her sid.
func loginAlice(t *testing.T, app *fiber.App) string {
	t.Helper()
	req := jsonReq("POST", "/api/v1/login", map[string]string{
		"email": "alice@offerlens.test", "password": "Passw0rd!",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}
	sid := extractCookie(resp, "sid")
	if sid == "" {
		t.Fatal("sid cookie missing")
	}
	return sid
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}
