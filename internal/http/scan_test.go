package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"offerlens/internal/domain"
	"offerlens/internal/geo"
	"offerlens/internal/services"
)

func newScanApp(t *testing.T, upstream http.HandlerFunc) *fiber.App {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	scanSvc := services.NewScanService(geo.NewClient(srv.URL, ""))
	app, _ := newTestApp(t, scanSvc)
	return app
}

func TestScanReturnsDraft(t *testing.T) {
	app := newScanApp(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"offer": map[string]any{
			"type":    "job",
			"summary": "Barista wanted",
			"job":     map[string]any{"title": "Barista", "company": "Beanery"},
		}})
	})
	sid := loginAlice(t, app)

	req := jsonReq("POST", "/api/v1/scan", map[string]string{"image": "aGVsbG8gd29ybGQ="})
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var out struct {
		Offer domain.OfferDraft `json:"offer"`
	}
	decodeBody(t, resp, &out)
	if out.Offer.Job == nil || out.Offer.Job.Company != "Beanery" {
		t.Fatalf("draft not returned: %+v", out.Offer)
	}
}

func TestScanSurfacesUpstreamError(t *testing.T) {
	app := newScanApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "could not read the notice"})
	})
	sid := loginAlice(t, app)

	req := jsonReq("POST", "/api/v1/scan", map[string]string{"image": "aGVsbG8gd29ybGQ="})
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("want 502, got %d", resp.StatusCode)
	}
	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	if !strings.Contains(out.Error, "could not read the notice") {
		t.Fatalf("upstream message not surfaced: %q", out.Error)
	}
}

func TestScanRejectsBadPayloads(t *testing.T) {
	app := newScanApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid payloads")
	})
	sid := loginAlice(t, app)

	for _, img := range []string{"", "not base64!!"} {
		req := jsonReq("POST", "/api/v1/scan", map[string]string{"image": img})
		req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("image %q: want 400, got %d", img, resp.StatusCode)
		}
	}
}
