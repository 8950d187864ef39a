package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ytakahashi/daily-checklist/internal/models"
	"github.com/ytakahashi/daily-checklist/internal/services"
)

var testNow = time.Date(2026, 10, 16, 7, 0, 0, 0, time.Local)

func newTestServer(t *testing.T) (*echo.Echo, *services.MemoryStore, *services.ChecklistService) {
	t.Helper()
	store := services.NewMemoryStore(nil)
	svc := services.NewChecklistService(store, store, services.NewNopLogger(), services.FixedClock{T: testNow})
	return NewRouter(svc, nil, services.NewNopLogger()), store, svc
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) Problem {
	t.Helper()
	if ct := rec.Header().Get(echo.HeaderContentType); ct != problemContentType {
		t.Fatalf("expected content type %s, got %s", problemContentType, ct)
	}
	var p Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decoding problem: %v", err)
	}
	return p
}

func seedItems(t *testing.T, store *services.MemoryStore, items ...models.CatalogItem) []models.CatalogItem {
	t.Helper()
	saved, err := store.SaveItems(context.Background(), items)
	if err != nil {
		t.Fatalf("seeding items: %v", err)
	}
	return saved
}

func TestHealth(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateItems(t *testing.T) {
	e, store, _ := newTestServer(t)

	body := `[
		{"label":"Stretch","category":"MORNING","order":1,"status":"ACTIVE","complete":false},
		{"label":"Read","category":"NIGHT","order":2,"status":"INACTIVE","complete":true}
	]`
	rec := doRequest(e, http.MethodPost, "/checklist/items", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created []models.CatalogItem
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created))
	}
	for _, item := range created {
		if item.ID == "" {
			t.Errorf("expected generated id for %q", item.Label)
		}
	}

	stored, _ := store.ListItems(context.Background())
	if len(stored) != 2 {
		t.Errorf("expected 2 stored items, got %d", len(stored))
	}
}

func TestCreateItemsEmptyArray(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/checklist/items", `[]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("expected [], got %s", got)
	}
}

func TestCreateItemsValidation(t *testing.T) {
	e, store, _ := newTestServer(t)

	body := `[
		{"label":"ok","category":"MORNING","order":1,"status":"ACTIVE","complete":false},
		{"label":"  ","order":2,"status":"ACTIVE"}
	]`
	rec := doRequest(e, http.MethodPost, "/checklist/items", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	p := decodeProblem(t, rec)
	if p.Title != "Validation Error" {
		t.Errorf("expected Validation Error, got %q", p.Title)
	}
	for _, field := range []string{"[1].label", "[1].category", "[1].complete"} {
		if _, ok := p.FieldErrors[field]; !ok {
			t.Errorf("expected field error for %s, got %v", field, p.FieldErrors)
		}
	}
	if _, ok := p.FieldErrors["[0].label"]; ok {
		t.Errorf("did not expect field error for valid item")
	}

	stored, _ := store.ListItems(context.Background())
	if len(stored) != 0 {
		t.Errorf("expected nothing stored, got %d items", len(stored))
	}
}

func TestCreateItemsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `[{"label":`},
		{"unknown category", `[{"label":"x","category":"EVENING","order":1,"status":"ACTIVE","complete":false}]`},
		{"unknown status", `[{"label":"x","category":"MORNING","order":1,"status":"PAUSED","complete":false}]`},
		{"not an array", `{"label":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestServer(t)

			rec := doRequest(e, http.MethodPost, "/checklist/items", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			p := decodeProblem(t, rec)
			if p.Status != http.StatusBadRequest {
				t.Errorf("expected problem status 400, got %d", p.Status)
			}
		})
	}
}

func TestGetAllItems(t *testing.T) {
	e, store, _ := newTestServer(t)
	seedItems(t, store,
		models.CatalogItem{Label: "a", Category: models.CategoryMorning, Order: 1, Status: models.StatusActive},
		models.CatalogItem{Label: "b", Category: models.CategoryNight, Order: 2, Status: models.StatusInactive},
	)

	rec := doRequest(e, http.MethodGet, "/checklist/items", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var items []models.CatalogItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(items) != 2 || items[0].Label != "a" || items[1].Label != "b" {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestUpdateItemsSyncDeletes(t *testing.T) {
	e, store, _ := newTestServer(t)
	saved := seedItems(t, store,
		models.CatalogItem{Label: "keep", Category: models.CategoryMorning, Order: 1, Status: models.StatusActive},
		models.CatalogItem{Label: "drop", Category: models.CategoryNight, Order: 2, Status: models.StatusActive},
	)

	body := `[{"id":"` + saved[0].ID + `","label":"kept","category":"AFTERNOON","order":5,"status":"INACTIVE","complete":true}]`
	rec := doRequest(e, http.MethodPut, "/checklist/items", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, _ := store.ListItems(context.Background())
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored item, got %d", len(stored))
	}
	if stored[0].Label != "kept" || stored[0].Status != models.StatusInactive {
		t.Errorf("expected updated item, got %+v", stored[0])
	}
}

func TestUpdateItemsErrors(t *testing.T) {
	e, store, _ := newTestServer(t)
	seedItems(t, store, models.CatalogItem{Label: "a", Category: models.CategoryMorning, Order: 1, Status: models.StatusActive})

	rec := doRequest(e, http.MethodPut, "/checklist/items",
		`[{"id":"missing","label":"x","category":"MORNING","order":1,"status":"ACTIVE","complete":false}]`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if p := decodeProblem(t, rec); p.Title != "Resource Not Found" {
		t.Errorf("expected Resource Not Found, got %q", p.Title)
	}

	rec = doRequest(e, http.MethodPut, "/checklist/items",
		`[{"label":"x","category":"MORNING","order":1,"status":"ACTIVE","complete":false}]`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if p := decodeProblem(t, rec); p.Title != "Invalid Argument" {
		t.Errorf("expected Invalid Argument, got %q", p.Title)
	}

	stored, _ := store.ListItems(context.Background())
	if len(stored) != 1 {
		t.Errorf("expected catalog untouched, got %d items", len(stored))
	}
}

func TestDeleteItem(t *testing.T) {
	e, store, _ := newTestServer(t)
	saved := seedItems(t, store, models.CatalogItem{Label: "a", Category: models.CategoryMorning, Order: 1, Status: models.StatusActive})

	rec := doRequest(e, http.MethodDelete, "/checklist/items/"+saved[0].ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodDelete, "/checklist/items/"+saved[0].ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestGetTodayChecklistNotFound(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/checklist", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	p := decodeProblem(t, rec)
	if p.Detail != "no checklist found for today" {
		t.Errorf("unexpected detail %q", p.Detail)
	}
	if p.Instance != "/checklist" {
		t.Errorf("expected instance /checklist, got %q", p.Instance)
	}
}

func TestResetAndToggle(t *testing.T) {
	e, store, _ := newTestServer(t)
	saved := seedItems(t, store,
		models.CatalogItem{Label: "a", Category: models.CategoryMorning, Order: 1, Status: models.StatusActive},
		models.CatalogItem{Label: "b", Category: models.CategoryNight, Order: 2, Status: models.StatusInactive},
	)

	rec := doRequest(e, http.MethodPost, "/checklist/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snapshot models.DailySnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if snapshot.Date != "2026-10-16" {
		t.Errorf("expected date 2026-10-16, got %s", snapshot.Date)
	}
	if len(snapshot.Items) != 1 || snapshot.Items[0].ItemID != saved[0].ID {
		t.Fatalf("expected only the active item, got %+v", snapshot.Items)
	}

	rec = doRequest(e, http.MethodPatch, "/checklist/"+saved[0].ID+"/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !snapshot.Items[0].Complete {
		t.Errorf("expected item to be complete")
	}

	rec = doRequest(e, http.MethodPatch, "/checklist/"+saved[0].ID+"/uncomplete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if snapshot.Items[0].Complete {
		t.Errorf("expected item to be incomplete")
	}

	rec = doRequest(e, http.MethodPatch, "/checklist/"+saved[1].ID+"/complete", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for inactive item, got %d", rec.Code)
	}

	rec = doRequest(e, http.MethodGet, "/checklist", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestResetEmptyCatalog(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/checklist/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got := string(raw["items"]); got != "[]" {
		t.Errorf("expected empty items array, got %s", got)
	}
}

func TestUnknownRoute(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	decodeProblem(t, rec)
}

func TestWebhookNotMountedWithoutHandler(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/webhook", `{}`)
	if rec.Code == http.StatusOK {
		t.Fatalf("expected webhook route to be absent")
	}
}
