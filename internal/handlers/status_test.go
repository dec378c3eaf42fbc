package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"beltsense/internal/models"
	"beltsense/internal/service"
)

func TestStatusHandlers_ListAndGet(t *testing.T) {
	updated := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	chute := models.Chute{ID: 2, Barcode: "CHT-0002", Name: "Chute 2", Status: models.ChuteStatusFull, FillLevel: 100, LastUpdated: updated}
	cs := &mockChuteStatus{chutes: []models.Chute{chute}, getResp: &chute}
	s := &service.Service{ChuteStatus: cs}
	r := newTestRouter(s)

	// Status routes are public: no auth header anywhere here.
	w := doJSON(r, http.MethodGet, "/status", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var list []models.Chute
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list) != 1 || list[0].Barcode != "CHT-0002" {
		t.Fatalf("unexpected list: %+v", list)
	}

	// By barcode → single-element array
	w = doJSON(r, http.MethodGet, "/status/getByBarcode/CHT-0002", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("byBarcode status=%d", w.Code)
	}
	var arr []models.Chute
	if err := json.Unmarshal(w.Body.Bytes(), &arr); err != nil {
		t.Fatalf("unmarshal byBarcode: %v", err)
	}
	if len(arr) != 1 || arr[0].ID != 2 {
		t.Fatalf("unexpected byBarcode body: %+v", arr)
	}
	if cs.lastCode != "CHT-0002" {
		t.Fatalf("barcode passed = %q", cs.lastCode)
	}

	// By id → single object
	w = doJSON(r, http.MethodGet, "/status/getById/2", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("byId status=%d", w.Code)
	}
	var got models.Chute
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Name != "Chute 2" {
		t.Fatalf("unexpected byId body: %+v", got)
	}

	// Non-numeric id → 400
	w = doJSON(r, http.MethodGet, "/status/getById/two", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestStatusHandlers_GetMissing(t *testing.T) {
	cs := &mockChuteStatus{}
	s := &service.Service{ChuteStatus: cs}
	r := newTestRouter(s)

	w := doJSON(r, http.MethodGet, "/status/getByBarcode/CHT-9999", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing barcode, got %d", w.Code)
	}
	w = doJSON(r, http.MethodGet, "/status/getById/99", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing id, got %d", w.Code)
	}
}

func TestStatusHandlers_Update(t *testing.T) {
	chute := models.Chute{ID: 4, Barcode: "CHT-0004", Name: "Chute 4", Status: models.ChuteStatusOffline}
	cs := &mockChuteStatus{updResp: &chute}
	s := &service.Service{ChuteStatus: cs}
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPut, "/update/4", `{"status":"Offline"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("update status=%d, body=%s", w.Code, w.Body.String())
	}
	if cs.lastID != 4 || cs.lastValue != "Offline" {
		t.Fatalf("wrong update params: id=%d status=%q", cs.lastID, cs.lastValue)
	}

	w = doJSON(r, http.MethodPut, "/updateByBarcode/CHT-0004", `{"status":"Normal"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("updateByBarcode status=%d", w.Code)
	}
	if cs.lastCode != "CHT-0004" || cs.lastValue != "Normal" {
		t.Fatalf("wrong update params: barcode=%q status=%q", cs.lastCode, cs.lastValue)
	}

	// Missing body → 400
	w = doJSON(r, http.MethodPut, "/update/4", `{}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing status, got %d", w.Code)
	}
}

func TestStatusHandlers_UpdateUnknownStatus(t *testing.T) {
	cs := &mockChuteStatus{updErr: fmt.Errorf("%w: %q", service.ErrUnknownChuteStatus, "Exploded")}
	s := &service.Service{ChuteStatus: cs}
	r := newTestRouter(s)

	w := doJSON(r, http.MethodPut, "/update/4", `{"status":"Exploded"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d, body=%s", w.Code, w.Body.String())
	}
}
