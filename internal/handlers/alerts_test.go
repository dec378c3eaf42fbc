package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"beltsense/internal/models"
	"beltsense/internal/service"
)

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAlertHandlers_ListAndSubmit(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	rec := models.AlertRecord{ID: "a1", Source: "Chute 3", Summary: "nearly full", Severity: models.SeverityHigh}
	al := &mockAlerts{list: []models.AlertRecord{rec}, handleResp: []models.AlertRecord{rec}}
	s := &service.Service{Authorization: auth, Alerts: al}
	r := newTestRouter(s)

	// GET alerts requires auth → 401 without header
	w := doJSON(r, http.MethodGet, "/api/v1/alerts/", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	// With auth → 200 and the collection
	w = doJSON(r, http.MethodGet, "/api/v1/alerts/", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var got []models.AlertRecord
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal alerts: %v", err)
	}
	if len(got) != 1 || got[0].Source != "Chute 3" {
		t.Fatalf("unexpected alerts: %+v", got)
	}

	// POST reading → 200, passes source and fill level through
	w = doJSON(r, http.MethodPost, "/api/v1/alerts/readings", `{"source":"Chute 3","fillLevel":92}`, "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("reading status=%d, body=%s", w.Code, w.Body.String())
	}
	if al.handleCalls != 1 {
		t.Fatalf("HandleReading calls=%d", al.handleCalls)
	}
	if al.lastReading.Source != "Chute 3" || al.lastReading.FillLevel != 92 {
		t.Fatalf("wrong reading passed: %+v", al.lastReading)
	}
}

func TestAlertHandlers_SubmitReadingErrors(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	al := &mockAlerts{handleErr: fmt.Errorf("%w: connection refused", service.ErrRecommendationUnavailable)}
	s := &service.Service{Authorization: auth, Alerts: al}
	r := newTestRouter(s)

	// Unavailable diagnosis → 502
	w := doJSON(r, http.MethodPost, "/api/v1/alerts/readings", `{"source":"Chute 3","fillLevel":92}`, "valid")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 for unavailable diagnosis, got %d, body=%s", w.Code, w.Body.String())
	}

	// Missing source → 400
	w = doJSON(r, http.MethodPost, "/api/v1/alerts/readings", `{"fillLevel":92}`, "valid")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing source, got %d", w.Code)
	}
}

func TestAlertHandlers_Dismiss(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	al := &mockAlerts{dismissOK: true}
	s := &service.Service{Authorization: auth, Alerts: al}
	r := newTestRouter(s)

	w := doJSON(r, http.MethodDelete, "/api/v1/alerts/Chute%203", "", "valid")
	if w.Code != http.StatusOK {
		t.Fatalf("dismiss status=%d, body=%s", w.Code, w.Body.String())
	}
	if al.lastDismiss != "Chute 3" {
		t.Fatalf("dismiss source = %q", al.lastDismiss)
	}

	al.dismissOK = false
	w = doJSON(r, http.MethodDelete, "/api/v1/alerts/Chute%203", "", "valid")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing alert, got %d", w.Code)
	}
}
