package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookNotifierSendsAlerts(t *testing.T) {
	var received struct {
		Alerts []Alert `json:"alerts"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, ingin POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	alerts := []Alert{
		{Jenis: "mortalitas", Status: "high", Subjek: "Kandang A", Nilai: 6.5},
		{Jenis: "stok_pakan", Status: "low", Subjek: "Starter", Nilai: 40},
	}

	if err := n.SendAlerts(context.Background(), alerts); err != nil {
		t.Fatalf("SendAlerts: %v", err)
	}
	if len(received.Alerts) != 2 {
		t.Fatalf("alert diterima = %d, ingin 2", len(received.Alerts))
	}
	if received.Alerts[0].Subjek != "Kandang A" {
		t.Errorf("subjek = %q, ingin %q", received.Alerts[0].Subjek, "Kandang A")
	}
}

func TestWebhookNotifierEmptyIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	if err := n.SendAlerts(context.Background(), nil); err != nil {
		t.Fatalf("SendAlerts: %v", err)
	}
	if called {
		t.Error("webhook terpanggil untuk daftar alert kosong")
	}
}

func TestWebhookNotifierRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	err := n.SendAlerts(context.Background(), []Alert{{Jenis: "utilisasi", Status: "warning"}})
	if err == nil {
		t.Fatal("ingin error untuk status non-2xx")
	}
}
