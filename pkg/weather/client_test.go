package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrentByCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		if got := r.URL.Query().Get("q"); got != "Брянск" {
			t.Errorf("q = %q, want Брянск", got)
		}
		if got := r.URL.Query().Get("appid"); got != "test-key" {
			t.Errorf("appid = %q, want test-key", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":20.5},"weather":[{"description":"clear sky"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", 2*time.Second)
	c.SetBaseURL(srv.URL)

	report, err := c.CurrentByCity(context.Background(), "Брянск")
	if err != nil {
		t.Fatalf("CurrentByCity failed: %v", err)
	}
	if report.Temperature != 20.5 {
		t.Errorf("temperature = %v, want 20.5", report.Temperature)
	}
	if report.Description != "clear sky" {
		t.Errorf("description = %q, want %q", report.Description, "clear sky")
	}
}

func TestCurrentByCityNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", 2*time.Second)
	c.SetBaseURL(srv.URL)

	if _, err := c.CurrentByCity(context.Background(), "Брянск"); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}

func TestCurrentByCityTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("test-key", 20*time.Millisecond)
	c.SetBaseURL(srv.URL)

	if _, err := c.CurrentByCity(context.Background(), "Брянск"); err == nil {
		t.Fatalf("expected error on timeout")
	}
}

func TestCurrentByCityEmptyConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main":{"temp":1.0},"weather":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", 2*time.Second)
	c.SetBaseURL(srv.URL)

	if _, err := c.CurrentByCity(context.Background(), "Брянск"); err == nil {
		t.Fatalf("expected error when response has no conditions")
	}
}
