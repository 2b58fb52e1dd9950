package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Error("expected error when base URL is missing")
	}
}

func TestLinkAccount(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	status := http.StatusOK
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		if status == http.StatusBadRequest {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"detail": "already linked"})
			return
		}
		w.WriteHeader(status)
	})

	res, err := c.LinkAccount(context.Background(), "A123456789", "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Error("expected OK on 200")
	}
	if gotPath != "/linkLineID/" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotBody["idNumber"] != "A123456789" || gotBody["lineId"] != "U1" {
		t.Errorf("unexpected body %v", gotBody)
	}

	status = http.StatusBadRequest
	res, err = c.LinkAccount(context.Background(), "A123456789", "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Error("expected failure on 400")
	}
	if res.Detail != "already linked" {
		t.Errorf("expected rejection detail, got %q", res.Detail)
	}

	status = http.StatusInternalServerError
	res, err = c.LinkAccount(context.Background(), "A123456789", "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK || res.Detail != "" {
		t.Errorf("expected bare failure on 500, got %+v", res)
	}
}

func TestSearchAccount(t *testing.T) {
	found := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if found {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ok, err := c.SearchAccount(context.Background(), "A123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected found")
	}

	found = false
	ok, err = c.SearchAccount(context.Background(), "A123456789")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected not found")
	}
}

func TestIncrementActivity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %q", r.Method)
		}
		if r.URL.Path != "/add/healthMeasurement" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]int{"healthMeasurement": 7})
	})

	count, ok, err := c.IncrementActivity(context.Background(), "U1", "healthMeasurement")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || count != 7 {
		t.Errorf("expected (7, true), got (%d, %v)", count, ok)
	}
}

func TestIncrementActivityFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, ok, err := c.IncrementActivity(context.Background(), "U1", "exercise")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected failure on non-200")
	}
}

func TestUnlink(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/logout/" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	ok, err := c.Unlink(context.Background(), "U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected OK")
	}
}

func TestTransportError(t *testing.T) {
	c, err := NewClient(WithBaseURL("http://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	if _, err := c.RegisterAccount(context.Background(), "Alice", "A123456789", "0912345678"); err == nil {
		t.Error("expected transport error")
	}
}
