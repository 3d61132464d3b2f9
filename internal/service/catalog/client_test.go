package catalog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
)

func TestClientGetPricing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/variants/v-1/pricing":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"variant_id":"v-1","price_minor":3990000}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)

	price, err := client.GetPricing("v-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 3990000 {
		t.Fatalf("expected price 3990000, got %d", price)
	}

	if _, err := client.GetPricing("v-missing"); !errors.Is(err, domain.ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got %v", err)
	}
}

func TestClientGetMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/variants/v-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"variant_id":"v-1","model_id":"m-1","model_name":"Atlas","variant_name":"Atlas LX"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)

	meta, err := client.GetMetadata("v-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.ModelID != "m-1" || meta.VariantName != "Atlas LX" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)

	if _, err := client.GetPricing("v-1"); !domain.IsDownstreamUnavailable(err) {
		t.Fatalf("expected downstream unavailable, got %v", err)
	}
}
