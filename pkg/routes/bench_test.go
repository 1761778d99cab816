package routes

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getmockd/perfstub/pkg/config"
)

func newBenchRouter(b *testing.B) *Router {
	b.Helper()
	cfg := config.Default()
	cfg.Perf.OrderMaxDelayMs = 0
	rt, err := New(cfg)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	return rt
}

func BenchmarkCatalogCreate(b *testing.B) {
	rt := newBenchRouter(b)
	body := []byte(`{"name":"Rice","category":"Grain","brand":"Acme","lotNumber":"L1"}`)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/foodstore", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		rt.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			b.Fatalf("status = %d", rec.Code)
		}
	}
}

func BenchmarkCatalogCreateParallel(b *testing.B) {
	rt := newBenchRouter(b)
	body := []byte(`{"name":"Rice","category":"Grain","brand":"Acme","lotNumber":"L1"}`)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodPost, "/api/foodstore", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, req)
			_, _ = io.Copy(io.Discard, rec.Body)
		}
	})
}

func BenchmarkSimpleEndpoint(b *testing.B) {
	rt := newBenchRouter(b)
	srv := httptest.NewServer(rt)
	defer srv.Close()
	client := srv.Client()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := client.Get(srv.URL + "/api/test/simple")
		if err != nil {
			b.Fatal(err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
