package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parchive/internal/config"
	"parchive/internal/store"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.Analysis{
		Enabled:        true,
		BaseURL:        server.URL,
		Model:          "llama3-70b",
		TimeoutSeconds: 5,
	})
}

func completionHandler(reply string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		encoded, _ := json.Marshal(reply)
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, encoded)
	}
}

func TestAnalyzeShow(t *testing.T) {
	var prompt, model string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		model = req.Model
		prompt = req.Messages[len(req.Messages)-1].Content
		completionHandler("A tech show.")(w, r)
	})

	show := &store.Show{Name: "Tech Talk", Author: "Jordan", Category: "Technology"}
	analysis, err := client.AnalyzeShow(context.Background(), show)
	if err != nil {
		t.Fatalf("AnalyzeShow: %v", err)
	}
	if analysis != "A tech show." {
		t.Fatalf("analysis = %q", analysis)
	}
	if model != "llama3-70b" {
		t.Fatalf("model = %q", model)
	}
	if !strings.Contains(prompt, "- Name: Tech Talk") || !strings.Contains(prompt, "- Category: Technology") {
		t.Fatalf("prompt missing metadata: %q", prompt)
	}
	if strings.Contains(prompt, "Description") {
		t.Fatalf("empty fields must be omitted: %q", prompt)
	}
}

func TestAnalyzeEpisode(t *testing.T) {
	client := newTestClient(t, completionHandler("An episode about compilers."))

	episode := &store.Episode{Title: "12: Compilers", EpisodeNumber: "12"}
	analysis, err := client.AnalyzeEpisode(context.Background(), episode, "Tech Talk")
	if err != nil {
		t.Fatalf("AnalyzeEpisode: %v", err)
	}
	if analysis != "An episode about compilers." {
		t.Fatalf("analysis = %q", analysis)
	}
}

func TestDisabledClientRefuses(t *testing.T) {
	client := NewClient(config.Analysis{Enabled: false, BaseURL: "http://localhost:1", Model: "m"})
	if client.Available(context.Background()) {
		t.Fatal("disabled client must not report availability")
	}
	if _, err := client.AnalyzeShow(context.Background(), &store.Show{Name: "X"}); err == nil {
		t.Fatal("disabled client must refuse analysis")
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	})
	if _, err := client.AnalyzeShow(context.Background(), &store.Show{Name: "X"}); err == nil {
		t.Fatal("expected error from failing endpoint")
	}
	if client.Available(context.Background()) {
		t.Fatal("failing endpoint must not be available")
	}
}
