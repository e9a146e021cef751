package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewSupabase_RequiresCredentials(t *testing.T) {
	if _, err := NewSupabase(SupabaseConfig{URL: "https://x.supabase.co"}); err == nil {
		t.Error("NewSupabase() without key should fail")
	}
	if _, err := NewSupabase(SupabaseConfig{Key: "k"}); err == nil {
		t.Error("NewSupabase() without url should fail")
	}
}

func TestSupabase_Candidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/rest/v1/studios" {
			t.Errorf("path = %s, want /rest/v1/studios", r.URL.Path)
		}
		if got := r.Header.Get("apikey"); got != "secret" {
			t.Errorf("apikey header = %q, want secret", got)
		}

		q := r.URL.Query()
		if got := q.Get("image_url"); got != "neq." {
			t.Errorf("image_url filter = %q, want neq.", got)
		}
		if got := q.Get("limit"); got != "2" {
			t.Errorf("limit = %q, want 2", got)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"id": 1, "title": "Studio Zen", "neighborhood": "Vila Mariana", "city_code": "sp", "image_url": "https://cdn.example.com/zen.jpg", "phone": "123"},
			{"id": 2, "title": "Core", "neighborhood": null, "city_code": "sp", "image_url": "pilates-centro-sp-core.jpg"}
		]`)
	}))
	defer srv.Close()

	st, err := NewSupabase(SupabaseConfig{URL: srv.URL, Key: "secret"})
	if err != nil {
		t.Fatal(err)
	}

	studios, err := st.Candidates(context.Background(), 2)
	if err != nil {
		t.Fatalf("Candidates() error = %v", err)
	}
	if len(studios) != 2 {
		t.Fatalf("Candidates() returned %d studios, want 2", len(studios))
	}
	if studios[0].ID != 1 || studios[0].Title != "Studio Zen" || studios[0].Neighborhood != "Vila Mariana" {
		t.Errorf("studios[0] = %+v", studios[0])
	}
	if studios[1].Neighborhood != "" || studios[1].ImageURL != "pilates-centro-sp-core.jpg" {
		t.Errorf("studios[1] = %+v", studios[1])
	}
}

func TestSupabase_Candidates_CancelledContext(t *testing.T) {
	st, err := NewSupabase(SupabaseConfig{URL: "http://127.0.0.1:1", Key: "k"})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := st.Candidates(ctx, 0); err == nil {
		t.Error("Candidates() with cancelled context should fail")
	}
}

func TestSupabase_UpdateImage(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.42" {
			t.Errorf("id filter = %q, want eq.42", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	st, err := NewSupabase(SupabaseConfig{URL: srv.URL, Key: "secret"})
	if err != nil {
		t.Fatal(err)
	}
	st.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	if err := st.UpdateImage(context.Background(), 42, "pilates-vila-mariana-sp-studio-zen.jpg"); err != nil {
		t.Fatalf("UpdateImage() error = %v", err)
	}
	if gotBody["image_url"] != "pilates-vila-mariana-sp-studio-zen.jpg" {
		t.Errorf("image_url = %v", gotBody["image_url"])
	}
	if gotBody["updated_at"] != "2025-01-02T03:04:05Z" {
		t.Errorf("updated_at = %v", gotBody["updated_at"])
	}
}
