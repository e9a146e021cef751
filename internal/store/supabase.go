package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/supabase-community/postgrest-go"

	"github.com/handiism/studio-images/internal/model"
)

const restPath = "/rest/v1"

// SupabaseConfig holds the connection and table settings.
type SupabaseConfig struct {
	// URL is the project URL, e.g. "https://xyz.supabase.co". The REST
	// path is appended when missing.
	URL string

	// Key is the API key, sent both as apikey and as bearer token.
	Key string

	// Schema defaults to "public".
	Schema string

	// Table defaults to "studios".
	Table string

	// ImageField defaults to "image_url".
	ImageField string

	// UpdatedAtField defaults to "updated_at".
	UpdatedAtField string
}

// Supabase implements Store over PostgREST.
type Supabase struct {
	client         *postgrest.Client
	table          string
	imageField     string
	updatedAtField string
	now            func() time.Time
}

// NewSupabase creates a Supabase store. URL and Key are required.
func NewSupabase(cfg SupabaseConfig) (*Supabase, error) {
	if cfg.URL == "" || cfg.Key == "" {
		return nil, errors.New("supabase url and key are required")
	}
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	if cfg.Table == "" {
		cfg.Table = "studios"
	}
	if cfg.ImageField == "" {
		cfg.ImageField = "image_url"
	}
	if cfg.UpdatedAtField == "" {
		cfg.UpdatedAtField = "updated_at"
	}

	restURL := strings.TrimRight(cfg.URL, "/")
	if !strings.HasSuffix(restURL, restPath) {
		restURL += restPath
	}

	client := postgrest.NewClient(restURL, cfg.Schema, map[string]string{
		"apikey":        cfg.Key,
		"Authorization": "Bearer " + cfg.Key,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("create postgrest client: %w", client.ClientError)
	}

	return &Supabase{
		client:         client,
		table:          cfg.Table,
		imageField:     cfg.ImageField,
		updatedAtField: cfg.UpdatedAtField,
		now:            time.Now,
	}, nil
}

// Candidates implements Store. Rows are ordered by id so that repeated runs
// visit studios in the same order.
//
// A single neq filter covers both conditions: PostgreSQL evaluates
// NULL <> '' to NULL, so null references are dropped as well.
func (s *Supabase) Candidates(ctx context.Context, limit int) ([]model.Studio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := s.client.From(s.table).
		Select("*", "", false).
		Neq(s.imageField, "").
		Order("id", &postgrest.OrderOpts{Ascending: true})
	if limit > 0 {
		query = query.Limit(limit, "")
	}

	body, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}

	var studios []model.Studio
	if err := json.Unmarshal(body, &studios); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", s.table, err)
	}
	return studios, nil
}

// UpdateImage implements Store.
func (s *Supabase) UpdateImage(ctx context.Context, id int64, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	values := map[string]interface{}{
		s.imageField:     filename,
		s.updatedAtField: s.now().UTC().Format(time.RFC3339),
	}

	_, _, err := s.client.From(s.table).
		Update(values, "minimal", "").
		Eq("id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return fmt.Errorf("update %s %d: %w", s.table, id, err)
	}
	return nil
}
