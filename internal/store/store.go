// Package store reads and updates studio records in the hosted table store.
//
// The download manager depends only on the Store interface; Supabase is the
// production implementation, talking to the PostgREST endpoint of a
// Supabase project.
//
// # Basic Usage
//
//	st, err := store.NewSupabase(store.SupabaseConfig{
//	    URL:   os.Getenv("SUPABASE_URL"),
//	    Key:   os.Getenv("SUPABASE_KEY"),
//	    Table: "studios",
//	})
//
//	studios, err := st.Candidates(ctx, 100)
//	err = st.UpdateImage(ctx, studios[0].ID, "pilates-centro-sp-studio-1.jpg")
package store

import (
	"context"

	"github.com/handiism/studio-images/internal/model"
)

// Store is the record store consumed by the download manager.
type Store interface {
	// Candidates returns the studios whose image reference is neither null
	// nor empty, at most limit of them when limit > 0.
	Candidates(ctx context.Context, limit int) ([]model.Studio, error)

	// UpdateImage sets the image reference of a studio to filename and
	// bumps its modification timestamp.
	UpdateImage(ctx context.Context, id int64, filename string) error
}
