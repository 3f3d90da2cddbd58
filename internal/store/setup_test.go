package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"feedmock/internal/db"
	"feedmock/internal/generator"
	"feedmock/internal/store"
)

// newStores opens a fresh in-memory database and seeds the given population.
// Zero counts leave the tables empty, which the known-answer tests rely on.
func newStores(t *testing.T, users, posts int, seed uint64) (*store.Users, *store.Posts) {
	t.Helper()

	dbc, err := db.Open()
	require.NoError(t, err)
	t.Cleanup(func() { dbc.Close() })
	require.NoError(t, db.Migrate(dbc))

	gen := generator.New(seed)
	u := store.NewUsers(dbc, gen)
	p := store.NewPosts(dbc, gen, u)

	ctx := context.Background()
	require.NoError(t, u.Seed(ctx, users, posts))
	require.NoError(t, p.Seed(ctx, posts, users))
	return u, p
}
