package generator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedmock/internal/generator"
	"feedmock/internal/models"
)

func TestAvatarDeterministic(t *testing.T) {
	a := generator.Avatar(7)
	require.Equal(t, a, generator.Avatar(7), "same identity must render the same avatar")
	assert.True(t, strings.HasPrefix(a, "<svg"))
	assert.NotEqual(t, a, generator.Avatar(8))
}

func TestProfileMemoized(t *testing.T) {
	g := generator.New(1)
	first := g.Profile(3)
	assert.Equal(t, first, g.Profile(3), "repeated reads must not re-randomize")
}

func TestProfileReproducibleAcrossGenerators(t *testing.T) {
	a := generator.New(99).Profile(5)
	b := generator.New(99).Profile(5)
	assert.Equal(t, a, b)

	c := generator.New(100).Profile(5)
	assert.NotEqual(t, a.Email, c.Email)
}

func TestProfileUniqueCredentials(t *testing.T) {
	g := generator.New(7)
	seen := map[string]bool{}
	for id := 1; id <= 50; id++ {
		p := g.Profile(id)
		require.False(t, seen[p.Username], "duplicate username %q", p.Username)
		require.False(t, seen[p.Email], "duplicate email %q", p.Email)
		seen[p.Username] = true
		seen[p.Email] = true
	}
}

func TestRelationships(t *testing.T) {
	g := generator.New(11)

	likes, favorites := g.Relationships(1, 25)
	assert.GreaterOrEqual(t, len(likes), 5)
	assert.LessOrEqual(t, len(likes), 15)
	assert.GreaterOrEqual(t, len(favorites), 3)
	assert.LessOrEqual(t, len(favorites), 10)
	for _, set := range [][]int{likes, favorites} {
		seen := map[int]bool{}
		for _, id := range set {
			assert.False(t, seen[id], "sets must hold distinct ids")
			seen[id] = true
			assert.GreaterOrEqual(t, id, 1)
			assert.LessOrEqual(t, id, 25)
		}
	}

	// Tiny post ranges clamp the draw size instead of failing.
	likes, favorites = g.Relationships(2, 2)
	assert.LessOrEqual(t, len(likes), 2)
	assert.LessOrEqual(t, len(favorites), 2)

	likes, favorites = g.Relationships(3, 0)
	assert.Empty(t, likes)
	assert.Empty(t, favorites)
}

func TestPostSeed(t *testing.T) {
	g := generator.New(5)
	seed := g.Post(4, 10)

	assert.NotEmpty(t, seed.Title)
	assert.Contains(t, models.Categories, seed.Category)
	assert.GreaterOrEqual(t, seed.AuthorID, 1)
	assert.LessOrEqual(t, seed.AuthorID, 10)
	assert.GreaterOrEqual(t, seed.Views, 50)
	assert.LessOrEqual(t, seed.Views, 3000)
	assert.True(t, strings.HasPrefix(seed.ImageURL, "https://placehold.co/600x400/"))
	assert.LessOrEqual(t, len(seed.Comments), 5)
	for _, c := range seed.Comments {
		assert.GreaterOrEqual(t, c.AuthorID, 1)
		assert.LessOrEqual(t, c.AuthorID, 10)
		assert.NotEmpty(t, c.Content)
	}

	assert.Equal(t, seed, g.Post(4, 10), "same identity must regenerate the same post")
	assert.NotEqual(t, seed.Title, g.Post(5, 10).Title)
}
