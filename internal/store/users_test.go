package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedmock/internal/models"
	"feedmock/internal/store"
)

func TestSeedRolesAndDemoAccounts(t *testing.T) {
	users, _ := newStores(t, 12, 5, 42)
	ctx := context.Background()

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	// Identities up to the threshold are admins, the rest plain users.
	for id, wantRole := range map[int]string{3: models.RoleAdmin, 5: models.RoleAdmin, 6: models.RoleUser, 12: models.RoleUser} {
		p, err := users.Profile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, wantRole, p.Role, "user %d", id)
	}

	res, err := users.Login(ctx, "admin", "admin")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.User.UserID)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
	assert.NotEmpty(t, res.User.LikedPostIDs, "demo account keeps its generated relationship sets")

	res, err = users.Login(ctx, "user", "user")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 10, res.User.UserID)
	assert.Equal(t, models.RoleUser, res.User.Role)
}

func TestLoginByEmailAndFailure(t *testing.T) {
	users, _ := newStores(t, 3, 2, 1)
	ctx := context.Background()

	res, err := users.Login(ctx, "admin@feedmock.local", "admin")
	require.NoError(t, err)
	assert.True(t, res.Success)

	res, err = users.Login(ctx, "admin", "wrong")
	require.NoError(t, err, "bad credentials are a structured failure, not an error")
	assert.False(t, res.Success)
	assert.Nil(t, res.User)
	assert.NotEmpty(t, res.Message)

	res, err = users.Login(ctx, "nobody", "whatever")
	require.NoError(t, err)
	assert.False(t, res.Success)

	_, err = users.Login(ctx, "", "pw")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
	_, err = users.Login(ctx, "admin", "")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestRegister(t *testing.T) {
	users, _ := newStores(t, 4, 3, 2)
	ctx := context.Background()

	_, err := users.Register(ctx, models.Registration{Username: "admin", Email: "fresh@example.com", Password: "pw"})
	assert.ErrorIs(t, err, store.ErrDuplicateUsername)

	_, err = users.Register(ctx, models.Registration{Username: "fresh", Email: "admin@feedmock.local", Password: "pw"})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n, "failed registrations must not alter store size")

	u, err := users.Register(ctx, models.Registration{Username: "fresh", Email: "fresh@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, 5, u.UserID, "new identity is old count + 1")
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Empty(t, u.LikedPostIDs)
	assert.Empty(t, u.FavoritePostIDs)
	assert.Zero(t, u.Stats)

	n, err = users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	res, err := users.Login(ctx, "fresh", "pw")
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, err = users.Register(ctx, models.Registration{Username: "", Email: "x@example.com", Password: "pw"})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestRegisterUsernameCaseSensitive(t *testing.T) {
	users, _ := newStores(t, 2, 2, 3)
	ctx := context.Background()

	u, err := users.Register(ctx, models.Registration{Username: "Admin", Email: "Admin@example.com", Password: "pw"})
	require.NoError(t, err, "duplicate check is a case-sensitive exact match")
	assert.Equal(t, 3, u.UserID)
}

// countsMatchSets recomputes both aggregate counts from the live relationship
// sets and compares them against the count operations.
func countsMatchSets(t *testing.T, users *store.Users, userCount, postRange int) {
	t.Helper()
	ctx := context.Background()

	likes := map[int]int{}
	favorites := map[int]int{}
	for id := 1; id <= userCount; id++ {
		p, err := users.Profile(ctx, id)
		require.NoError(t, err)
		for _, postID := range p.LikedPostIDs {
			likes[postID]++
		}
		for _, postID := range p.FavoritePostIDs {
			favorites[postID]++
		}
	}
	for postID := 1; postID <= postRange; postID++ {
		n, err := users.LikeCount(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, likes[postID], n, "like count for post %d", postID)

		n, err = users.FavoriteCount(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, favorites[postID], n, "favorite count for post %d", postID)
	}
}

func TestAggregateCountInvariant(t *testing.T) {
	users, _ := newStores(t, 10, 8, 7)
	ctx := context.Background()

	countsMatchSets(t, users, 10, 8)

	_, err := users.ToggleLike(ctx, 2, 3)
	require.NoError(t, err)
	_, err = users.ToggleFavorite(ctx, 4, 8)
	require.NoError(t, err)

	countsMatchSets(t, users, 10, 8)
}

func TestToggleIdempotence(t *testing.T) {
	users, _ := newStores(t, 6, 6, 9)
	ctx := context.Background()

	before, err := users.InteractionState(ctx, 2, 4)
	require.NoError(t, err)

	first, err := users.ToggleLike(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, !before.IsLiked, first)

	second, err := users.ToggleLike(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, before.IsLiked, second)

	after, err := users.InteractionState(ctx, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, before, after, "double toggle restores the original state")
}

func TestToggleUnknownUser(t *testing.T) {
	users, _ := newStores(t, 2, 2, 4)
	ctx := context.Background()

	_, err := users.ToggleLike(ctx, 99, 1)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	_, err = users.ToggleFavorite(ctx, 99, 1)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestToggleAcceptsDanglingPostID(t *testing.T) {
	users, _ := newStores(t, 2, 2, 5)
	ctx := context.Background()

	liked, err := users.ToggleLike(ctx, 1, 999)
	require.NoError(t, err, "toggles do not validate post existence")
	assert.True(t, liked)

	st, err := users.InteractionState(ctx, 1, 999)
	require.NoError(t, err)
	assert.True(t, st.IsLiked)
}

func TestInteractionStateUnknownUser(t *testing.T) {
	users, _ := newStores(t, 2, 2, 6)

	st, err := users.InteractionState(context.Background(), 404, 1)
	require.NoError(t, err, "unknown users read as no interaction, never an error")
	assert.False(t, st.IsLiked)
	assert.False(t, st.IsFavorited)
}

func TestBaseIdentityPlaceholder(t *testing.T) {
	users, _ := newStores(t, 2, 2, 8)
	ctx := context.Background()

	known := users.BaseIdentity(ctx, 2)
	assert.Equal(t, 2, known.UserID)
	assert.NotEqual(t, "unknown", known.DisplayName)

	ghost := users.BaseIdentity(ctx, 777)
	assert.Equal(t, 777, ghost.UserID)
	assert.Equal(t, "unknown", ghost.DisplayName)
	assert.Equal(t, models.RoleUser, ghost.Role)
	assert.NotEmpty(t, ghost.Avatar, "placeholders still get a derived avatar")
}

func TestProfile(t *testing.T) {
	users, _ := newStores(t, 5, 10, 10)
	ctx := context.Background()

	_, err := users.Profile(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)

	p, err := users.Profile(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, p.UserID)
	assert.NotEmpty(t, p.DisplayName)
	assert.NotEmpty(t, p.Email)
	assert.NotEmpty(t, p.Avatar)
	assert.NotEmpty(t, p.Address.City)
	for _, id := range p.LikedPostIDs {
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, 10, "seeded sets draw from the reserved post range")
	}

	again, err := users.Profile(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, p, again, "repeated reads must not re-randomize")
}

func TestKnownAnswerScenario(t *testing.T) {
	users, posts := newStores(t, 0, 0, 0)
	ctx := context.Background()

	for _, reg := range []models.Registration{
		{Username: "alice", Email: "alice@example.com", Password: "pw"},
		{Username: "bob", Email: "bob@example.com", Password: "pw"},
	} {
		_, err := users.Register(ctx, reg)
		require.NoError(t, err)
	}
	require.NoError(t, posts.Seed(ctx, 2, 2))

	favorited, err := users.ToggleFavorite(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, favorited)

	n, err := users.FavoriteCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = users.FavoriteCount(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = users.ToggleFavorite(ctx, 1, 1)
	require.NoError(t, err)
	n, err = users.FavoriteCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
