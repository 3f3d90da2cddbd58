// Package service is the public call surface of the mock backend: one method
// per operation the consuming client knows about, each wrapped in the
// simulated network delay. It owns the stores; consumers never touch them
// directly.
package service

import (
	"context"
	"fmt"

	"feedmock/internal/db"
	"feedmock/internal/generator"
	"feedmock/internal/latency"
	"feedmock/internal/models"
	"feedmock/internal/store"
)

// Seed population defaults, mirroring the fixed configuration constants of
// the mocked deployment.
const (
	DefaultUsers = 100
	DefaultPosts = 25
)

// Config fixes the seeded population at construction; nothing is
// reconfigured at runtime. A zero Seed draws one from the clock, a zero
// Users/Posts falls back to the defaults.
type Config struct {
	Users int
	Posts int
	Seed  uint64
	Delay latency.Policy
}

// StatusError carries HTTP-like status semantics for lookups that must
// exist, so the consumer can tell a 404 from a broken call.
type StatusError struct {
	Status  int
	Message string
	err     error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error { return e.err }

// API is the mock backend. Construct once per process; state lives until the
// process exits.
type API struct {
	users *store.Users
	posts *store.Posts
	delay latency.Policy
	obs   observability
}

// New opens the in-memory backing tables and seeds them: users first, so the
// post store can resolve author snapshots and so seeded relationship sets
// (drawn by range before any post exists) are immediately backed by exactly
// that range of posts.
func New(cfg Config, opts ...Option) (*API, error) {
	if cfg.Users <= 0 {
		cfg.Users = DefaultUsers
	}
	if cfg.Posts <= 0 {
		cfg.Posts = DefaultPosts
	}

	dbc, err := db.Open()
	if err != nil {
		return nil, fmt.Errorf("open backing store: %w", err)
	}
	if err := db.Migrate(dbc); err != nil {
		return nil, fmt.Errorf("migrate backing store: %w", err)
	}

	gen := generator.New(cfg.Seed)
	users := store.NewUsers(dbc, gen)
	posts := store.NewPosts(dbc, gen, users)

	ctx := context.Background()
	if err := users.Seed(ctx, cfg.Users, cfg.Posts); err != nil {
		return nil, fmt.Errorf("seed users: %w", err)
	}
	if err := posts.Seed(ctx, cfg.Posts, cfg.Users); err != nil {
		return nil, fmt.Errorf("seed posts: %w", err)
	}

	a := &API{users: users, posts: posts, delay: cfg.Delay}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ListPosts returns the posts matching the filter, in creation order.
func (a *API) ListPosts(ctx context.Context, f models.Filter) ([]models.Post, error) {
	var out []models.Post
	err := a.do(ctx, "listPosts", func(ctx context.Context) error {
		var err error
		out, err = a.posts.List(ctx, f)
		return err
	})
	return out, err
}

// GetPost returns a snapshot of one post, incrementing its view counter. A
// miss is a 404 StatusError.
func (a *API) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var out *models.Post
	err := a.do(ctx, "getPost", func(ctx context.Context) error {
		p, err := a.posts.ByID(ctx, id)
		if err != nil {
			return &StatusError{Status: 404, Message: "post not found", err: err}
		}
		out = p
		return nil
	})
	return out, err
}

// CreatePost appends a new post from the draft.
func (a *API) CreatePost(ctx context.Context, d models.Draft) (*models.Post, error) {
	var out *models.Post
	err := a.do(ctx, "createPost", func(ctx context.Context) error {
		var err error
		out, err = a.posts.Create(ctx, d)
		return err
	})
	return out, err
}

// GetCategories returns the {name, count} view over the live post table.
func (a *API) GetCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := a.do(ctx, "getCategories", func(ctx context.Context) error {
		var err error
		out, err = a.posts.Categories(ctx)
		return err
	})
	return out, err
}

// GetAnnouncements returns a fresh ephemeral batch on every call.
func (a *API) GetAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	err := a.do(ctx, "getAnnouncements", func(context.Context) error {
		out = a.posts.Announcements()
		return nil
	})
	return out, err
}

// Login authenticates by username or email. Bad credentials come back as a
// structured failure, not an error.
func (a *API) Login(ctx context.Context, identifier, password string) (*models.LoginResult, error) {
	var out *models.LoginResult
	err := a.do(ctx, "login", func(ctx context.Context) error {
		var err error
		out, err = a.users.Login(ctx, identifier, password)
		return err
	})
	return out, err
}

// Register creates a new account and returns its sanitized profile.
func (a *API) Register(ctx context.Context, reg models.Registration) (*models.UserProfile, error) {
	var out *models.UserProfile
	err := a.do(ctx, "register", func(ctx context.Context) error {
		var err error
		out, err = a.users.Register(ctx, reg)
		return err
	})
	return out, err
}

// GetUserProfile returns the full profile for an existing identity; a miss is
// a 404 StatusError.
func (a *API) GetUserProfile(ctx context.Context, id int) (*models.UserProfile, error) {
	var out *models.UserProfile
	err := a.do(ctx, "getUserProfile", func(ctx context.Context) error {
		p, err := a.users.Profile(ctx, id)
		if err != nil {
			return &StatusError{Status: 404, Message: "user not found", err: err}
		}
		out = p
		return nil
	})
	return out, err
}

// ToggleLike flips the post's membership in the user's liked set and reports
// the state after the toggle.
func (a *API) ToggleLike(ctx context.Context, userID, postID int) (bool, error) {
	var liked bool
	err := a.do(ctx, "toggleLike", func(ctx context.Context) error {
		var err error
		liked, err = a.users.ToggleLike(ctx, userID, postID)
		return err
	})
	return liked, err
}

// ToggleFavorite flips the post's membership in the user's favorited set.
func (a *API) ToggleFavorite(ctx context.Context, userID, postID int) (bool, error) {
	var favorited bool
	err := a.do(ctx, "toggleFavorite", func(ctx context.Context) error {
		var err error
		favorited, err = a.users.ToggleFavorite(ctx, userID, postID)
		return err
	})
	return favorited, err
}

// GetInteractionState reports whether the user has liked or favorited the
// post; unknown users read as neither.
func (a *API) GetInteractionState(ctx context.Context, userID, postID int) (models.InteractionState, error) {
	var out models.InteractionState
	err := a.do(ctx, "getInteractionState", func(ctx context.Context) error {
		var err error
		out, err = a.users.InteractionState(ctx, userID, postID)
		return err
	})
	return out, err
}
