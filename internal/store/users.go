package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"feedmock/internal/generator"
	"feedmock/internal/models"
)

// Admin role cutoff and the identities of the two demo accounts.
const (
	adminIDThreshold = 5
	demoAdminID      = 1
	demoUserID       = 10
)

// Users owns the user table and both relationship tables. All mutation of
// user state goes through its methods.
type Users struct {
	db  *sql.DB
	gen *generator.Generator
}

func NewUsers(db *sql.DB, gen *generator.Generator) *Users {
	return &Users{db: db, gen: gen}
}

// Seed creates count users with identities 1..count. postRange is the
// identity range posts will be seeded with immediately after; liked and
// favorited ids are drawn from it by range, not by existence check, since the
// post table is still empty at this point.
func (s *Users) Seed(ctx context.Context, count, postRange int) error {
	for id := 1; id <= count; id++ {
		p := s.gen.Profile(id)
		role := models.RoleUser
		if id <= adminIDThreshold {
			role = models.RoleAdmin
		}
		_, err := s.db.ExecContext(ctx, `INSERT INTO users
			(id, username, email, password, role, display_name, registered_at, bio, city, street, zipcode,
			 articles_read, comments_made, likes_received, articles_published, followers, following)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, p.Username, p.Email, p.Password, role, p.DisplayName, p.RegistrationDate,
			p.Bio, p.Address.City, p.Address.Street, p.Address.Zipcode,
			p.Stats.ArticlesRead, p.Stats.CommentsMade, p.Stats.LikesReceived,
			p.Stats.ArticlesPublished, p.Stats.Followers, p.Stats.Following)
		if err != nil {
			return fmt.Errorf("seed user %d: %w", id, err)
		}

		likes, favorites := s.gen.Relationships(id, postRange)
		for _, postID := range likes {
			if _, err := s.db.ExecContext(ctx, `INSERT INTO user_likes(user_id, post_id) VALUES(?,?)`, id, postID); err != nil {
				return err
			}
		}
		for _, postID := range favorites {
			if _, err := s.db.ExecContext(ctx, `INSERT INTO user_favorites(user_id, post_id) VALUES(?,?)`, id, postID); err != nil {
				return err
			}
		}
	}

	// Two well-known demo logins. Only the credentials are overwritten; the
	// generated profile and relationship sets stay.
	if count >= demoAdminID {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE users SET username='admin', email='admin@feedmock.local', password='admin' WHERE id=?`,
			demoAdminID); err != nil {
			return err
		}
	}
	if count >= demoUserID {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE users SET username='user', email='user@feedmock.local', password='user' WHERE id=?`,
			demoUserID); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of users in the table.
func (s *Users) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// Login looks a user up by username or email and checks the password with an
// exact match. A mismatch is a structured failure, never an error; only a
// missing identifier or password is.
func (s *Users) Login(ctx context.Context, identifier, password string) (*models.LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("login: missing identifier or password: %w", ErrInvalidInput)
	}

	var id int
	var stored string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password FROM users WHERE username = ? OR email = ?`,
		identifier, identifier).Scan(&id, &stored)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && stored != password) {
		return &models.LoginResult{Success: false, Message: "invalid username or password"}, nil
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{
		Success: true,
		Message: "welcome back, " + profile.DisplayName,
		User:    profile,
	}, nil
}

// Register appends a new user with identity count+1, role user, empty
// relationship sets and zeroed statistics. Username and email must be unique
// (case-sensitive exact match). The returned record is sanitized like every
// other return path.
func (s *Users) Register(ctx context.Context, reg models.Registration) (*models.UserProfile, error) {
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return nil, fmt.Errorf("register: missing field: %w", ErrInvalidInput)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, reg.Username).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("register %q: %w", reg.Username, ErrDuplicateUsername)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, reg.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("register %q: %w", reg.Email, ErrDuplicateEmail)
	}

	count, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	id := count + 1
	_, err = s.db.ExecContext(ctx, `INSERT INTO users
		(id, username, email, password, role, display_name, registered_at)
		VALUES(?,?,?,?,?,?,?)`,
		id, reg.Username, reg.Email, reg.Password, models.RoleUser, reg.Username,
		time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, id)
}

// BaseIdentity resolves the display fields of a user for rendering. It never
// fails: an unknown identity degrades to a placeholder with a freshly derived
// avatar, so a dangling author reference cannot break a post.
func (s *Users) BaseIdentity(ctx context.Context, id int) models.BaseIdentity {
	var name, role string
	err := s.db.QueryRowContext(ctx,
		`SELECT display_name, role FROM users WHERE id = ?`, id).Scan(&name, &role)
	if err != nil {
		return models.BaseIdentity{UserID: id, DisplayName: "unknown", Avatar: generator.Avatar(id), Role: models.RoleUser}
	}
	return models.BaseIdentity{UserID: id, DisplayName: name, Avatar: generator.Avatar(id), Role: role}
}

// Profile returns the full profile of a user, or ErrNotFound.
func (s *Users) Profile(ctx context.Context, id int) (*models.UserProfile, error) {
	p := models.UserProfile{
		LikedPostIDs:    []int{},
		FavoritePostIDs: []int{},
	}
	err := s.db.QueryRowContext(ctx, `SELECT id, username, email, role, display_name, registered_at,
		bio, city, street, zipcode,
		articles_read, comments_made, likes_received, articles_published, followers, following
		FROM users WHERE id = ?`, id).Scan(
		&p.UserID, &p.Username, &p.Email, &p.Role, &p.DisplayName, &p.RegistrationDate,
		&p.Bio, &p.Address.City, &p.Address.Street, &p.Address.Zipcode,
		&p.Stats.ArticlesRead, &p.Stats.CommentsMade, &p.Stats.LikesReceived,
		&p.Stats.ArticlesPublished, &p.Stats.Followers, &p.Stats.Following)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.Avatar = generator.Avatar(id)

	if p.LikedPostIDs, err = s.relationshipSet(ctx, "user_likes", id); err != nil {
		return nil, err
	}
	if p.FavoritePostIDs, err = s.relationshipSet(ctx, "user_favorites", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Users) relationshipSet(ctx context.Context, table string, userID int) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id FROM `+table+` WHERE user_id = ? ORDER BY post_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ToggleLike flips postID's membership in the user's liked set and reports
// the state after the toggle. The post id is not validated against the post
// table; a dangling id just never matches during count aggregation.
func (s *Users) ToggleLike(ctx context.Context, userID, postID int) (bool, error) {
	return s.toggle(ctx, "user_likes", userID, postID)
}

// ToggleFavorite flips postID's membership in the user's favorited set.
func (s *Users) ToggleFavorite(ctx context.Context, userID, postID int) (bool, error) {
	return s.toggle(ctx, "user_favorites", userID, postID)
}

func (s *Users) toggle(ctx context.Context, table string, userID, postID int) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("toggle for user %d: %w", userID, ErrUserNotFound)
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND post_id = ?`, userID, postID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO `+table+`(user_id, post_id) VALUES(?,?)`, userID, postID)
	return true, err
}

// LikeCount recounts, on every call, the users whose liked set contains
// postID. Never cached past the call.
func (s *Users) LikeCount(ctx context.Context, postID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_likes WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}

// FavoriteCount recounts the users whose favorited set contains postID.
func (s *Users) FavoriteCount(ctx context.Context, postID int) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_favorites WHERE post_id = ?`, postID).Scan(&n)
	return n, err
}

// InteractionState reports whether userID has liked or favorited postID. An
// unknown user yields {false, false}, not an error.
func (s *Users) InteractionState(ctx context.Context, userID, postID int) (models.InteractionState, error) {
	var st models.InteractionState
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM user_likes WHERE user_id = ? AND post_id = ?),
		        EXISTS(SELECT 1 FROM user_favorites WHERE user_id = ? AND post_id = ?)`,
		userID, postID, userID, postID).Scan(&st.IsLiked, &st.IsFavorited)
	return st, err
}
