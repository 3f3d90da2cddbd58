package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"feedmock/internal/generator"
	"feedmock/internal/models"
)

// Identity posts fall back to when a draft names no author.
const defaultAuthorID = 1

// Posts owns the post and comment tables. Author fields on posts and
// comments are denormalized snapshots taken from the user store at creation
// time; like/favorite counts are derived from the relationship tables on
// every read.
type Posts struct {
	db    *sql.DB
	gen   *generator.Generator
	users *Users
}

func NewPosts(db *sql.DB, gen *generator.Generator, users *Users) *Posts {
	return &Posts{db: db, gen: gen, users: users}
}

// Every post read goes through this projection so the aggregate counts are
// recomputed from the live relationship sets each time.
const selectPost = `SELECT p.id, p.title, p.summary, p.body, p.category, p.published_at, p.image_url,
	p.views, p.shares, p.author_id, p.author_name, p.author_avatar,
	(SELECT COUNT(*) FROM user_likes l WHERE l.post_id = p.id) AS likes,
	(SELECT COUNT(*) FROM user_favorites f WHERE f.post_id = p.id) AS favorites
	FROM posts p`

// Seed creates count posts with identities 1..count, each attributed to a
// random seeded user. Runs after the user store is seeded so author and
// comment-author snapshots resolve to real records.
func (s *Posts) Seed(ctx context.Context, count, userCount int) error {
	for id := 1; id <= count; id++ {
		seed := s.gen.Post(id, userCount)
		author := s.users.BaseIdentity(ctx, seed.AuthorID)

		_, err := s.db.ExecContext(ctx, `INSERT INTO posts
			(id, title, summary, body, category, published_at, image_url, views, shares, author_id, author_name, author_avatar)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?)`,
			id, seed.Title, seed.Summary, seed.Body, seed.Category, seed.Date, seed.ImageURL,
			seed.Views, seed.Shares, author.UserID, author.DisplayName, author.Avatar)
		if err != nil {
			return fmt.Errorf("seed post %d: %w", id, err)
		}

		for _, c := range seed.Comments {
			ca := s.users.BaseIdentity(ctx, c.AuthorID)
			_, err := s.db.ExecContext(ctx, `INSERT INTO comments
				(post_id, author_id, author_name, author_avatar, content, created_at)
				VALUES(?,?,?,?,?,?)`,
				id, ca.UserID, ca.DisplayName, ca.Avatar, c.Content, c.Date)
			if err != nil {
				return fmt.Errorf("seed post %d comment: %w", id, err)
			}
		}
	}
	return nil
}

// List returns the posts matching the filter in creation order. Absent
// predicates are no constraint; present ones combine with AND.
func (s *Posts) List(ctx context.Context, f models.Filter) ([]models.Post, error) {
	q := selectPost
	var wheres []string
	var args []any

	if f.Category != "" {
		wheres = append(wheres, "p.category = ?")
		args = append(args, f.Category)
	}
	if f.SearchTerm != "" {
		term := strings.ToLower(f.SearchTerm)
		wheres = append(wheres, "(instr(lower(p.title), ?) > 0 OR instr(lower(p.summary), ?) > 0 OR instr(lower(p.body), ?) > 0)")
		args = append(args, term, term, term)
	}
	if f.AuthorID != 0 {
		wheres = append(wheres, "p.author_id = ?")
		args = append(args, f.AuthorID)
	}

	if len(wheres) > 0 {
		q += " WHERE " + strings.Join(wheres, " AND ")
	}
	q += " ORDER BY p.id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byPost, err := s.allComments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
		if posts[i].Comments == nil {
			posts[i].Comments = []models.Comment{}
		}
	}
	return posts, nil
}

// ByID increments the post's view counter and returns a snapshot copy, or
// ErrNotFound. A miss never mutates anything.
func (s *Posts) ByID(ctx context.Context, id int) (*models.Post, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return s.get(ctx, id)
}

func (s *Posts) get(ctx context.Context, id int) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, selectPost+` WHERE p.id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if p.Comments, err = s.postComments(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// Categories groups the live post table into {name, count} pairs, ordered by
// the first appearance of each category. No category entities are stored.
func (s *Posts) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM posts GROUP BY category ORDER BY MIN(id)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Create appends a new post with identity count+1, today's date, zeroed
// counters and no comments. The draft's author id (or the default) is
// resolved to a denormalized snapshot via the user store.
func (s *Posts) Create(ctx context.Context, d models.Draft) (*models.Post, error) {
	if d.Title == "" {
		return nil, fmt.Errorf("create post: missing title: %w", ErrInvalidInput)
	}

	authorID := d.AuthorID
	if authorID == 0 {
		authorID = defaultAuthorID
	}
	author := s.users.BaseIdentity(ctx, authorID)

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return nil, err
	}
	id := count + 1

	_, err := s.db.ExecContext(ctx, `INSERT INTO posts
		(id, title, summary, body, category, published_at, image_url, views, shares, author_id, author_name, author_avatar)
		VALUES(?,?,?,?,?,?,?,0,0,?,?,?)`,
		id, d.Title, d.Summary, d.Body, d.Category, time.Now().Format("2006-01-02"), d.ImageURL,
		author.UserID, author.DisplayName, author.Avatar)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Announcement category labels, rotated through the generated titles.
var announcementLabels = []string{"系统公告", "活动通知", "规则调整", "节日祝福", "维护通知"}

// Announcements generates a fresh batch of three ephemeral records on every
// call. They are never persisted and never appear in the post table.
func (s *Posts) Announcements() []models.Announcement {
	now := time.Now()
	out := make([]models.Announcement, 0, 3)
	for i := 0; i < 3; i++ {
		label := gofakeit.RandomString(announcementLabels)
		out = append(out, models.Announcement{
			ID:      uuid.NewString(),
			Title:   label + " - " + gofakeit.Sentence(gofakeit.Number(2, 5)),
			Date:    gofakeit.DateRange(now.AddDate(0, -1, 0), now).Format("2006-01-02"),
			Content: gofakeit.Paragraph(1, 2, 12, " "),
		})
	}
	return out
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Body, &p.Category, &p.Date, &p.ImageURL,
		&p.Views, &p.Shares, &p.AuthorID, &p.Author, &p.AuthorAvatar, &p.Likes, &p.Favorites)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Posts) postComments(ctx context.Context, postID int) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, author_id, author_name, author_avatar, content, created_at
		FROM comments WHERE post_id = ? ORDER BY id`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.AuthorID, &c.Author, &c.Avatar, &c.Content, &c.Date); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Posts) allComments(ctx context.Context) (map[int][]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT post_id, id, author_id, author_name, author_avatar, content, created_at
		FROM comments ORDER BY post_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byPost := make(map[int][]models.Comment)
	for rows.Next() {
		var postID int
		var c models.Comment
		if err := rows.Scan(&postID, &c.ID, &c.AuthorID, &c.Author, &c.Avatar, &c.Content, &c.Date); err != nil {
			return nil, err
		}
		byPost[postID] = append(byPost[postID], c)
	}
	return byPost, rows.Err()
}
