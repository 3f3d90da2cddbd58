package db

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Open returns a handle to a fresh in-memory database. Nothing touches disk:
// the tables live and die with the process, which is the whole point of a
// mock backend. The single connection also serializes every read and write,
// so the derived-count invariant cannot be raced even if callers fan out.
func Open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// One connection only. With :memory: each connection would otherwise get
	// its own empty database.
	db.SetMaxOpenConns(1)
	return db, db.Ping()
}

func Migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS users(
			id INTEGER PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			display_name TEXT NOT NULL,
			registered_at TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			street TEXT NOT NULL DEFAULT '',
			zipcode TEXT NOT NULL DEFAULT '',
			articles_read INTEGER NOT NULL DEFAULT 0,
			comments_made INTEGER NOT NULL DEFAULT 0,
			likes_received INTEGER NOT NULL DEFAULT 0,
			articles_published INTEGER NOT NULL DEFAULT 0,
			followers INTEGER NOT NULL DEFAULT 0,
			following INTEGER NOT NULL DEFAULT 0
		);`,
		// post_id carries no foreign key on purpose: toggles accept ids that
		// do not (yet) exist in the posts table. A dangling id simply never
		// matches during count aggregation.
		`CREATE TABLE IF NOT EXISTS user_likes(
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id INTEGER NOT NULL,
			PRIMARY KEY(user_id, post_id)
		);`,
		`CREATE TABLE IF NOT EXISTS user_favorites(
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id INTEGER NOT NULL,
			PRIMARY KEY(user_id, post_id)
		);`,
		`CREATE TABLE IF NOT EXISTS posts(
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL,
			body TEXT NOT NULL,
			category TEXT NOT NULL,
			published_at TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			views INTEGER NOT NULL DEFAULT 0,
			shares INTEGER NOT NULL DEFAULT 0,
			author_id INTEGER NOT NULL,
			author_name TEXT NOT NULL,
			author_avatar TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS comments(
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			author_id INTEGER NOT NULL,
			author_name TEXT NOT NULL,
			author_avatar TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
	}
	ctx := context.Background()
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
