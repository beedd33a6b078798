package db

import (
	"database/sql"
)

// MigrateUp creates the normalized source tables, the engagement tables, and
// the JSONB aggregate tables serving the materialized views.
func MigrateUp(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
    id         BIGSERIAL PRIMARY KEY,
    username   TEXT NOT NULL UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS topics (
    id          BIGSERIAL PRIMARY KEY,
    owner_id    BIGINT NOT NULL REFERENCES users(id),
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS posts (
    id         BIGSERIAL PRIMARY KEY,
    topic_id   BIGINT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
    author_id  BIGINT NOT NULL REFERENCES users(id),
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS comments (
    id         BIGSERIAL PRIMARY KEY,
    post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    author_id  BIGINT NOT NULL REFERENCES users(id),
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS replies (
    id         BIGSERIAL PRIMARY KEY,
    comment_id BIGINT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
    author_id  BIGINT NOT NULL REFERENCES users(id),
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS likes (
    id         BIGSERIAL PRIMARY KEY,
    post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id    BIGINT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE(post_id, user_id)
)`,
		`CREATE TABLE IF NOT EXISTS post_views (
    id         BIGSERIAL PRIMARY KEY,
    post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id    BIGINT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE TABLE IF NOT EXISTS follows (
    id         BIGSERIAL PRIMARY KEY,
    topic_id   BIGINT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
    user_id    BIGINT NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE(topic_id, user_id)
)`,
		`CREATE TABLE IF NOT EXISTS post_aggregates (
    id           BIGINT PRIMARY KEY,
    doc          JSONB NOT NULL,
    score        DOUBLE PRECISION NOT NULL DEFAULT 0,
    last_updated TIMESTAMPTZ NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS topic_aggregates (
    id           BIGINT PRIMARY KEY,
    doc          JSONB NOT NULL,
    score        DOUBLE PRECISION NOT NULL DEFAULT 0,
    last_updated TIMESTAMPTZ NOT NULL
)`,
	}
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_posts_topic_id ON posts(topic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_replies_comment_id ON replies(comment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_post_views_post_id ON post_views(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_topic_id ON follows(topic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_post_aggregates_score ON post_aggregates(score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_post_aggregates_last_updated ON post_aggregates(last_updated)`,
		`CREATE INDEX IF NOT EXISTS idx_topic_aggregates_score ON topic_aggregates(score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_topic_aggregates_last_updated ON topic_aggregates(last_updated)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Enable pg_trgm for fuzzy text search. Ignored when the extension is
	// already present or the role lacks superuser rights.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)

	// Trigram GIN indexes accelerating similarity() over the searchable
	// aggregate fields. Ignored when pg_trgm is unavailable.
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_post_aggregates_search_gin
    ON post_aggregates USING gin ((concat_ws(' ', doc #>> '{post,title}', doc #>> '{post,content}')) gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_topic_aggregates_search_gin
    ON topic_aggregates USING gin ((concat_ws(' ', doc #>> '{topic,name}', doc #>> '{topic,description}')) gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	return nil
}

// MigrateDown rolls back the database schema.
// This function removes tables in reverse dependency order.
// Use with caution: this will delete all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS topic_aggregates`,
		`DROP TABLE IF EXISTS post_aggregates`,
		`DROP TABLE IF EXISTS follows`,
		`DROP TABLE IF EXISTS post_views`,
		`DROP TABLE IF EXISTS likes`,
		`DROP TABLE IF EXISTS replies`,
		`DROP TABLE IF EXISTS comments`,
		`DROP TABLE IF EXISTS posts`,
		`DROP TABLE IF EXISTS topics`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	// The pg_trgm extension is left in place as other schemas may use it.

	return nil
}
