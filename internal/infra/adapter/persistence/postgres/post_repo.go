package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

type PostRepo struct {
	db DB
}

func NewPostRepo(db DB) repository.PostRepository {
	return &PostRepo{db: db}
}

func (repo *PostRepo) Get(ctx context.Context, id int64) (*entity.Post, error) {
	const query = `
SELECT id, topic_id, author_id, title, content, created_at, updated_at
FROM posts
WHERE id = $1
LIMIT 1`
	var post entity.Post
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.TopicID, &post.AuthorID, &post.Title,
			&post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("Get", err)
	}
	return &post, nil
}

func (repo *PostRepo) Create(ctx context.Context, post *entity.Post) error {
	const query = `
INSERT INTO posts
	   (topic_id, author_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		post.TopicID, post.AuthorID, post.Title,
		post.Content, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return storeErr("Create", err)
	}
	return nil
}

func (repo *PostRepo) Update(ctx context.Context, post *entity.Post) error {
	const query = `
UPDATE posts SET
       title      = $1,
       content    = $2,
       updated_at = $3
WHERE id = $4`
	res, err := repo.db.ExecContext(ctx, query,
		post.Title, post.Content, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return storeErr("Update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: no rows affected")
	}
	return nil
}

func (repo *PostRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM posts WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr("Delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *PostRepo) ListIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT id FROM posts ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("ListIDs", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("ListIDs", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("ListIDs", err)
	}
	return ids, nil
}
