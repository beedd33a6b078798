package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

type CommentRepo struct {
	db DB
}

func NewCommentRepo(db DB) repository.CommentRepository {
	return &CommentRepo{db: db}
}

func (repo *CommentRepo) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	const query = `
SELECT id, post_id, author_id, content, created_at
FROM comments
WHERE id = $1
LIMIT 1`
	var comment entity.Comment
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Content, &comment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("Get", err)
	}
	return &comment, nil
}

func (repo *CommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	const query = `
INSERT INTO comments (post_id, author_id, content, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		comment.PostID, comment.AuthorID, comment.Content, comment.CreatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return storeErr("Create", err)
	}
	return nil
}

func (repo *CommentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM comments WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr("Delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

type ReplyRepo struct {
	db DB
}

func NewReplyRepo(db DB) repository.ReplyRepository {
	return &ReplyRepo{db: db}
}

func (repo *ReplyRepo) Create(ctx context.Context, reply *entity.Reply) error {
	const query = `
INSERT INTO replies (comment_id, author_id, content, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		reply.CommentID, reply.AuthorID, reply.Content, reply.CreatedAt,
	).Scan(&reply.ID)
	if err != nil {
		return storeErr("Create", err)
	}
	return nil
}

func (repo *ReplyRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM replies WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr("Delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

type LikeRepo struct {
	db DB
}

func NewLikeRepo(db DB) repository.LikeRepository {
	return &LikeRepo{db: db}
}

// Add records a like once per (post, user); a repeat like is a no-op
// reported as added=false.
func (repo *LikeRepo) Add(ctx context.Context, postID, userID int64) (bool, error) {
	const query = `
INSERT INTO likes (post_id, user_id, created_at)
VALUES ($1, $2, now())
ON CONFLICT (post_id, user_id) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return false, storeErr("Add", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (repo *LikeRepo) Remove(ctx context.Context, postID, userID int64) error {
	const query = `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	if _, err := repo.db.ExecContext(ctx, query, postID, userID); err != nil {
		return storeErr("Remove", err)
	}
	return nil
}

type ViewRepo struct {
	db DB
}

func NewViewRepo(db DB) repository.ViewRepository {
	return &ViewRepo{db: db}
}

func (repo *ViewRepo) Record(ctx context.Context, postID, userID int64) error {
	const query = `
INSERT INTO post_views (post_id, user_id, created_at)
VALUES ($1, $2, now())`
	if _, err := repo.db.ExecContext(ctx, query, postID, userID); err != nil {
		return storeErr("Record", err)
	}
	return nil
}

type FollowRepo struct {
	db DB
}

func NewFollowRepo(db DB) repository.FollowRepository {
	return &FollowRepo{db: db}
}

func (repo *FollowRepo) Add(ctx context.Context, topicID, userID int64) (bool, error) {
	const query = `
INSERT INTO follows (topic_id, user_id, created_at)
VALUES ($1, $2, now())
ON CONFLICT (topic_id, user_id) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, topicID, userID)
	if err != nil {
		return false, storeErr("Add", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (repo *FollowRepo) Remove(ctx context.Context, topicID, userID int64) error {
	const query = `DELETE FROM follows WHERE topic_id = $1 AND user_id = $2`
	if _, err := repo.db.ExecContext(ctx, query, topicID, userID); err != nil {
		return storeErr("Remove", err)
	}
	return nil
}
