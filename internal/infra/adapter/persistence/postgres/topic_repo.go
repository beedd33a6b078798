package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

type TopicRepo struct {
	db DB
}

func NewTopicRepo(db DB) repository.TopicRepository {
	return &TopicRepo{db: db}
}

func (repo *TopicRepo) Get(ctx context.Context, id int64) (*entity.Topic, error) {
	const query = `
SELECT id, owner_id, name, description, created_at
FROM topics
WHERE id = $1
LIMIT 1`
	var topic entity.Topic
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&topic.ID, &topic.OwnerID, &topic.Name, &topic.Description, &topic.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("Get", err)
	}
	return &topic, nil
}

func (repo *TopicRepo) Create(ctx context.Context, topic *entity.Topic) error {
	const query = `
INSERT INTO topics (owner_id, name, description, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		topic.OwnerID, topic.Name, topic.Description, topic.CreatedAt,
	).Scan(&topic.ID)
	if err != nil {
		return storeErr("Create", err)
	}
	return nil
}

func (repo *TopicRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM topics WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return storeErr("Delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: no rows affected")
	}
	return nil
}

func (repo *TopicRepo) ListIDs(ctx context.Context) ([]int64, error) {
	const query = `SELECT id FROM topics ORDER BY id`
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
