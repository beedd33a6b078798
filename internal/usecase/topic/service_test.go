package topic_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"testing"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	topicUC "community-feed/internal/usecase/topic"
	"community-feed/internal/usecase/view"
)

type memDB struct {
	collections map[string][]entity.Document
}

func (db *memDB) FindByField(_ context.Context, collection, field string, value any) ([]entity.Document, error) {
	var want float64
	switch v := value.(type) {
	case float64:
		want = v
	case int64:
		want = float64(v)
	}
	var out []entity.Document
	for _, d := range db.collections[collection] {
		if d[field] == want {
			out = append(out, d)
		}
	}
	return out, nil
}

type stubRepo struct {
	db     *memDB
	data   map[int64]*entity.Topic
	nextID int64
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Topic, error) {
	return s.data[id], nil
}

func (s *stubRepo) Create(_ context.Context, t *entity.Topic) error {
	s.nextID++
	t.ID = s.nextID
	s.data[t.ID] = t
	s.sync()
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	delete(s.data, id)
	s.sync()
	return nil
}

func (s *stubRepo) ListIDs(_ context.Context) ([]int64, error) {
	ids := make([]int64, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *stubRepo) sync() {
	docs := make([]entity.Document, 0, len(s.data))
	for _, t := range s.data {
		docs = append(docs, entity.Document{
			"id": float64(t.ID), "owner_id": float64(t.OwnerID),
			"name": t.Name, "description": t.Description,
			"created_at": t.CreatedAt.Format(time.RFC3339),
		})
	}
	s.db.collections["topics"] = docs
}

type memStore struct {
	docs map[string]map[int64]json.RawMessage
}

func (s *memStore) Upsert(_ context.Context, collection string, id int64, doc []byte, _ float64, _ time.Time) error {
	if s.docs[collection] == nil {
		s.docs[collection] = map[int64]json.RawMessage{}
	}
	s.docs[collection][id] = append(json.RawMessage{}, doc...)
	return nil
}

func (s *memStore) Get(_ context.Context, collection string, id int64) (json.RawMessage, error) {
	return s.docs[collection][id], nil
}

func (s *memStore) Delete(_ context.Context, collection string, id int64) error {
	delete(s.docs[collection], id)
	return nil
}

func (s *memStore) List(context.Context, string, repository.FieldMapping, pagination.Request) (pagination.Response[json.RawMessage], error) {
	return pagination.Response[json.RawMessage]{}, errors.New("not implemented")
}

func (s *memStore) Search(context.Context, string, repository.FieldMapping, repository.SearchSpec, pagination.Request) (pagination.Response[json.RawMessage], error) {
	return pagination.Response[json.RawMessage]{}, errors.New("not implemented")
}

func newService() (*topicUC.Service, *memStore) {
	db := &memDB{collections: map[string][]entity.Document{
		"users": {{"id": float64(1), "username": "ada"}},
	}}
	store := &memStore{docs: map[string]map[int64]json.RawMessage{}}
	engine := view.NewEngine(store, db, slog.New(slog.DiscardHandler))
	svc := &topicUC.Service{
		Repo:   &stubRepo{db: db, data: map[int64]*entity.Topic{}},
		Engine: engine,
		Topics: view.NewTopicView(view.DefaultWeights()),
	}
	return svc, store
}

func TestService_Create_validation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(context.Background(), topicUC.CreateInput{OwnerID: 1})
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
	if verr.Field != "name" {
		t.Fatalf("field = %q, want name", verr.Field)
	}
}

func TestService_Create_materializesAggregate(t *testing.T) {
	svc, store := newService()

	topic, err := svc.Create(context.Background(), topicUC.CreateInput{
		OwnerID: 1, Name: "go", Description: "all things go",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	var agg entity.TopicAggregate
	if err := json.Unmarshal(store.docs["topic_aggregates"][topic.ID], &agg); err != nil {
		t.Fatalf("topic aggregate missing: %v", err)
	}
	if agg.Topic.Name != "go" || agg.PostCount != 0 || agg.FollowerCount != 0 {
		t.Fatalf("aggregate = %+v", agg)
	}
}

func TestService_Delete_removesAggregate(t *testing.T) {
	svc, store := newService()

	topic, err := svc.Create(context.Background(), topicUC.CreateInput{OwnerID: 1, Name: "go"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	if err := svc.Delete(context.Background(), topic.ID); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if _, found := store.docs["topic_aggregates"][topic.ID]; found {
		t.Fatal("topic aggregate survived delete")
	}
}

func TestService_Delete_notFound(t *testing.T) {
	svc, _ := newService()

	if err := svc.Delete(context.Background(), 42); !errors.Is(err, topicUC.ErrTopicNotFound) {
		t.Fatalf("err = %v, want ErrTopicNotFound", err)
	}
}
