package post_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"community-feed/internal/common/pagination"
	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
	postUC "community-feed/internal/usecase/post"
	"community-feed/internal/usecase/view"
)

// memDB backs both the stub repository and the pipeline reader so refreshes
// observe exactly what the repository wrote.
type memDB struct {
	collections map[string][]entity.Document
}

func newMemDB() *memDB {
	return &memDB{collections: map[string][]entity.Document{
		"users":  {{"id": float64(1), "username": "ada"}},
		"topics": {{"id": float64(3), "owner_id": float64(1), "name": "go", "description": "all things go", "created_at": "2026-08-01T00:00:00Z"}},
	}}
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
			copied := make(entity.Document, len(d))
			for k, v := range d {
				copied[k] = v
			}
			out = append(out, copied)
		}
	}
	return out, nil
}

func postDoc(p *entity.Post) entity.Document {
	return entity.Document{
		"id": float64(p.ID), "topic_id": float64(p.TopicID), "author_id": float64(p.AuthorID),
		"title": p.Title, "content": p.Content,
		"created_at": p.CreatedAt.Format(time.RFC3339), "updated_at": p.UpdatedAt.Format(time.RFC3339),
	}
}

// stubRepo is a minimal in-memory PostRepository that mirrors every write
// into the memDB's posts collection.
type stubRepo struct {
	db     *memDB
	data   map[int64]*entity.Post
	nextID int64
	err    error
}

func newStub(db *memDB) *stubRepo {
	return &stubRepo{db: db, data: map[int64]*entity.Post{}, nextID: 1}
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Post, error) {
	return s.data[id], s.err
}

func (s *stubRepo) Create(_ context.Context, p *entity.Post) error {
	if s.err != nil {
		return s.err
	}
	p.ID = s.nextID
	s.nextID++
	s.data[p.ID] = p
	s.sync()
	return nil
}

func (s *stubRepo) Update(_ context.Context, p *entity.Post) error {
	if s.err != nil {
		return s.err
	}
	s.data[p.ID] = p
	s.sync()
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	delete(s.data, id)
	s.sync()
	return nil
}

func (s *stubRepo) ListIDs(_ context.Context) ([]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	ids := make([]int64, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *stubRepo) sync() {
	docs := make([]entity.Document, 0, len(s.data))
	for _, p := range s.data {
		docs = append(docs, postDoc(p))
	}
	s.db.collections["posts"] = docs
}

// memStore keeps materialized aggregates in memory.
type memStore struct {
	docs map[string]map[int64]json.RawMessage
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]map[int64]json.RawMessage{}}
}

func (s *memStore) Upsert(_ context.Context, collection string, id int64, doc []byte, _ float64, _ time.Time) error {
	if s.docs[collection] == nil {
		s.docs[collection] = map[int64]json.RawMessage{}
	}
	s.docs[collection][id] = append(json.RawMessage{}, doc...)
	return nil
}

func (s *memStore) Get(_ context.Context, collection string, id int64) (json.RawMessage, error) {
	doc, ok := s.docs[collection][id]
	if !ok {
		return nil, nil
	}
	return doc, nil
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

func newService() (*postUC.Service, *stubRepo, *memStore) {
	db := newMemDB()
	repo := newStub(db)
	store := newMemStore()
	engine := view.NewEngine(store, db, slog.New(slog.DiscardHandler))
	svc := &postUC.Service{
		Repo:   repo,
		Engine: engine,
		Posts:  view.NewPostView(view.DefaultWeights()),
		Topics: view.NewTopicView(view.DefaultWeights()),
	}
	return svc, repo, store
}

func TestService_Create_validation(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Create(context.Background(), postUC.CreateInput{})
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestService_Create_rejectsOverlongTitle(t *testing.T) {
	svc, _, _ := newService()

	long := strings.Repeat("あ", postUC.MaxTitleRunes+1)
	_, err := svc.Create(context.Background(), postUC.CreateInput{
		TopicID: 3, AuthorID: 1, Title: long, Content: "body",
	})
	var verr *entity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want validation error, got %v", err)
	}
	if verr.Field != "title" {
		t.Fatalf("field = %q, want title", verr.Field)
	}

	// Rune-counted: a multi-byte title at the limit is accepted.
	ok := strings.Repeat("あ", postUC.MaxTitleRunes)
	if _, err := svc.Create(context.Background(), postUC.CreateInput{
		TopicID: 3, AuthorID: 1, Title: ok, Content: "body",
	}); err != nil {
		t.Fatalf("Create at limit err=%v", err)
	}
}

func TestService_Create_materializesAggregates(t *testing.T) {
	svc, repo, store := newService()

	p, err := svc.Create(context.Background(), postUC.CreateInput{
		TopicID: 3, AuthorID: 1, Title: "hello", Content: "world",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if p.ID == 0 || len(repo.data) != 1 {
		t.Fatalf("post not persisted: %+v", p)
	}

	var agg entity.PostAggregate
	if err := json.Unmarshal(store.docs["post_aggregates"][p.ID], &agg); err != nil {
		t.Fatalf("post aggregate missing: %v", err)
	}
	if agg.Post.Title != "hello" || agg.Post.Author.Username != "ada" {
		t.Fatalf("aggregate snapshot = %+v", agg.Post)
	}

	var topicAgg entity.TopicAggregate
	if err := json.Unmarshal(store.docs["topic_aggregates"][3], &topicAgg); err != nil {
		t.Fatalf("topic aggregate missing: %v", err)
	}
	if topicAgg.PostCount != 1 {
		t.Fatalf("topic post count = %d, want 1", topicAgg.PostCount)
	}
}

func TestService_Update_notFound(t *testing.T) {
	svc, _, _ := newService()

	title := "new title"
	_, err := svc.Update(context.Background(), postUC.UpdateInput{ID: 99, Title: &title})
	if !errors.Is(err, postUC.ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

func TestService_Update_refreshesAggregate(t *testing.T) {
	svc, _, store := newService()

	p, err := svc.Create(context.Background(), postUC.CreateInput{
		TopicID: 3, AuthorID: 1, Title: "draft", Content: "body",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	title := "published"
	if _, err := svc.Update(context.Background(), postUC.UpdateInput{ID: p.ID, Title: &title}); err != nil {
		t.Fatalf("Update err=%v", err)
	}

	var agg entity.PostAggregate
	if err := json.Unmarshal(store.docs["post_aggregates"][p.ID], &agg); err != nil {
		t.Fatalf("decode aggregate: %v", err)
	}
	if agg.Post.Title != "published" {
		t.Fatalf("aggregate title = %q, want published", agg.Post.Title)
	}
}

func TestService_Delete_removesAggregate(t *testing.T) {
	svc, repo, store := newService()

	p, err := svc.Create(context.Background(), postUC.CreateInput{
		TopicID: 3, AuthorID: 1, Title: "hello", Content: "world",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if len(repo.data) != 0 {
		t.Fatal("post row survived delete")
	}
	if _, found := store.docs["post_aggregates"][p.ID]; found {
		t.Fatal("post aggregate survived delete")
	}

	var topicAgg entity.TopicAggregate
	if err := json.Unmarshal(store.docs["topic_aggregates"][3], &topicAgg); err != nil {
		t.Fatalf("decode topic aggregate: %v", err)
	}
	if topicAgg.PostCount != 0 {
		t.Fatalf("topic post count = %d, want 0 after delete", topicAgg.PostCount)
	}
}

func TestService_Delete_notFound(t *testing.T) {
	svc, _, _ := newService()

	if err := svc.Delete(context.Background(), 42); !errors.Is(err, postUC.ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}
