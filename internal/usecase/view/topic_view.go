package view

import (
	"fmt"
	"time"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

// TopicView materializes one aggregate document per topic: the topic
// snapshot joined with its posts and followers. Followers weigh like
// likes and posts like comments in the topic's popularity score.
type TopicView struct {
	weights Weights
}

func NewTopicView(weights Weights) *TopicView {
	return &TopicView{weights: weights}
}

func (v *TopicView) Name() string       { return "topics" }
func (v *TopicView) Collection() string { return "topic_aggregates" }

func (v *TopicView) Pipeline(id int64) []Stage {
	return []Stage{
		Match{Collection: "topics", Field: "id", Value: id},
		Lookup{From: "posts", LocalField: "id", ForeignField: "topic_id", As: "posts"},
		Lookup{From: "follows", LocalField: "id", ForeignField: "topic_id", As: "follows"},
		Compute{Field: "postCount", Fn: func(d entity.Document) any { return len(docList(d, "posts")) }},
		Compute{Field: "followerCount", Fn: func(d entity.Document) any { return len(docList(d, "follows")) }},
		Compute{Field: "followerUserIds", Fn: func(d entity.Document) any { return idList(docList(d, "follows"), "user_id") }},
		Compute{Field: "score", Fn: func(d entity.Document) any {
			return v.weights.Score(int(docInt64(d, "followerCount")), int(docInt64(d, "postCount")), 0)
		}},
		Project{Fields: []string{
			"id", "owner_id", "name", "description", "created_at",
			"postCount", "followerCount", "followerUserIds", "score",
		}},
	}
}

func (v *TopicView) FieldMapping() repository.FieldMapping {
	return repository.FieldMapping{
		"id":            {Path: "id", Kind: repository.KindNumeric},
		"name":          {Path: "topic.name", Kind: repository.KindString},
		"owner":         {Path: "topic.ownerId", Kind: repository.KindNumeric},
		"createdAt":     {Path: "topic.createdAt", Kind: repository.KindTemporal},
		"postCount":     {Path: "postCount", Kind: repository.KindNumeric},
		"followerCount": {Path: "followerCount", Kind: repository.KindNumeric},
		"score":         {Path: "score", Kind: repository.KindNumeric},
		"lastUpdated":   {Path: "lastUpdated", Kind: repository.KindTemporal},
	}
}

func (v *TopicView) SearchFields() []string {
	return []string{"topic.name", "topic.description"}
}

func (v *TopicView) Assemble(doc entity.Document, refreshedAt time.Time) (any, float64, error) {
	id := docInt64(doc, "id")
	if id == 0 {
		return nil, 0, fmt.Errorf("topic document has no id")
	}

	aggregate := entity.TopicAggregate{
		ID: id,
		Topic: entity.TopicSnapshot{
			ID:          id,
			Name:        docString(doc, "name"),
			Description: docString(doc, "description"),
			OwnerID:     docInt64(doc, "owner_id"),
			CreatedAt:   docTime(doc, "created_at"),
		},
		PostCount:       int(docInt64(doc, "postCount")),
		FollowerCount:   int(docInt64(doc, "followerCount")),
		FollowerUserIDs: asIDSlice(doc["followerUserIds"]),
		Score:           docFloat(doc, "score"),
		LastUpdated:     refreshedAt,
	}
	return aggregate, aggregate.Score, nil
}
