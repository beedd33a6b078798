package view

import (
	"fmt"
	"time"

	"community-feed/internal/domain/entity"
	"community-feed/internal/repository"
)

// PostView materializes one aggregate document per post: the post and
// author snapshot joined with its likes, views, and comments, plus the
// derived counters, engaged-user id lists, and popularity score.
type PostView struct {
	weights Weights
}

func NewPostView(weights Weights) *PostView {
	return &PostView{weights: weights}
}

func (v *PostView) Name() string       { return "posts" }
func (v *PostView) Collection() string { return "post_aggregates" }

func (v *PostView) Pipeline(id int64) []Stage {
	return []Stage{
		// Match on the source id first to bound the pipeline's cost.
		Match{Collection: "posts", Field: "id", Value: id},
		Lookup{From: "users", LocalField: "author_id", ForeignField: "id", As: "author"},
		Lookup{From: "likes", LocalField: "id", ForeignField: "post_id", As: "likes"},
		Lookup{From: "post_views", LocalField: "id", ForeignField: "post_id", As: "views"},
		Lookup{From: "comments", LocalField: "id", ForeignField: "post_id", As: "comments"},
		Compute{Field: "likeCount", Fn: func(d entity.Document) any { return len(docList(d, "likes")) }},
		Compute{Field: "commentCount", Fn: func(d entity.Document) any { return len(docList(d, "comments")) }},
		Compute{Field: "viewCount", Fn: func(d entity.Document) any { return len(docList(d, "views")) }},
		Compute{Field: "likedUserIds", Fn: func(d entity.Document) any { return idList(docList(d, "likes"), "user_id") }},
		Compute{Field: "viewedUserIds", Fn: func(d entity.Document) any { return uniqueIDList(docList(d, "views"), "user_id") }},
		Compute{Field: "score", Fn: func(d entity.Document) any {
			return v.weights.Score(
				int(docInt64(d, "likeCount")),
				int(docInt64(d, "commentCount")),
				int(docInt64(d, "viewCount")))
		}},
		Project{Fields: []string{
			"id", "topic_id", "title", "content", "created_at", "author",
			"likeCount", "commentCount", "viewCount",
			"likedUserIds", "viewedUserIds", "score",
		}},
	}
}

func (v *PostView) FieldMapping() repository.FieldMapping {
	return repository.FieldMapping{
		"id":           {Path: "id", Kind: repository.KindNumeric},
		"topic":        {Path: "post.topicId", Kind: repository.KindNumeric},
		"author":       {Path: "post.author.id", Kind: repository.KindNumeric},
		"title":        {Path: "post.title", Kind: repository.KindString},
		"createdAt":    {Path: "post.createdAt", Kind: repository.KindTemporal},
		"likeCount":    {Path: "likeCount", Kind: repository.KindNumeric},
		"commentCount": {Path: "commentCount", Kind: repository.KindNumeric},
		"viewCount":    {Path: "viewCount", Kind: repository.KindNumeric},
		"score":        {Path: "score", Kind: repository.KindNumeric},
		"lastUpdated":  {Path: "lastUpdated", Kind: repository.KindTemporal},
	}
}

func (v *PostView) SearchFields() []string {
	return []string{"post.title", "post.content"}
}

func (v *PostView) Assemble(doc entity.Document, refreshedAt time.Time) (any, float64, error) {
	id := docInt64(doc, "id")
	if id == 0 {
		return nil, 0, fmt.Errorf("post document has no id")
	}
	author := firstDoc(doc, "author")

	aggregate := entity.PostAggregate{
		ID: id,
		Post: entity.PostSnapshot{
			ID:      id,
			TopicID: docInt64(doc, "topic_id"),
			Title:   docString(doc, "title"),
			Content: docString(doc, "content"),
			Author: entity.AuthorSnapshot{
				ID:       docInt64(author, "id"),
				Username: docString(author, "username"),
			},
			CreatedAt: docTime(doc, "created_at"),
		},
		LikeCount:     int(docInt64(doc, "likeCount")),
		CommentCount:  int(docInt64(doc, "commentCount")),
		ViewCount:     int(docInt64(doc, "viewCount")),
		LikedUserIDs:  asIDSlice(doc["likedUserIds"]),
		ViewedUserIDs: asIDSlice(doc["viewedUserIds"]),
		Score:         docFloat(doc, "score"),
		LastUpdated:   refreshedAt,
	}
	return aggregate, aggregate.Score, nil
}

func asIDSlice(v any) []int64 {
	switch ids := v.(type) {
	case []int64:
		return ids
	case []any:
		out := make([]int64, 0, len(ids))
		for _, id := range ids {
			if f, ok := id.(float64); ok {
				out = append(out, int64(f))
			}
		}
		return out
	default:
		return []int64{}
	}
}
