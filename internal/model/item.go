package model

import "fmt"

// ItemRef identifies a commentable item owned by the content subsystem:
// a content type plus the primary key of the object within it.
type ItemRef struct {
	ContentTypeID int64  `json:"content_type_id"`
	ObjectPK      string `json:"object_pk"`
}

// Member is the item's identity as stored in ranking sorted sets.
func (r ItemRef) Member() string {
	return fmt.Sprintf("%d:%s", r.ContentTypeID, r.ObjectPK)
}

type Item struct {
	Ref        ItemRef `json:"ref"`
	CategoryID int64   `json:"category_id"`
	Published  bool    `json:"published"`
}

type CommentOptions struct {
	Blocked      bool `json:"blocked"`
	Premoderated bool `json:"premoderated"`
}

func DefaultCommentOptions() CommentOptions {
	return CommentOptions{}
}

// HasInlineOptions is implemented by items that carry their comment
// options inline instead of in the per-item options table.
type HasInlineOptions interface {
	InlineCommentOptions() CommentOptions
}
