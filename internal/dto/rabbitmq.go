package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQCommentRemovedMsg struct {
	CommentID     int64      `json:"comment_id"`
	ContentTypeID int64      `json:"content_type_id"`
	ObjectPK      string     `json:"object_pk"`
	UserID        *uuid.UUID `json:"user_id"`
	RemovedAt     time.Time  `json:"removed_at"`
}

type MQCommentUpdatedMsg struct {
	CommentID     int64     `json:"comment_id"`
	ContentTypeID int64     `json:"content_type_id"`
	ObjectPK      string    `json:"object_pk"`
	EditorID      uuid.UUID `json:"editor_id"`
	EditedAt      time.Time `json:"edited_at"`
}

type MQItemLifecycleMsg struct {
	ContentTypeID int64  `json:"content_type_id"`
	ObjectPK      string `json:"object_pk"`
	CategoryID    int64  `json:"category_id"`
	Published     bool   `json:"published"`
}
