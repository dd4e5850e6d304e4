package service

import (
	"context"
	"time"

	"github.com/BloggingApp/comment-service/internal/model"
	"go.uber.org/zap"
)

// Events wires comment and item lifecycle events to the synchronizer by
// direct reference; there is no internal dispatcher. The pub/sub shape
// survives only at the outbound boundary, where observers (notification
// systems and the like) subscribe to removed/updated signals.
type Events struct {
	logger      *zap.Logger
	sync        Sync
	removedSubs []func(ctx context.Context, comment *model.Comment)
	updatedSubs []func(ctx context.Context, comment *model.Comment, editor *model.CachedUser, editedAt time.Time)
}

func newEvents(logger *zap.Logger, sync Sync) *Events {
	return &Events{
		logger: logger,
		sync:   sync,
	}
}

// SubscribeCommentRemoved registers an observer for hidden-or-deleted
// comments. Registration happens during startup wiring; it is not safe
// to call concurrently with event delivery.
func (e *Events) SubscribeCommentRemoved(fn func(ctx context.Context, comment *model.Comment)) {
	e.removedSubs = append(e.removedSubs, fn)
}

func (e *Events) SubscribeCommentUpdated(fn func(ctx context.Context, comment *model.Comment, editor *model.CachedUser, editedAt time.Time)) {
	e.updatedSubs = append(e.updatedSubs, fn)
}

// CapturePublicity is the pre-save hook: it snapshots the moderation
// flags as a plain value for the post-save transition detection. No state
// is smuggled on the comment itself.
func (e *Events) CapturePublicity(comment *model.Comment) model.Publicity {
	return comment.Publicity()
}

func (e *Events) CommentPosted(ctx context.Context, comment *model.Comment) error {
	return e.sync.OnCommentCreated(ctx, comment)
}

func (e *Events) CommentSaved(ctx context.Context, prior *model.Publicity, comment *model.Comment) error {
	transition, err := e.sync.OnCommentSaved(ctx, prior, comment)
	if err != nil {
		return err
	}
	if transition == model.BecameHidden {
		e.emitRemoved(ctx, comment)
	}
	return nil
}

func (e *Events) CommentDeleted(ctx context.Context, comment *model.Comment) error {
	if err := e.sync.OnCommentDeleted(ctx, comment); err != nil {
		return err
	}
	// Hard deletion always signals removal, visible or not.
	e.emitRemoved(ctx, comment)
	return nil
}

func (e *Events) CommentUpdated(ctx context.Context, comment *model.Comment, editor *model.CachedUser, editedAt time.Time) {
	for _, fn := range e.updatedSubs {
		fn(ctx, comment, editor, editedAt)
	}
}

func (e *Events) ItemPublished(ctx context.Context, item *model.Item) error {
	return e.sync.OnItemPublished(ctx, item)
}

func (e *Events) ItemUnpublished(ctx context.Context, item *model.Item) error {
	return e.sync.OnItemUnpublished(ctx, item)
}

func (e *Events) emitRemoved(ctx context.Context, comment *model.Comment) {
	for _, fn := range e.removedSubs {
		fn(ctx, comment)
	}
}
