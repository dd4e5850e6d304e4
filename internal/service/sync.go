package service

import (
	"context"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/repository"
	"github.com/BloggingApp/comment-service/internal/repository/redisrepo"
	"go.uber.org/zap"
)

// syncService keeps the per-item visible-comment counter and last-comment
// snapshot in step with comment lifecycle events, and triggers ranking
// republish after every change so rankings never read a stale counter.
//
// Store failures propagate to the caller: silently skipping a counter
// update would undercount forever, so the triggering save is expected to
// fail with us.
type syncService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	rankings Rankings
}

func newSyncService(logger *zap.Logger, repo *repository.Repository, rankings Rankings) Sync {
	return &syncService{
		logger:   logger,
		repo:     repo,
		rankings: rankings,
	}
}

func (s *syncService) OnCommentCreated(ctx context.Context, comment *model.Comment) error {
	if !comment.Visible() {
		return nil
	}

	// A newly posted comment is the latest by submission-time ordering,
	// so the snapshot is overwritten unconditionally.
	batch := s.repo.Aggregate.Batch()
	batch.Incr(redisrepo.CommentCountKey(comment.Item))
	batch.HSet(redisrepo.LastCommentKey(comment.Item), model.LastCommentOf(comment).Fields())
	if err := batch.Exec(ctx); err != nil {
		s.logger.Sugar().Errorf("failed to record comment(%d) creation for item(%s): %s", comment.ID, comment.Item.Member(), err.Error())
		return err
	}

	return s.republishTarget(ctx, comment.Item)
}

func (s *syncService) OnCommentSaved(ctx context.Context, prior *model.Publicity, comment *model.Comment) (model.Transition, error) {
	transition := model.DetectTransition(prior, comment.Publicity())

	countKey := redisrepo.CommentCountKey(comment.Item)
	switch transition {
	case model.NoChange:
		// Content edits without a visibility change touch nothing here.
		return transition, nil
	case model.BecameVisible:
		if _, err := s.repo.Aggregate.IncrBy(ctx, countKey, 1); err != nil {
			return transition, err
		}
	case model.BecameHidden:
		if _, err := s.repo.Aggregate.DecrFloor(ctx, countKey); err != nil {
			return transition, err
		}
	}

	if err := s.refreshLastComment(ctx, comment.Item); err != nil {
		return transition, err
	}

	return transition, s.republishTarget(ctx, comment.Item)
}

func (s *syncService) OnCommentDeleted(ctx context.Context, comment *model.Comment) error {
	if !comment.Visible() {
		return nil
	}

	if _, err := s.repo.Aggregate.DecrFloor(ctx, redisrepo.CommentCountKey(comment.Item)); err != nil {
		return err
	}

	if err := s.refreshLastComment(ctx, comment.Item); err != nil {
		return err
	}

	return s.republishTarget(ctx, comment.Item)
}

func (s *syncService) OnItemPublished(ctx context.Context, item *model.Item) error {
	return s.rankings.Republish(ctx, item)
}

// OnItemUnpublished retracts rankings only; counter and snapshot reflect
// comment activity, not publication state, and must survive so a
// republish restores the item's rank immediately.
func (s *syncService) OnItemUnpublished(ctx context.Context, item *model.Item) error {
	return s.rankings.Retract(ctx, item)
}

// refreshLastComment recomputes the snapshot from the relational store:
// the visible comment with the maximum submit timestamp wins, and the key
// is dropped when nothing visible remains.
func (s *syncService) refreshLastComment(ctx context.Context, ref model.ItemRef) error {
	latest, err := s.repo.Postgres.Comment.LatestVisible(ctx, ref)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find latest visible comment for item(%s): %s", ref.Member(), err.Error())
		return err
	}

	batch := s.repo.Aggregate.Batch()
	if latest == nil {
		batch.Del(redisrepo.LastCommentKey(ref))
	} else {
		batch.HSet(redisrepo.LastCommentKey(ref), model.LastCommentOf(latest).Fields())
	}
	return batch.Exec(ctx)
}

func (s *syncService) republishTarget(ctx context.Context, ref model.ItemRef) error {
	item, err := s.repo.Postgres.Item.FindByRef(ctx, ref)
	if err != nil {
		s.logger.Sugar().Errorf("failed to resolve item(%s): %s", ref.Member(), err.Error())
		return err
	}
	if item == nil || !item.Published {
		return nil
	}
	return s.rankings.Republish(ctx, item)
}
