package service

import (
	"context"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/repository"
	"go.uber.org/zap"
)

type optionsService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newOptionsService(logger *zap.Logger, repo *repository.Repository) Options {
	return &optionsService{
		logger: logger,
		repo:   repo,
	}
}

// ForItem accepts either something carrying its options inline or an item
// reference resolved through the options table. The capability interface
// replaces attribute probing: an item either implements it or it doesn't.
func (s *optionsService) ForItem(ctx context.Context, target interface{}) (model.CommentOptions, error) {
	switch t := target.(type) {
	case model.HasInlineOptions:
		return t.InlineCommentOptions(), nil
	case *model.Item:
		return s.ForRef(ctx, t.Ref)
	case model.ItemRef:
		return s.ForRef(ctx, t)
	default:
		return model.CommentOptions{}, ErrUnknownOptionsTarget
	}
}

func (s *optionsService) ForRef(ctx context.Context, ref model.ItemRef) (model.CommentOptions, error) {
	opts, err := s.repo.Postgres.CommentOptions.GetForObject(ctx, ref)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get comment options for item(%s): %s", ref.Member(), err.Error())
		return model.CommentOptions{}, ErrInternal
	}
	if opts == nil {
		return model.DefaultCommentOptions(), nil
	}
	return *opts, nil
}

func (s *optionsService) SetForRef(ctx context.Context, ref model.ItemRef, opts model.CommentOptions) error {
	if err := s.repo.Postgres.CommentOptions.SetForObject(ctx, ref, opts); err != nil {
		s.logger.Sugar().Errorf("failed to set comment options for item(%s): %s", ref.Member(), err.Error())
		return ErrInternal
	}
	return nil
}

func (s *optionsService) IsCommentingBlocked(ctx context.Context, ref model.ItemRef) (bool, error) {
	opts, err := s.ForRef(ctx, ref)
	if err != nil {
		return false, err
	}
	return opts.Blocked, nil
}

func (s *optionsService) IsPremoderated(ctx context.Context, ref model.ItemRef) (bool, error) {
	opts, err := s.ForRef(ctx, ref)
	if err != nil {
		return false, err
	}
	return opts.Premoderated, nil
}
