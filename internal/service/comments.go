package service

import (
	"context"
	"time"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/repository"
	"github.com/BloggingApp/comment-service/internal/repository/postgres"
	"github.com/BloggingApp/comment-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// listCacheTTL bounds staleness of cached listings; there is no
// invalidation push from the write path for these keys, only for the
// counter and snapshot.
const listCacheTTL = 30 * time.Second

// ListParams is the full cache-key tuple of a listing.
type ListParams struct {
	Reverse bool
	Flat    bool
	Group   bool
	IDs     []string
	Start   *int
	Stop    *int
}

type CommentPage struct {
	Comments []*model.Comment `json:"comments"`
	Page     int              `json:"page"`
	NumPages int              `json:"num_pages"`
	Total    int64            `json:"total"`
}

type commentsService struct {
	logger  *zap.Logger
	repo    *repository.Repository
	options Options
	events  *Events
}

func newCommentsService(logger *zap.Logger, repo *repository.Repository, options Options, events *Events) Comments {
	return &commentsService{
		logger:  logger,
		repo:    repo,
		options: options,
		events:  events,
	}
}

func (s *commentsService) Create(ctx context.Context, ref model.ItemRef, author *model.CachedUser, input dto.CreateCommentDto) (*model.Comment, error) {
	opts, err := s.options.ForRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if opts.Blocked {
		return nil, ErrCommentingBlocked
	}

	comment := model.Comment{
		Item:      ref,
		ParentID:  input.ParentID,
		UserName:  input.Name,
		UserEmail: input.Email,
		Content:   input.Content,
		URL:       input.URL,
		IsPublic:  true,
	}
	if author != nil {
		id := author.ID
		comment.UserID = &id
		comment.UserName = author.Display()
	}
	if opts.Premoderated {
		comment.IsPublic = false
	}

	created, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create comment on item(%s): %s", ref.Member(), err.Error())
		return nil, ErrInternal
	}

	if err := s.events.CommentPosted(ctx, created); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *commentsService) UpdateContent(ctx context.Context, id int64, editor *model.CachedUser, content string) (*model.Comment, error) {
	comment, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Postgres.Comment.UpdateContent(ctx, id, content); err != nil {
		s.logger.Sugar().Errorf("failed to update comment(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	comment.Content = content

	s.events.CommentUpdated(ctx, comment, editor, time.Now())

	return comment, nil
}

func (s *commentsService) Moderate(ctx context.Context, id int64, isPublic bool, isRemoved bool) (*model.Comment, error) {
	before, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prior := before.Publicity()

	updated, err := s.repo.Postgres.Comment.SetModeration(ctx, id, isPublic, isRemoved)
	if err != nil {
		s.logger.Sugar().Errorf("failed to moderate comment(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.events.CommentSaved(ctx, &prior, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *commentsService) Delete(ctx context.Context, id int64) error {
	comment, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	return s.events.CommentDeleted(ctx, comment)
}

func (s *commentsService) findByID(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	return comment, nil
}

// List serves the ordered visible comments of an item through a short-TTL
// cache keyed by the full parameter tuple. Cache trouble degrades to the
// relational store; it never fails the read.
func (s *commentsService) List(ctx context.Context, ref model.ItemRef, params ListParams) ([]*model.Comment, error) {
	if err := validateSlice(params.Start, params.Stop); err != nil {
		return nil, err
	}

	cacheKey := redisrepo.CommentListKey(ref, params.Reverse, params.Group, params.Flat, params.IDs, params.Start, params.Stop)
	cached, err := redisrepo.GetMany[model.Comment](s.repo.Redis.Default, ctx, cacheKey)
	if err == nil {
		return cached, nil
	}
	if err != redisrepo.ErrCacheMiss {
		s.logger.Sugar().Warnf("comment list cache degraded for item(%s), falling back to postgres: %s", ref.Member(), err.Error())
	}

	q := postgres.CommentQuery{
		Prefixes: params.IDs,
		Flat:     params.Flat,
		Reverse:  params.Reverse,
	}
	if params.Start != nil {
		q.Offset = *params.Start
		if params.Stop != nil {
			q.Limit = *params.Stop - *params.Start
		}
	}

	comments, err := s.repo.Postgres.Comment.FindVisible(ctx, ref, q)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list comments for item(%s): %s", ref.Member(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, cacheKey, comments, listCacheTTL); err != nil {
		s.logger.Sugar().Warnf("failed to cache comment list for item(%s): %s", ref.Member(), err.Error())
	}

	return comments, nil
}

func (s *commentsService) Grouped(ctx context.Context, ref model.ItemRef, params ListParams) ([][]*model.Comment, error) {
	params.Group = true
	params.Flat = false
	comments, err := s.List(ctx, ref, params)
	if err != nil {
		return nil, err
	}
	return GroupThreads(comments), nil
}

// Count prefers the actively maintained counter; the counter knows
// nothing about branch filters, so filtered counts go through a short-TTL
// cache over the relational store instead.
func (s *commentsService) Count(ctx context.Context, ref model.ItemRef, ids []string) (int64, error) {
	if len(ids) == 0 {
		cnt, err := s.repo.Aggregate.GetInt(ctx, redisrepo.CommentCountKey(ref))
		if err == nil {
			return cnt, nil
		}
		s.logger.Sugar().Warnf("comment count degraded for item(%s), falling back to postgres: %s", ref.Member(), err.Error())
	}

	cacheKey := redisrepo.FilteredCountKey(ref, ids)
	if cached, err := redisrepo.Get[int64](s.repo.Redis.Default, ctx, cacheKey); err == nil && cached != nil {
		return *cached, nil
	}

	cnt, err := s.repo.Postgres.Comment.CountVisible(ctx, ref, ids)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count comments for item(%s): %s", ref.Member(), err.Error())
		return 0, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, cacheKey, cnt, listCacheTTL); err != nil {
		s.logger.Sugar().Warnf("failed to cache comment count for item(%s): %s", ref.Member(), err.Error())
	}

	return cnt, nil
}

// Page returns the 1-based page over the filtered listing. A page past
// the end is a precondition error, except page 1 of an empty listing,
// which is an empty page.
func (s *commentsService) Page(ctx context.Context, ref model.ItemRef, page int, pageSize int, params ListParams) (*CommentPage, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPagination
	}
	if page < 1 {
		return nil, ErrPageOutOfRange
	}

	total, err := s.Count(ctx, ref, params.IDs)
	if err != nil {
		return nil, err
	}

	numPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if numPages == 0 {
		numPages = 1
	}
	if page > numPages {
		return nil, ErrPageOutOfRange
	}

	start := (page - 1) * pageSize
	stop := start + pageSize
	params.Start = &start
	params.Stop = &stop

	comments, err := s.List(ctx, ref, params)
	if err != nil {
		return nil, err
	}

	return &CommentPage{
		Comments: comments,
		Page:     page,
		NumPages: numPages,
		Total:    total,
	}, nil
}

// GroupThreads partitions an ordered comment sequence into contiguous
// runs sharing the top-level thread path. The base order already clusters
// by that prefix, so one pass with a look-behind suffices.
func GroupThreads(comments []*model.Comment) [][]*model.Comment {
	var groups [][]*model.Comment
	prev := ""
	for _, c := range comments {
		if c.ThreadPath() != prev || len(groups) == 0 {
			prev = c.ThreadPath()
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], c)
	}
	return groups
}

func validateSlice(start, stop *int) error {
	if start != nil && *start < 0 {
		return ErrInvalidSlice
	}
	if stop != nil {
		if *stop < 0 {
			return ErrInvalidSlice
		}
		if start != nil && *stop < *start {
			return ErrInvalidSlice
		}
	}
	return nil
}
