package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/rabbitmq"
	"github.com/BloggingApp/comment-service/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Comments interface {
	Create(ctx context.Context, ref model.ItemRef, author *model.CachedUser, input dto.CreateCommentDto) (*model.Comment, error)
	UpdateContent(ctx context.Context, id int64, editor *model.CachedUser, content string) (*model.Comment, error)
	Moderate(ctx context.Context, id int64, isPublic bool, isRemoved bool) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, ref model.ItemRef, params ListParams) ([]*model.Comment, error)
	Grouped(ctx context.Context, ref model.ItemRef, params ListParams) ([][]*model.Comment, error)
	Count(ctx context.Context, ref model.ItemRef, ids []string) (int64, error)
	Page(ctx context.Context, ref model.ItemRef, page int, pageSize int, params ListParams) (*CommentPage, error)
}

type Sync interface {
	OnCommentCreated(ctx context.Context, comment *model.Comment) error
	OnCommentSaved(ctx context.Context, prior *model.Publicity, comment *model.Comment) (model.Transition, error)
	OnCommentDeleted(ctx context.Context, comment *model.Comment) error
	OnItemPublished(ctx context.Context, item *model.Item) error
	OnItemUnpublished(ctx context.Context, item *model.Item) error
}

type Rankings interface {
	Republish(ctx context.Context, item *model.Item) error
	Retract(ctx context.Context, item *model.Item) error
	Top(ctx context.Context, policy Policy, scope Scope, start, stop int64) ([]RankedItem, error)
}

type Options interface {
	ForItem(ctx context.Context, target interface{}) (model.CommentOptions, error)
	ForRef(ctx context.Context, ref model.ItemRef) (model.CommentOptions, error)
	SetForRef(ctx context.Context, ref model.ItemRef, opts model.CommentOptions) error
	IsCommentingBlocked(ctx context.Context, ref model.ItemRef) (bool, error)
	IsPremoderated(ctx context.Context, ref model.ItemRef) (bool, error)
}

type UserCache interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	StartConsume(ctx context.Context)
}

type Service struct {
	Comments
	Rankings
	Options
	UserCache
	Events *Events

	logger   *zap.Logger
	repo     *repository.Repository
	rabbitmq *rabbitmq.MQConn
}

func New(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn, scopes RankingScopes) *Service {
	rankings := newRankingsService(logger, repo, scopes)
	sync := newSyncService(logger, repo, rankings)
	events := newEvents(logger, sync)
	options := newOptionsService(logger, repo)

	s := &Service{
		Comments:  newCommentsService(logger, repo, options, events),
		Rankings:  rankings,
		Options:   options,
		UserCache: newUserCacheService(logger, repo, mq),
		Events:    events,
		logger:    logger,
		repo:      repo,
		rabbitmq:  mq,
	}

	if mq != nil {
		s.registerOutboundEvents()
	}

	return s
}

// registerOutboundEvents forwards removal/update signals to downstream
// observers over MQ. Publish failures are logged, not propagated: the
// aggregates are already consistent by the time these fire.
func (s *Service) registerOutboundEvents() {
	s.Events.SubscribeCommentRemoved(func(ctx context.Context, comment *model.Comment) {
		msg := dto.MQCommentRemovedMsg{
			CommentID:     comment.ID,
			ContentTypeID: comment.Item.ContentTypeID,
			ObjectPK:      comment.Item.ObjectPK,
			UserID:        comment.UserID,
			RemovedAt:     time.Now(),
		}
		if err := s.rabbitmq.PublishJSON(ctx, rabbitmq.COMMENT_REMOVED_QUEUE, msg); err != nil {
			s.logger.Sugar().Errorf("failed to publish comment(%d) removed event: %s", comment.ID, err.Error())
		}
	})

	s.Events.SubscribeCommentUpdated(func(ctx context.Context, comment *model.Comment, editor *model.CachedUser, editedAt time.Time) {
		msg := dto.MQCommentUpdatedMsg{
			CommentID:     comment.ID,
			ContentTypeID: comment.Item.ContentTypeID,
			ObjectPK:      comment.Item.ObjectPK,
			EditedAt:      editedAt,
		}
		if editor != nil {
			msg.EditorID = editor.ID
		}
		if err := s.rabbitmq.PublishJSON(ctx, rabbitmq.COMMENT_UPDATED_QUEUE, msg); err != nil {
			s.logger.Sugar().Errorf("failed to publish comment(%d) updated event: %s", comment.ID, err.Error())
		}
	})
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.UserCache.StartConsume(ctx)
	go s.consumeItemLifecycle(ctx, rabbitmq.ITEM_PUBLISHED_QUEUE, true)
	go s.consumeItemLifecycle(ctx, rabbitmq.ITEM_UNPUBLISHED_QUEUE, false)
}

// consumeItemLifecycle applies publish/unpublish notifications from the
// content subsystem: it refreshes the local item replica, then lets the
// synchronizer adjust rankings.
func (s *Service) consumeItemLifecycle(ctx context.Context, queue string, published bool) {
	msgs, err := s.rabbitmq.Consume(queue)
	if err != nil {
		s.logger.Sugar().Errorf("failed to consume from queue(%s): %s", queue, err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			var m dto.MQItemLifecycleMsg
			if err := json.Unmarshal(msg.Body, &m); err != nil {
				s.logger.Sugar().Errorf("failed to unmarshal item lifecycle message: %s", err.Error())
				continue
			}

			item := &model.Item{
				Ref:        model.ItemRef{ContentTypeID: m.ContentTypeID, ObjectPK: m.ObjectPK},
				CategoryID: m.CategoryID,
				Published:  published,
			}

			if err := s.repo.Postgres.Item.SetPublished(ctx, item.Ref, published); err != nil {
				s.logger.Sugar().Errorf("failed to update item(%s) replica: %s", item.Ref.Member(), err.Error())
			}

			if published {
				err = s.Events.ItemPublished(ctx, item)
			} else {
				err = s.Events.ItemUnpublished(ctx, item)
			}
			if err != nil {
				s.logger.Sugar().Errorf("failed to sync rankings for item(%s): %s", item.Ref.Member(), err.Error())
			}
		}
	}
}
