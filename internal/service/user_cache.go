package service

import (
	"context"
	"encoding/json"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/rabbitmq"
	"github.com/BloggingApp/comment-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	rabbitmq *rabbitmq.MQConn
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn) UserCache {
	return &userCacheService{
		logger:   logger,
		repo:     repo,
		rabbitmq: mq,
	}
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	user, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find cached user(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}
	return user, nil
}

// StartConsume replays user profile updates from the user service into
// the local replica so comment listings keep showing fresh author data.
// Messages carry user_id plus whichever profile fields changed.
func (s *userCacheService) StartConsume(ctx context.Context) {
	queue := rabbitmq.USER_UPDATED_QUEUE
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

			var data map[string]interface{}
			if err := json.Unmarshal(msg.Body, &data); err != nil {
				s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
				continue
			}

			userIDString, exists := data["user_id"].(string)
			if !exists {
				s.logger.Sugar().Errorf("'user_id' field is not provided")
				continue
			}
			userID, err := uuid.Parse(userIDString)
			if err != nil {
				s.logger.Sugar().Errorf("provided an invalid user_id")
				continue
			}

			delete(data, "user_id")

			s.applyUpdate(ctx, userID, data)
		}
	}
}

func (s *userCacheService) applyUpdate(ctx context.Context, id uuid.UUID, updates map[string]interface{}) {
	existing, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find cached user(%s): %s", id.String(), err.Error())
		return
	}

	if existing == nil {
		user := model.CachedUser{ID: id}
		if v, ok := updates["username"].(string); ok {
			user.Username = v
		}
		if v, ok := updates["display_name"].(string); ok {
			user.DisplayName = v
		}
		if v, ok := updates["avatar_url"].(string); ok {
			user.AvatarURL = v
		}
		if err := s.repo.Postgres.UserCache.Create(ctx, user); err != nil {
			s.logger.Sugar().Errorf("failed to create cached user(%s): %s", id.String(), err.Error())
		}
		return
	}

	if err := s.repo.Postgres.UserCache.Update(ctx, id, updates); err != nil {
		s.logger.Sugar().Errorf("failed to update cached user(%s): %s", id.String(), err.Error())
	}
}
