package repository

import (
	"github.com/BloggingApp/comment-service/internal/repository/aggregate"
	"github.com/BloggingApp/comment-service/internal/repository/postgres"
	"github.com/BloggingApp/comment-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Repository struct {
	Postgres  *postgres.PostgresRepository
	Redis     *redisrepo.RedisRepository
	Aggregate aggregate.Store
}

func New(db *pgxpool.Pool, store aggregate.Store, logger *zap.Logger) *Repository {
	return &Repository{
		Postgres:  postgres.New(db, logger),
		Redis:     redisrepo.New(store),
		Aggregate: store,
	}
}
