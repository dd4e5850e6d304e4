package redisrepo

import "github.com/BloggingApp/comment-service/internal/repository/aggregate"

type RedisRepository struct {
	Default
}

func New(store aggregate.Store) *RedisRepository {
	return &RedisRepository{
		Default: newDefaultRepo(store),
	}
}
