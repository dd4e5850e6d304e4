package postgres

import (
	"context"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const MAX_LIMIT = 100

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

// CommentQuery narrows and orders a visible-comment listing. Prefixes are
// full-width tree path prefixes; an empty slice means the whole item.
type CommentQuery struct {
	Prefixes []string
	Flat     bool
	Reverse  bool
	Limit    int
	Offset   int
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindVisible(ctx context.Context, ref model.ItemRef, q CommentQuery) ([]*model.Comment, error)
	CountVisible(ctx context.Context, ref model.ItemRef, prefixes []string) (int64, error)
	LatestVisible(ctx context.Context, ref model.ItemRef) (*model.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	SetModeration(ctx context.Context, id int64, isPublic bool, isRemoved bool) (*model.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type Item interface {
	FindByRef(ctx context.Context, ref model.ItemRef) (*model.Item, error)
	SetPublished(ctx context.Context, ref model.ItemRef, published bool) error
}

type CommentOptions interface {
	GetForObject(ctx context.Context, ref model.ItemRef) (*model.CommentOptions, error)
	SetForObject(ctx context.Context, ref model.ItemRef, opts model.CommentOptions) error
}

type UserCache interface {
	Create(ctx context.Context, cachedUser model.CachedUser) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
}

type PostgresRepository struct {
	Comment
	Item
	CommentOptions
	UserCache
}

func New(db *pgxpool.Pool, logger *zap.Logger) *PostgresRepository {
	return &PostgresRepository{
		Comment:        newCommentRepo(db, logger),
		Item:           newItemRepo(db),
		CommentOptions: newCommentOptionsRepo(db),
		UserCache:      newUserCacheRepo(db),
	}
}
