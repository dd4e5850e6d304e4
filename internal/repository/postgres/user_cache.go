package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrFieldsNotAllowedToUpdate = errors.New("fields are not allowed to update")

type userCacheRepo struct {
	db *pgxpool.Pool
}

func newUserCacheRepo(db *pgxpool.Pool) UserCache {
	return &userCacheRepo{
		db: db,
	}
}

func (r *userCacheRepo) Create(ctx context.Context, cachedUser model.CachedUser) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO cached_users(id, username, display_name, avatar_url) VALUES($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET username = $2, display_name = $3, avatar_url = $4`,
		cachedUser.ID,
		cachedUser.Username,
		cachedUser.DisplayName,
		cachedUser.AvatarURL,
	)
	return err
}

func (r *userCacheRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	allowedFields := []string{"username", "display_name", "avatar_url"}
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	sets := make([]string, 0, len(updates))
	args := []interface{}{}
	for column, value := range updates {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	args = append(args, id)

	query := "UPDATE cached_users SET " + strings.Join(sets, ", ") + " WHERE id = $" + strconv.Itoa(len(args))
	_, err := r.db.Exec(ctx, query, args...)
	return err
}

func (r *userCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	var user model.CachedUser
	if err := r.db.QueryRow(
		ctx,
		"SELECT id, username, display_name, avatar_url FROM cached_users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL); err != nil {
		return nil, err
	}

	return &user, nil
}
