package postgres

import (
	"context"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// itemRepo reads the local replica of commentable items. The content
// subsystem owns the rows; this service only needs category and
// publication state to scope rankings.
type itemRepo struct {
	db *pgxpool.Pool
}

func newItemRepo(db *pgxpool.Pool) Item {
	return &itemRepo{
		db: db,
	}
}

func (r *itemRepo) FindByRef(ctx context.Context, ref model.ItemRef) (*model.Item, error) {
	var item model.Item
	if err := r.db.QueryRow(
		ctx,
		"SELECT content_type_id, object_pk, category_id, published FROM items WHERE content_type_id = $1 AND object_pk = $2",
		ref.ContentTypeID,
		ref.ObjectPK,
	).Scan(
		&item.Ref.ContentTypeID,
		&item.Ref.ObjectPK,
		&item.CategoryID,
		&item.Published,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &item, nil
}

func (r *itemRepo) SetPublished(ctx context.Context, ref model.ItemRef, published bool) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE items SET published = $1 WHERE content_type_id = $2 AND object_pk = $3",
		published,
		ref.ContentTypeID,
		ref.ObjectPK,
	)
	return err
}
