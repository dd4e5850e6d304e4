package postgres

import (
	"context"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentOptionsRepo struct {
	db *pgxpool.Pool
}

func newCommentOptionsRepo(db *pgxpool.Pool) CommentOptions {
	return &commentOptionsRepo{
		db: db,
	}
}

func (r *commentOptionsRepo) GetForObject(ctx context.Context, ref model.ItemRef) (*model.CommentOptions, error) {
	var opts model.CommentOptions
	if err := r.db.QueryRow(
		ctx,
		"SELECT blocked, premoderated FROM comment_options WHERE target_ct = $1 AND target_id = $2",
		ref.ContentTypeID,
		ref.ObjectPK,
	).Scan(&opts.Blocked, &opts.Premoderated); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &opts, nil
}

func (r *commentOptionsRepo) SetForObject(ctx context.Context, ref model.ItemRef, opts model.CommentOptions) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO comment_options(target_ct, target_id, blocked, premoderated)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (target_ct, target_id) DO UPDATE SET blocked = $3, premoderated = $4`,
		ref.ContentTypeID,
		ref.ObjectPK,
		opts.Blocked,
		opts.Premoderated,
	)
	return err
}
