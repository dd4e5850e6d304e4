package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const commentColumns = "id, content_type_id, object_pk, parent_id, tree_path, user_id, user_name, user_email, content, url, submit_date, is_public, is_removed"

type commentRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func newCommentRepo(db *pgxpool.Pool, logger *zap.Logger) Comment {
	return &commentRepo{
		db:     db,
		logger: logger,
	}
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	if comment.SubmitDate.IsZero() {
		comment.SubmitDate = time.Now()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO comments(content_type_id, object_pk, parent_id, user_id, user_name, user_email, content, url, submit_date, is_public, is_removed)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		comment.Item.ContentTypeID,
		comment.Item.ObjectPK,
		comment.ParentID,
		comment.UserID,
		comment.UserName,
		comment.UserEmail,
		comment.Content,
		comment.URL,
		comment.SubmitDate,
		comment.IsPublic,
		comment.IsRemoved,
	).Scan(&comment.ID); err != nil {
		return nil, err
	}

	// The tree path embeds the comment's own id, so it can only be set
	// once the id is known.
	segment := model.ZeroPadPath(strconv.FormatInt(comment.ID, 10))
	if comment.ParentID != nil {
		var parentPath string
		if err := tx.QueryRow(ctx, "SELECT tree_path FROM comments WHERE id = $1", *comment.ParentID).Scan(&parentPath); err != nil {
			return nil, err
		}
		comment.TreePath = parentPath + model.PATH_SEPARATOR + segment
	} else {
		comment.TreePath = segment
	}

	if _, err := tx.Exec(ctx, "UPDATE comments SET tree_path = $1 WHERE id = $2", comment.TreePath, comment.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	row := r.db.QueryRow(ctx, "SELECT "+commentColumns+" FROM comments WHERE id = $1", id)
	return scanComment(row)
}

func (r *commentRepo) FindVisible(ctx context.Context, ref model.ItemRef, q CommentQuery) ([]*model.Comment, error) {
	maxLimit(&q.Limit)

	query, args := visibleQuery(ref, q.Prefixes)

	if q.Flat {
		if q.Reverse {
			query += " ORDER BY submit_date ASC"
		} else {
			query += " ORDER BY submit_date DESC"
		}
	} else {
		if q.Reverse {
			query += " ORDER BY tree_path DESC"
		} else {
			query += " ORDER BY tree_path ASC"
		}
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) CountVisible(ctx context.Context, ref model.ItemRef, prefixes []string) (int64, error) {
	query, args := visibleQuery(ref, prefixes)
	query = strings.Replace(query, "SELECT "+commentColumns, "SELECT COUNT(*)", 1)

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *commentRepo) LatestVisible(ctx context.Context, ref model.ItemRef) (*model.Comment, error) {
	query, args := visibleQuery(ref, nil)
	query += " ORDER BY submit_date DESC LIMIT 1"

	comment, err := scanComment(r.db.QueryRow(ctx, query, args...))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	_, err := r.db.Exec(ctx, "UPDATE comments SET content = $1 WHERE id = $2", content, id)
	return err
}

func (r *commentRepo) SetModeration(ctx context.Context, id int64, isPublic bool, isRemoved bool) (*model.Comment, error) {
	row := r.db.QueryRow(
		ctx,
		"UPDATE comments SET is_public = $1, is_removed = $2 WHERE id = $3 RETURNING "+commentColumns,
		isPublic,
		isRemoved,
		id,
	)
	return scanComment(row)
}

func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	return err
}

func visibleQuery(ref model.ItemRef, prefixes []string) (string, []interface{}) {
	query := "SELECT " + commentColumns + " FROM comments WHERE content_type_id = $1 AND object_pk = $2 AND is_public = true AND is_removed = false"
	args := []interface{}{ref.ContentTypeID, ref.ObjectPK}

	if len(prefixes) > 0 {
		conds := make([]string, 0, len(prefixes))
		for _, prefix := range prefixes {
			args = append(args, model.ZeroPadPath(prefix))
			conds = append(conds, fmt.Sprintf("tree_path LIKE $%d || '%%'", len(args)))
		}
		query += " AND (" + strings.Join(conds, " OR ") + ")"
	}

	return query, args
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment
	if err := row.Scan(
		&comment.ID,
		&comment.Item.ContentTypeID,
		&comment.Item.ObjectPK,
		&comment.ParentID,
		&comment.TreePath,
		&comment.UserID,
		&comment.UserName,
		&comment.UserEmail,
		&comment.Content,
		&comment.URL,
		&comment.SubmitDate,
		&comment.IsPublic,
		&comment.IsRemoved,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}
