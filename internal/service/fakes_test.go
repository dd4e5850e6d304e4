package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/repository"
	"github.com/BloggingApp/comment-service/internal/repository/aggregate"
	"github.com/BloggingApp/comment-service/internal/repository/postgres"
	"github.com/BloggingApp/comment-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// fakeCommentRepo mirrors the postgres comment repository's contract over
// an in-process map, including tree path assignment.
type fakeCommentRepo struct {
	comments map[int64]*model.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*model.Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	r.nextID++
	comment.ID = r.nextID
	if comment.SubmitDate.IsZero() {
		comment.SubmitDate = time.Now()
	}

	segment := model.ZeroPadPath(strconv.FormatInt(comment.ID, 10))
	if comment.ParentID != nil {
		parent := r.comments[*comment.ParentID]
		comment.TreePath = parent.TreePath + model.PATH_SEPARATOR + segment
	} else {
		comment.TreePath = segment
	}

	stored := comment
	r.comments[comment.ID] = &stored
	result := comment
	return &result, nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) visible(ref model.ItemRef, prefixes []string) []*model.Comment {
	var out []*model.Comment
	for _, c := range r.comments {
		if c.Item != ref || !c.Visible() {
			continue
		}
		if len(prefixes) > 0 {
			matched := false
			for _, p := range prefixes {
				if strings.HasPrefix(c.TreePath, model.ZeroPadPath(p)) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		copied := *c
		out = append(out, &copied)
	}
	return out
}

func (r *fakeCommentRepo) FindVisible(ctx context.Context, ref model.ItemRef, q postgres.CommentQuery) ([]*model.Comment, error) {
	out := r.visible(ref, q.Prefixes)

	if q.Flat {
		sort.Slice(out, func(i, j int) bool {
			if q.Reverse {
				return out[i].SubmitDate.Before(out[j].SubmitDate)
			}
			return out[i].SubmitDate.After(out[j].SubmitDate)
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			if q.Reverse {
				return out[i].TreePath > out[j].TreePath
			}
			return out[i].TreePath < out[j].TreePath
		})
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}

	return out, nil
}

func (r *fakeCommentRepo) CountVisible(ctx context.Context, ref model.ItemRef, prefixes []string) (int64, error) {
	return int64(len(r.visible(ref, prefixes))), nil
}

func (r *fakeCommentRepo) LatestVisible(ctx context.Context, ref model.ItemRef) (*model.Comment, error) {
	var latest *model.Comment
	for _, c := range r.visible(ref, nil) {
		if latest == nil || c.SubmitDate.After(latest.SubmitDate) {
			latest = c
		}
	}
	return latest, nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	c, ok := r.comments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	c.Content = content
	return nil
}

func (r *fakeCommentRepo) SetModeration(ctx context.Context, id int64, isPublic bool, isRemoved bool) (*model.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	c.IsPublic = isPublic
	c.IsRemoved = isRemoved
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id int64) error {
	delete(r.comments, id)
	return nil
}

type fakeItemRepo struct {
	items map[model.ItemRef]*model.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[model.ItemRef]*model.Item)}
}

func (r *fakeItemRepo) FindByRef(ctx context.Context, ref model.ItemRef) (*model.Item, error) {
	item, ok := r.items[ref]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) SetPublished(ctx context.Context, ref model.ItemRef, published bool) error {
	if item, ok := r.items[ref]; ok {
		item.Published = published
	}
	return nil
}

type fakeOptionsRepo struct {
	opts map[model.ItemRef]model.CommentOptions
}

func newFakeOptionsRepo() *fakeOptionsRepo {
	return &fakeOptionsRepo{opts: make(map[model.ItemRef]model.CommentOptions)}
}

func (r *fakeOptionsRepo) GetForObject(ctx context.Context, ref model.ItemRef) (*model.CommentOptions, error) {
	opts, ok := r.opts[ref]
	if !ok {
		return nil, nil
	}
	return &opts, nil
}

func (r *fakeOptionsRepo) SetForObject(ctx context.Context, ref model.ItemRef, opts model.CommentOptions) error {
	r.opts[ref] = opts
	return nil
}

type fakeUserCacheRepo struct {
	users map[uuid.UUID]*model.CachedUser
}

func newFakeUserCacheRepo() *fakeUserCacheRepo {
	return &fakeUserCacheRepo{users: make(map[uuid.UUID]*model.CachedUser)}
}

func (r *fakeUserCacheRepo) Create(ctx context.Context, cachedUser model.CachedUser) error {
	stored := cachedUser
	r.users[cachedUser.ID] = &stored
	return nil
}

func (r *fakeUserCacheRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	for field, value := range updates {
		v, _ := value.(string)
		switch field {
		case "username":
			user.Username = v
		case "display_name":
			user.DisplayName = v
		case "avatar_url":
			user.AvatarURL = v
		default:
			return postgres.ErrFieldsNotAllowedToUpdate
		}
	}
	return nil
}

func (r *fakeUserCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

var errStoreUnavailable = errors.New("aggregate store unavailable")

// failingStore simulates an unreachable aggregate store: every read and
// write errors. Cached reads must degrade to postgres; synchronizer
// writes must propagate the failure.
type failingStore struct {
	aggregate.Store
}

func (s failingStore) GetInt(ctx context.Context, key string) (int64, error) {
	return 0, errStoreUnavailable
}

func (s failingStore) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	return 0, errStoreUnavailable
}

func (s failingStore) DecrFloor(ctx context.Context, key string) (int64, error) {
	return 0, errStoreUnavailable
}

func (s failingStore) GetHash(ctx context.Context, key string) (map[string]string, error) {
	return nil, errStoreUnavailable
}

func (s failingStore) GetString(ctx context.Context, key string) (string, bool, error) {
	return "", false, errStoreUnavailable
}

func (s failingStore) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return errStoreUnavailable
}

func (s failingStore) Batch() aggregate.Batch {
	return failingBatch{}
}

type failingBatch struct{}

func (failingBatch) Incr(key string)                                 {}
func (failingBatch) Set(key string, value string)                    {}
func (failingBatch) HSet(key string, fields map[string]string)       {}
func (failingBatch) Del(keys ...string)                              {}
func (failingBatch) ZAdd(key string, score float64, member string)   {}
func (failingBatch) ZRem(key string, member string)                  {}
func (failingBatch) ZIncrBy(key string, incr float64, member string) {}
func (failingBatch) Exec(ctx context.Context) error                  { return errStoreUnavailable }

// testEnv wires the services over the in-memory aggregate store and the
// fake relational repos, the same way cmd/app wires the real ones.
type testEnv struct {
	store    aggregate.Store
	comments *fakeCommentRepo
	items    *fakeItemRepo
	options  *fakeOptionsRepo
	users    *fakeUserCacheRepo
	repo     *repository.Repository
	rankings Rankings
	sync     Sync
	events   *Events
	opts     Options
	svc      Comments
}

func newTestEnv() *testEnv {
	return newTestEnvWithStore(aggregate.NewMemory())
}

func newTestEnvWithStore(store aggregate.Store) *testEnv {
	logger := zap.NewNop()
	commentRepo := newFakeCommentRepo()
	itemRepo := newFakeItemRepo()
	optionsRepo := newFakeOptionsRepo()
	userRepo := newFakeUserCacheRepo()

	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Comment:        commentRepo,
			Item:           itemRepo,
			CommentOptions: optionsRepo,
			UserCache:      userRepo,
		},
		Redis:     redisrepo.New(store),
		Aggregate: store,
	}

	rankings := newRankingsService(logger, repo, AllRankingScopes())
	sync := newSyncService(logger, repo, rankings)
	events := newEvents(logger, sync)
	options := newOptionsService(logger, repo)

	return &testEnv{
		store:    store,
		comments: commentRepo,
		items:    itemRepo,
		options:  optionsRepo,
		users:    userRepo,
		repo:     repo,
		rankings: rankings,
		sync:     sync,
		events:   events,
		opts:     options,
		svc:      newCommentsService(logger, repo, options, events),
	}
}

func (e *testEnv) addItem(ref model.ItemRef, category int64, published bool) *model.Item {
	item := &model.Item{Ref: ref, CategoryID: category, Published: published}
	e.items.items[ref] = item
	return item
}

// postComment persists a visible comment and runs the created event, the
// same path a posted comment takes in production.
func (e *testEnv) postComment(ctx context.Context, ref model.ItemRef, parentID *int64, submitDate time.Time) *model.Comment {
	created, err := e.comments.Create(ctx, model.Comment{
		Item:       ref,
		ParentID:   parentID,
		UserName:   "tester",
		Content:    "hello",
		SubmitDate: submitDate,
		IsPublic:   true,
	})
	if err != nil {
		panic(err)
	}
	if err := e.events.CommentPosted(ctx, created); err != nil {
		panic(err)
	}
	return created
}
