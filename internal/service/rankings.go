package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/repository"
	"github.com/BloggingApp/comment-service/internal/repository/redisrepo"
	"go.uber.org/zap"
)

type Policy string

const (
	MostCommented Policy = "most_commented"
	LastCommented Policy = "last_commented"
)

// policies are everything this service maintains; retraction sweeps all
// of them regardless of which ones currently hold a score for the item.
var policies = []Policy{MostCommented, LastCommented}

func (p Policy) prefix() (string, error) {
	switch p {
	case MostCommented:
		return "comcount", nil
	case LastCommented:
		return "lastcom", nil
	default:
		return "", ErrUnsupportedPolicy
	}
}

// ParsePolicy resolves a policy name from a caller. Names that would need
// query-time windowing (e.g. a sliding recently-commented variant) are
// not maintained here and fail fast instead of returning partial results.
func ParsePolicy(s string) (Policy, error) {
	p := Policy(s)
	if _, err := p.prefix(); err != nil {
		return "", err
	}
	return p, nil
}

const (
	ScopeCategory    = "category"
	ScopeContentType = "content_type"
	ScopeGlobal      = "global"
)

type Scope struct {
	Kind string
	ID   int64
}

// RankingScopes selects which scope sets the synchronizer maintains.
type RankingScopes struct {
	Category    bool
	ContentType bool
	Global      bool
}

func AllRankingScopes() RankingScopes {
	return RankingScopes{Category: true, ContentType: true, Global: true}
}

type RankedItem struct {
	Ref   model.ItemRef `json:"ref"`
	Score float64       `json:"score"`
}

type rankingsService struct {
	logger *zap.Logger
	repo   *repository.Repository
	scopes RankingScopes
}

func newRankingsService(logger *zap.Logger, repo *repository.Repository, scopes RankingScopes) Rankings {
	return &rankingsService{
		logger: logger,
		repo:   repo,
		scopes: scopes,
	}
}

func (s *rankingsService) scopeKeys(prefix string, item *model.Item) []string {
	var keys []string
	if s.scopes.Category {
		keys = append(keys, redisrepo.RankingCategoryKey(prefix, item.CategoryID))
	}
	if s.scopes.ContentType {
		keys = append(keys, redisrepo.RankingContentTypeKey(prefix, item.Ref.ContentTypeID))
	}
	if s.scopes.Global {
		keys = append(keys, redisrepo.RankingGlobalKey(prefix))
	}
	return keys
}

// Republish writes the item's current scores into every configured scope
// of every policy in one batch. An item with no comments gets a zero
// most-commented score rather than no entry; the last-commented policy is
// skipped when no snapshot exists.
func (s *rankingsService) Republish(ctx context.Context, item *model.Item) error {
	cnt, err := s.repo.Aggregate.GetInt(ctx, redisrepo.CommentCountKey(item.Ref))
	if err != nil {
		return err
	}
	lastcom, err := s.repo.Aggregate.GetHash(ctx, redisrepo.LastCommentKey(item.Ref))
	if err != nil {
		return err
	}

	member := item.Ref.Member()
	batch := s.repo.Aggregate.Batch()

	for _, policy := range policies {
		prefix, err := policy.prefix()
		if err != nil {
			return err
		}

		var score float64
		switch policy {
		case MostCommented:
			score = float64(cnt)
		case LastCommented:
			if len(lastcom) == 0 {
				continue
			}
			score, err = model.TimestampScore(lastcom["submit_date"])
			if err != nil {
				return err
			}
		}

		for _, key := range s.scopeKeys(prefix, item) {
			batch.ZAdd(key, score, member)
		}
	}

	return batch.Exec(ctx)
}

// Retract drops the item from every scope of every policy in one batch,
// regardless of current scores.
func (s *rankingsService) Retract(ctx context.Context, item *model.Item) error {
	member := item.Ref.Member()
	batch := s.repo.Aggregate.Batch()

	for _, policy := range policies {
		prefix, err := policy.prefix()
		if err != nil {
			return err
		}
		for _, key := range s.scopeKeys(prefix, item) {
			batch.ZRem(key, member)
		}
	}

	return batch.Exec(ctx)
}

func (s *rankingsService) Top(ctx context.Context, policy Policy, scope Scope, start, stop int64) ([]RankedItem, error) {
	prefix, err := policy.prefix()
	if err != nil {
		return nil, err
	}

	var key string
	switch scope.Kind {
	case ScopeCategory:
		key = redisrepo.RankingCategoryKey(prefix, scope.ID)
	case ScopeContentType:
		key = redisrepo.RankingContentTypeKey(prefix, scope.ID)
	case ScopeGlobal:
		key = redisrepo.RankingGlobalKey(prefix)
	default:
		return nil, ErrUnknownScope
	}

	members, err := s.repo.Aggregate.ZRevRange(ctx, key, start, stop)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read ranking %s: %s", key, err.Error())
		return nil, ErrInternal
	}

	ranked := make([]RankedItem, 0, len(members))
	for _, m := range members {
		ref, err := parseMember(m.Member)
		if err != nil {
			s.logger.Sugar().Errorf("malformed ranking member %q in %s: %s", m.Member, key, err.Error())
			continue
		}
		ranked = append(ranked, RankedItem{Ref: ref, Score: m.Score})
	}
	return ranked, nil
}

func parseMember(member string) (model.ItemRef, error) {
	ctStr, pk, ok := strings.Cut(member, ":")
	if !ok {
		return model.ItemRef{}, ErrInternal
	}
	ct, err := strconv.ParseInt(ctStr, 10, 64)
	if err != nil {
		return model.ItemRef{}, err
	}
	return model.ItemRef{ContentTypeID: ct, ObjectPK: pk}, nil
}
