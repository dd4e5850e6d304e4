package redisrepo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BloggingApp/comment-service/internal/model"
)

const (
	COMMENT_COUNT_KEY        = "comcount:pub:%d:%s"           // <contentTypeID>:<objectPK>
	LAST_COMMENT_KEY         = "lastcom:pub:%d:%s"            // <contentTypeID>:<objectPK>
	COMMENT_LIST_KEY         = "comments:list:%d:%s:%s:%s:%s" // <contentTypeID>:<objectPK>:<flags>:<ids>:<slice>
	FILTERED_COUNT_KEY       = "comments:count:%d:%s:%s"      // <contentTypeID>:<objectPK>:<ids>
	RANKING_CATEGORY_KEY     = "%s:cat:%d"                    // <policyPrefix>:<categoryID>
	RANKING_CONTENT_TYPE_KEY = "%s:ct:%d"                     // <policyPrefix>:<contentTypeID>
	RANKING_GLOBAL_KEY       = "%s:all"                       // <policyPrefix>
)

func CommentCountKey(ref model.ItemRef) string {
	return fmt.Sprintf(COMMENT_COUNT_KEY, ref.ContentTypeID, ref.ObjectPK)
}

func LastCommentKey(ref model.ItemRef) string {
	return fmt.Sprintf(LAST_COMMENT_KEY, ref.ContentTypeID, ref.ObjectPK)
}

func CommentListKey(ref model.ItemRef, reverse, group, flat bool, ids []string, start, stop *int) string {
	flags := fmt.Sprintf("%d:%d:%d", boolBit(reverse), boolBit(group), boolBit(flat))
	return fmt.Sprintf(COMMENT_LIST_KEY, ref.ContentTypeID, ref.ObjectPK, flags, joinSorted(ids), sliceBounds(start, stop))
}

func FilteredCountKey(ref model.ItemRef, ids []string) string {
	return fmt.Sprintf(FILTERED_COUNT_KEY, ref.ContentTypeID, ref.ObjectPK, joinSorted(ids))
}

func RankingCategoryKey(policyPrefix string, categoryID int64) string {
	return fmt.Sprintf(RANKING_CATEGORY_KEY, policyPrefix, categoryID)
}

func RankingContentTypeKey(policyPrefix string, contentTypeID int64) string {
	return fmt.Sprintf(RANKING_CONTENT_TYPE_KEY, policyPrefix, contentTypeID)
}

func RankingGlobalKey(policyPrefix string) string {
	return fmt.Sprintf(RANKING_GLOBAL_KEY, policyPrefix)
}

func boolBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinSorted(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func sliceBounds(start, stop *int) string {
	s, e := "", ""
	if start != nil {
		s = fmt.Sprint(*start)
	}
	if stop != nil {
		e = fmt.Sprint(*stop)
	}
	return s + ":" + e
}
