package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PATH_DIGITS is the zero-padded width of a single tree path segment.
const PATH_DIGITS = 10

// PATH_SEPARATOR joins tree path segments, so a prefix match over the
// whole path selects a subtree.
const PATH_SEPARATOR = "/"

type Comment struct {
	ID         int64      `json:"id"`
	Item       ItemRef    `json:"item"`
	ParentID   *int64     `json:"parent_id"`
	TreePath   string     `json:"tree_path"`
	UserID     *uuid.UUID `json:"user_id"`
	UserName   string     `json:"user_name"`
	UserEmail  string     `json:"user_email"`
	Content    string     `json:"content"`
	URL        string     `json:"url"`
	SubmitDate time.Time  `json:"submit_date"`
	IsPublic   bool       `json:"is_public"`
	IsRemoved  bool       `json:"is_removed"`
}

func (c *Comment) Visible() bool {
	return c.IsPublic && !c.IsRemoved
}

func (c *Comment) Publicity() Publicity {
	return Publicity{IsPublic: c.IsPublic, IsRemoved: c.IsRemoved}
}

// ThreadPath returns the top-level thread identifier: the first segment
// of the comment's tree path.
func (c *Comment) ThreadPath() string {
	if len(c.TreePath) <= PATH_DIGITS {
		return c.TreePath
	}
	return c.TreePath[:PATH_DIGITS]
}

// ZeroPadPath pads a raw branch id to a full-width path segment so it can
// be used as a tree path prefix.
func ZeroPadPath(id string) string {
	if len(id) >= PATH_DIGITS {
		return id
	}
	return strings.Repeat("0", PATH_DIGITS-len(id)) + id
}
