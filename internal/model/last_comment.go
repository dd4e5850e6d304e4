package model

import (
	"math"
	"strconv"
	"time"
)

// LastComment is the per-item snapshot of the newest visible comment,
// stored as a hash in the aggregate store.
type LastComment struct {
	SubmitDate time.Time
	UserID     string
	UserName   string
	Content    string
	URL        string
}

func LastCommentOf(c *Comment) LastComment {
	userID := ""
	if c.UserID != nil {
		userID = c.UserID.String()
	}
	return LastComment{
		SubmitDate: c.SubmitDate,
		UserID:     userID,
		UserName:   c.UserName,
		Content:    c.Content,
		URL:        c.URL,
	}
}

func (l LastComment) Fields() map[string]string {
	return map[string]string{
		"submit_date": FormatTimestamp(l.SubmitDate),
		"user_id":     l.UserID,
		"username":    l.UserName,
		"comment":     l.Content,
		"url":         l.URL,
	}
}

func LastCommentFromFields(fields map[string]string) (*LastComment, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	submitDate, err := ParseTimestamp(fields["submit_date"])
	if err != nil {
		return nil, err
	}
	return &LastComment{
		SubmitDate: submitDate,
		UserID:     fields["user_id"],
		UserName:   fields["username"],
		Content:    fields["comment"],
		URL:        fields["url"],
	}, nil
}

// FormatTimestamp serializes a time as float seconds since epoch. The
// shortest round-trippable float64 representation is used, so fractional
// seconds survive a write/read cycle.
func FormatTimestamp(t time.Time) string {
	seconds := float64(t.UnixNano()) / float64(time.Second)
	return strconv.FormatFloat(seconds, 'g', -1, 64)
}

func ParseTimestamp(s string) (time.Time, error) {
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(math.Round(frac*float64(time.Second)))), nil
}

// TimestampScore is the ranking score of a serialized timestamp.
func TimestampScore(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
