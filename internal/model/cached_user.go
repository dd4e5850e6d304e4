package model

import "github.com/google/uuid"

// CachedUser is a local replica of the user service's account data, kept
// fresh via MQ so comment listings can show author info without a
// cross-service call.
type CachedUser struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url"`
}

func (u *CachedUser) Display() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
