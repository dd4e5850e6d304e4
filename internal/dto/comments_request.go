package dto

type CreateCommentDto struct {
	ParentID *int64 `json:"parent_id"`
	Content  string `json:"content" binding:"required,min=1"`
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	URL      string `json:"url" binding:"omitempty,url"`
}

type EditCommentDto struct {
	Content string `json:"content" binding:"required,min=1"`
}

type ModerateCommentDto struct {
	IsPublic  *bool `json:"is_public" binding:"required"`
	IsRemoved *bool `json:"is_removed" binding:"required"`
}

type SetCommentOptionsDto struct {
	Blocked      bool `json:"blocked"`
	Premoderated bool `json:"premoderated"`
}
