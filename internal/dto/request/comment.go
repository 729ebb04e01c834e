package request

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=200"`
}

type UpdateCommentRequest struct {
	Text *string `json:"text,omitempty" validate:"omitempty,min=1,max=200"`
}
