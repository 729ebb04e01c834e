package request

type CreateReviewRequest struct {
	Text  string `json:"text" validate:"required,min=1,max=200"`
	Score *int   `json:"score" validate:"required,min=0,max=10"`
}

type UpdateReviewRequest struct {
	Text  *string `json:"text,omitempty" validate:"omitempty,min=1,max=200"`
	Score *int    `json:"score,omitempty" validate:"omitempty,min=0,max=10"`
}
