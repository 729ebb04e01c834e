package request

// TitleRequest creates a title. Genre and category are given by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=256"`
	Year        *int     `json:"year" validate:"required,min=0,notfuture"`
	Description string   `json:"description,omitempty"`
	Genre       []string `json:"genre,omitempty"`
	Category    string   `json:"category" validate:"required"`
}

// TitleUpdateRequest is a partial update. A present genre list replaces
// the whole set.
type TitleUpdateRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Year        *int      `json:"year,omitempty" validate:"omitempty,min=0,notfuture"`
	Description *string   `json:"description,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
	Category    *string   `json:"category,omitempty" validate:"omitempty,min=1"`
}

// TitleListRequest carries the list filters taken from the query string.
type TitleListRequest struct {
	PaginatedRequest
	Name     string
	Year     *int
	Genre    string
	Category string
}
