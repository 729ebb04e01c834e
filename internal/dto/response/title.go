package response

import "review-catalog/internal/data/entity"

type TitleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Year        int               `json:"year"`
	Rating      *float64          `json:"rating"`
	Description string            `json:"description"`
	Genre       []GenreResponse   `json:"genre"`
	Category    *CategoryResponse `json:"category"`
}

// TitleToResponse renders the read form, also returned after writes.
func TitleToResponse(title *entity.Title) TitleResponse {
	genres := make([]GenreResponse, len(title.Genres))
	for i, g := range title.Genres {
		genres[i] = GenreToResponse(g)
	}

	var category *CategoryResponse
	if title.Category != nil {
		c := CategoryToResponse(title.Category)
		category = &c
	}

	return TitleResponse{
		ID:          title.ID.String(),
		Name:        title.Name,
		Year:        title.Year,
		Rating:      title.Rating,
		Description: title.Description,
		Genre:       genres,
		Category:    category,
	}
}
