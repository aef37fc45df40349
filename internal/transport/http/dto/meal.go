package dto

// DeleteMealRequest is the pass-key-protected admin action payload.
type DeleteMealRequest struct {
	ID      int64  `json:"id" validate:"required"`
	PassKey string `json:"pass_key" validate:"required"`
}

type MealResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Image        string `json:"image"`
	Summary      string `json:"summary"`
	Instructions string `json:"instructions"`
	Creator      string `json:"creator"`
	CreatorEmail string `json:"creator_email"`
}

type MealListResponse struct {
	Meals []MealResponse `json:"meals"`
	Total int            `json:"total"`
}
