package models

import (
	"fmt"
	"io"
)

// Meal представляет рецепт, опубликованный сообществом
type Meal struct {
	ID           int64  `json:"id" db:"id"`
	Title        string `json:"title" db:"title"`
	Slug         string `json:"slug" db:"slug"`
	Image        string `json:"image" db:"image"`
	Summary      string `json:"summary" db:"summary"`
	Instructions string `json:"instructions" db:"instructions"`
	Creator      string `json:"creator" db:"creator"`
	CreatorEmail string `json:"creator_email" db:"creator_email"`
	IsDeleted    bool   `json:"-" db:"is_deleted"`
}

// ImageUpload carries the raw image payload of one submission.
type ImageUpload struct {
	Content   io.Reader
	Filename  string
	MediaType string
	Size      int64
	// ConvertedFromHEIC is set when the client converted the original
	// HEIC/HEIF file to JPEG before upload. The stored filename must be
	// derived as .jpg regardless of the original name.
	ConvertedFromHEIC bool
}

// MealFormData существует только на время одной отправки формы
type MealFormData struct {
	Title        string
	Summary      string
	Instructions string
	Creator      string
	CreatorEmail string
	Image        ImageUpload
}

// ValidationErrors maps a form field to a human-readable message.
// An empty map means the form is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(v))
}
