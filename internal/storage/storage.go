package storage

import "errors"

var (
	ErrUniqueViolation = errors.New("unique constraint violated")
	ErrDuplicateSlug   = errors.New("slug already exists")
	ErrSlugExhausted   = errors.New("slug attempts exhausted")
)
