// Package imagefile resolves stored filenames for uploaded meal images.
package imagefile

import (
	"path"
	"strings"
)

const fallbackExtension = "jpg"

// AllowedMediaTypes are the declared media types accepted for upload.
// HEIC/HEIF originals are converted to JPEG on the client, so they never
// reach the server under their own media type.
var AllowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var recognizedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

var mediaTypeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Extension picks the stored file extension for an upload.
// Priority: converted-from-HEIC hint, recognized extension of the original
// filename, extension mapped from the declared media type, then "jpg".
func Extension(filename, mediaType string, convertedFromHEIC bool) string {
	if convertedFromHEIC {
		return fallbackExtension
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if recognizedExtensions[ext] {
		return ext
	}

	if ext, ok := mediaTypeExtensions[strings.ToLower(mediaType)]; ok {
		return ext
	}

	return fallbackExtension
}

// Filename derives the stored object name as <slug>.<ext>.
func Filename(slug, originalName, mediaType string, convertedFromHEIC bool) string {
	return slug + "." + Extension(originalName, mediaType, convertedFromHEIC)
}
