package imagefile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mealshare/internal/lib/imagefile"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		mediaType string
		converted bool
		want      string
	}{
		{"heic conversion hint wins", "photo.heic", "image/heic", true, "jpg"},
		{"hint beats recognized extension", "photo.png", "image/png", true, "jpg"},
		{"recognized extension", "tacos.PNG", "image/jpeg", false, "png"},
		{"jpeg extension", "tacos.jpg", "image/jpeg", false, "jpg"},
		{"webp extension", "tacos.webp", "image/webp", false, "webp"},
		{"unknown extension falls back to media type", "upload.bin", "image/png", false, "png"},
		{"no extension falls back to media type", "upload", "image/webp", false, "webp"},
		{"unknown everything falls back to jpg", "upload.bin", "application/octet-stream", false, "jpg"},
		{"empty filename", "", "", false, "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := imagefile.Extension(tt.filename, tt.mediaType, tt.converted)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "spicy-tacos.jpeg", imagefile.Filename("spicy-tacos", "IMG_0001.jpeg", "image/jpeg", false))
	assert.Equal(t, "spicy-tacos.jpg", imagefile.Filename("spicy-tacos", "IMG_0001.heic", "image/heic", true))
}

func TestAllowedMediaTypes(t *testing.T) {
	assert.True(t, imagefile.AllowedMediaTypes["image/jpeg"])
	assert.True(t, imagefile.AllowedMediaTypes["image/png"])
	assert.True(t, imagefile.AllowedMediaTypes["image/webp"])
	assert.False(t, imagefile.AllowedMediaTypes["image/heic"])
}
