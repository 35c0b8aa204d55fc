package omeka

import (
	"strings"

	"github.com/localnerve/itemsetgroup/internal/models"
)

// Thumbnail rendition names the host generates for media
const (
	RenditionLarge  = "large"
	RenditionMedium = "medium"
	RenditionSquare = "square"
)

// Files builds public URLs for files stored by the host
type Files struct {
	BaseURL string
}

// MediaThumbnail returns the URL of a media rendition, or "" when the media
// has no generated thumbnails.
func (f Files) MediaThumbnail(m *models.Media, rendition string) string {
	if m == nil || !m.HasThumbnails || m.StorageID == nil || *m.StorageID == "" {
		return ""
	}
	return f.BaseURL + "/" + rendition + "/" + *m.StorageID + ".jpg"
}

// AssetURL returns the URL of an uploaded asset
func (f Files) AssetURL(a *models.Asset) string {
	if a == nil || a.StorageID == "" {
		return ""
	}
	name := a.StorageID
	if a.Extension != nil && *a.Extension != "" {
		name += "." + strings.TrimPrefix(*a.Extension, ".")
	}
	return f.BaseURL + "/asset/" + name
}
