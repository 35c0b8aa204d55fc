// Package iiif builds IIIF Image API request URLs from image service descriptors.
package iiif

import (
	"strconv"
	"strings"
)

// Mode selects the region and size of a thumbnail request
type Mode string

const (
	// ModeSquare requests a centered square crop
	ModeSquare Mode = "square"
	// ModeFull requests the full region scaled to fit a bounding box
	ModeFull Mode = "full"
)

// ParseMode reads a theme setting value, defaulting to ModeSquare
func ParseMode(s string) Mode {
	if Mode(strings.ToLower(strings.TrimSpace(s))) == ModeFull {
		return ModeFull
	}
	return ModeSquare
}

// Descriptor identifies a media's image service
type Descriptor struct {
	ID     string
	Width  int
	Height int
}

// BaseURL strips a trailing info.json document, and the slash before it,
// from a service identifier.
func BaseURL(id string) string {
	base := strings.TrimSpace(id)
	base = strings.TrimSuffix(base, "info.json")
	return strings.TrimRight(base, "/")
}

// SquareURL requests a square crop of size pixels. Images with both stored
// dimensions under size are cropped to their smaller side instead of being
// upscaled.
func SquareURL(d Descriptor, size int) string {
	base := BaseURL(d.ID)
	if base == "" {
		return ""
	}
	if d.Width > 0 && d.Height > 0 && d.Width < size && d.Height < size {
		m := strconv.Itoa(min(d.Width, d.Height))
		return base + "/square/" + m + "," + m + "/0/default.jpg"
	}
	return base + "/square/" + strconv.Itoa(size) + ",/0/default.jpg"
}

// BestFitURL requests the full region scaled to fit within size×size
func BestFitURL(d Descriptor, size int) string {
	base := BaseURL(d.ID)
	if base == "" {
		return ""
	}
	s := strconv.Itoa(size)
	return base + "/full/!" + s + "," + s + "/0/default.jpg"
}

// URL builds the request for mode
func URL(d Descriptor, mode Mode, size int) string {
	if mode == ModeFull {
		return BestFitURL(d, size)
	}
	return SquareURL(d, size)
}
