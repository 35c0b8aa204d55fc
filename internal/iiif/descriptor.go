package iiif

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FromMediaData finds the image service in a media's stored data. The
// identifier is taken from "id", then "@id", then source when the media
// is rendered by the iiif renderer. ok is false when none is present.
func FromMediaData(data map[string]any, renderer, source string) (Descriptor, bool) {
	var d Descriptor
	for _, key := range []string{"id", "@id"} {
		if s, ok := data[key].(string); ok && strings.TrimSpace(s) != "" {
			d.ID = s
			break
		}
	}
	if d.ID == "" && renderer == "iiif" && strings.TrimSpace(source) != "" {
		d.ID = source
	}
	if d.ID == "" {
		return Descriptor{}, false
	}
	d.Width = dimension(data["width"])
	d.Height = dimension(data["height"])
	return d, true
}

func dimension(v any) int {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || n < 0 {
			return 0
		}
		return int(n)
	case json.Number:
		i, _ := strconv.Atoi(n.String())
		return i
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	}
	return 0
}
