package iiif

import "testing"

func TestBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://img.example.org/iiif/3/abc/info.json", "https://img.example.org/iiif/3/abc"},
		{"https://img.example.org/iiif/3/abc/", "https://img.example.org/iiif/3/abc"},
		{"https://img.example.org/iiif/3/abc", "https://img.example.org/iiif/3/abc"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := BaseURL(tt.in); got != tt.want {
			t.Errorf("BaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSquareURL(t *testing.T) {
	base := "https://img.example.org/iiif/abc/info.json"
	tests := []struct {
		name string
		d    Descriptor
		size int
		want string
	}{
		{"small image crops to smaller side", Descriptor{ID: base, Width: 50, Height: 80}, 800, "https://img.example.org/iiif/abc/square/50,50/0/default.jpg"},
		{"large image", Descriptor{ID: base, Width: 4000, Height: 3000}, 800, "https://img.example.org/iiif/abc/square/800,/0/default.jpg"},
		{"one side over size", Descriptor{ID: base, Width: 900, Height: 80}, 800, "https://img.example.org/iiif/abc/square/800,/0/default.jpg"},
		{"unknown dimensions", Descriptor{ID: base}, 400, "https://img.example.org/iiif/abc/square/400,/0/default.jpg"},
		{"no identifier", Descriptor{Width: 10, Height: 10}, 400, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SquareURL(tt.d, tt.size); got != tt.want {
				t.Errorf("SquareURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBestFitURL(t *testing.T) {
	d := Descriptor{ID: "https://img.example.org/iiif/abc/info.json", Width: 50, Height: 80}
	want := "https://img.example.org/iiif/abc/full/!800,800/0/default.jpg"
	if got := BestFitURL(d, 800); got != want {
		t.Errorf("BestFitURL() = %q, want %q", got, want)
	}
	if got := URL(d, ModeFull, 800); got != want {
		t.Errorf("URL(full) = %q, want %q", got, want)
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode(" Full ") != ModeFull {
		t.Error("expected full mode")
	}
	for _, s := range []string{"", "square", "bogus"} {
		if ParseMode(s) != ModeSquare {
			t.Errorf("ParseMode(%q) should default to square", s)
		}
	}
}

func TestFromMediaData(t *testing.T) {
	d, ok := FromMediaData(map[string]any{"@id": "https://x/iiif/1/info.json", "width": float64(50), "height": "80"}, "file", "")
	if !ok || d.ID != "https://x/iiif/1/info.json" || d.Width != 50 || d.Height != 80 {
		t.Fatalf("FromMediaData(@id) = %+v, %v", d, ok)
	}

	d, ok = FromMediaData(map[string]any{"id": "https://x/a", "@id": "https://x/b"}, "file", "")
	if !ok || d.ID != "https://x/a" {
		t.Errorf("id should win over @id, got %+v", d)
	}

	d, ok = FromMediaData(map[string]any{}, "iiif", "https://x/src/info.json")
	if !ok || d.ID != "https://x/src/info.json" {
		t.Errorf("iiif renderer should fall back to source, got %+v", d)
	}

	if _, ok = FromMediaData(map[string]any{}, "file", "https://x/src.jpg"); ok {
		t.Error("non-iiif media without a service should have no descriptor")
	}
}
