package feed

import (
	"strings"
	"testing"
)

func TestBuildArticleContent(t *testing.T) {
	article := Article{
		ID:      "1",
		Title:   "  Shooting in fog  ",
		Summary: "Why fog flattens contrast.",
		Tags:    []string{"fog", " mood ", ""},
		Content: "Fog scatters light in every direction.",
	}

	got := buildArticleContent(article)
	want := "# Shooting in fog\n\n" +
		"## Summary\n\nWhy fog flattens contrast.\n\n" +
		"## Tags\n\nfog, mood\n\n" +
		"Fog scatters light in every direction."
	if got != want {
		t.Errorf("buildArticleContent() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildArticleContentOmitsEmptySections(t *testing.T) {
	got := buildArticleContent(Article{ID: "1", Title: "Bare", Content: "body"})
	if strings.Contains(got, "## Summary") || strings.Contains(got, "## Tags") {
		t.Errorf("empty sections should be omitted, got:\n%s", got)
	}
	if got != "# Bare\n\nbody" {
		t.Errorf("buildArticleContent() = %q", got)
	}
}

func TestBuildPhotoContent(t *testing.T) {
	photo := Photo{
		ID:           "9",
		Title:        "Harbor at dusk",
		Description:  "Long exposure over the pier.",
		Tags:         []string{"harbor", "dusk"},
		Location:     "Keelung",
		Camera:       "X-T5",
		Lens:         "23mm f/2",
		ISO:          125,
		Aperture:     "f/8",
		ShutterSpeed: "30s",
		FocalLength:  "23mm",
	}

	got := buildPhotoContent(photo)
	want := "# Harbor at dusk\n\n" +
		"Long exposure over the pier.\n\n" +
		"## Tags\n\nharbor, dusk\n\n" +
		"## Shooting parameters\n\n" +
		"Location: Keelung\n" +
		"Camera: X-T5\n" +
		"Lens: 23mm f/2\n" +
		"ISO: 125\n" +
		"Aperture: f/8\n" +
		"Shutter speed: 30s\n" +
		"Focal length: 23mm"
	if got != want {
		t.Errorf("buildPhotoContent() =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildPhotoContentSkipsZeroISO(t *testing.T) {
	got := buildPhotoContent(Photo{ID: "9", Title: "No exif", Camera: "X100V"})
	if strings.Contains(got, "ISO") {
		t.Errorf("zero ISO should be omitted, got:\n%s", got)
	}
	if !strings.Contains(got, "Camera: X100V") {
		t.Errorf("camera line missing, got:\n%s", got)
	}
}

func TestBuildPhotoContentTitleOnly(t *testing.T) {
	got := buildPhotoContent(Photo{ID: "9", Title: "Plain"})
	if got != "# Plain" {
		t.Errorf("buildPhotoContent() = %q, want %q", got, "# Plain")
	}
}
