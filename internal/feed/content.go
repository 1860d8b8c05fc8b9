package feed

import (
	"fmt"
	"strings"
)

// buildArticleContent renders an article as the markdown-like text that gets
// chunked and embedded: title heading, then summary, tags, and body as
// blocks joined by blank lines. Empty sections are omitted.
func buildArticleContent(a Article) string {
	sections := []string{"# " + strings.TrimSpace(a.Title)}

	if summary := strings.TrimSpace(a.Summary); summary != "" {
		sections = append(sections, "## Summary\n\n"+summary)
	}
	if tags := joinTags(a.Tags); tags != "" {
		sections = append(sections, "## Tags\n\n"+tags)
	}
	if body := strings.TrimSpace(a.Content); body != "" {
		sections = append(sections, body)
	}
	return strings.Join(sections, "\n\n")
}

// buildPhotoContent renders a photo's metadata as embeddable text: title,
// description, tags, and a flattened shooting-parameters block. Each
// parameter appears only when meaningful.
func buildPhotoContent(p Photo) string {
	sections := []string{"# " + strings.TrimSpace(p.Title)}

	if desc := strings.TrimSpace(p.Description); desc != "" {
		sections = append(sections, desc)
	}
	if tags := joinTags(p.Tags); tags != "" {
		sections = append(sections, "## Tags\n\n"+tags)
	}

	var params []string
	addParam := func(label, value string) {
		if v := strings.TrimSpace(value); v != "" {
			params = append(params, label+": "+v)
		}
	}
	addParam("Location", p.Location)
	addParam("Camera", p.Camera)
	addParam("Lens", p.Lens)
	if p.ISO > 0 {
		params = append(params, fmt.Sprintf("ISO: %d", p.ISO))
	}
	addParam("Aperture", p.Aperture)
	addParam("Shutter speed", p.ShutterSpeed)
	addParam("Focal length", p.FocalLength)

	if len(params) > 0 {
		sections = append(sections, "## Shooting parameters\n\n"+strings.Join(params, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func joinTags(tags []string) string {
	var kept []string
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ", ")
}
