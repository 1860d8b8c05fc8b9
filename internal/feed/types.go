package feed

import "fmt"

// Article is one entry of the paginated article feed.
type Article struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Content string   `json:"content"`
}

// Photo is one entry of the photo feed, including its shooting parameters.
type Photo struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Location     string   `json:"location,omitempty"`
	Camera       string   `json:"camera,omitempty"`
	Lens         string   `json:"lens,omitempty"`
	ISO          int      `json:"iso,omitempty"`
	Aperture     string   `json:"aperture,omitempty"`
	ShutterSpeed string   `json:"shutter_speed,omitempty"`
	FocalLength  string   `json:"focal_length,omitempty"`
}

type articlesResponse struct {
	Items []Article `json:"items"`
}

type photosResponse struct {
	Items []Photo `json:"items"`
}

// FetchError reports a failed feed request. Feed failures are fatal to a
// sync pass: with an unknown remaining set, deletion reconciliation would
// remove documents that still exist remotely.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("feed request %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("feed request %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
