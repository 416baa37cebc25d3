package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// StoryRecord is a story as it travels over the wire.
type StoryRecord struct {
	StoryID   string    `json:"storyId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Story is one submitted link. Values are immutable once built; a Story with
// a given StoryID denotes the same logical story in every collection, so
// collections compare by StoryID and never by position or pointer.
type Story struct {
	StoryID   string
	Author    string
	Title     string
	URL       string
	Username  string // owner
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStory builds a Story from a remote record. Records missing any field the
// client reconciles on are rejected with ErrMalformedRecord.
func NewStory(rec StoryRecord) (Story, error) {
	var missing []string
	if rec.StoryID == "" {
		missing = append(missing, "storyId")
	}
	if rec.Author == "" {
		missing = append(missing, "author")
	}
	if rec.Title == "" {
		missing = append(missing, "title")
	}
	if rec.URL == "" {
		missing = append(missing, "url")
	}
	if rec.Username == "" {
		missing = append(missing, "username")
	}
	if rec.CreatedAt.IsZero() {
		missing = append(missing, "createdAt")
	}
	if len(missing) > 0 {
		return Story{}, fmt.Errorf("%w: story %q missing %s",
			ErrMalformedRecord, rec.StoryID, strings.Join(missing, ", "))
	}
	if err := ValidURL(rec.URL); err != nil {
		return Story{}, fmt.Errorf("%w: story %q: %v", ErrMalformedRecord, rec.StoryID, err)
	}

	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = rec.CreatedAt
	}
	return Story{
		StoryID:   rec.StoryID,
		Author:    rec.Author,
		Title:     rec.Title,
		URL:       rec.URL,
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: updated,
	}, nil
}

// Record converts s back to its wire form.
func (s Story) Record() StoryRecord {
	return StoryRecord{
		StoryID:   s.StoryID,
		Author:    s.Author,
		Title:     s.Title,
		URL:       s.URL,
		Username:  s.Username,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// Hostname returns the host part of the story URL, as shown next to titles.
func (s Story) Hostname() string {
	u, err := url.Parse(s.URL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Draft is the payload for a story that does not exist yet.
type Draft struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// Validate reports ErrValidationRejected for drafts the API would refuse.
func (d Draft) Validate() error {
	switch {
	case strings.TrimSpace(d.Author) == "":
		return fmt.Errorf("%w: author is required", ErrValidationRejected)
	case strings.TrimSpace(d.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidationRejected)
	}
	if err := ValidURL(d.URL); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationRejected, err)
	}
	return nil
}

// StoryPatch carries only the fields to change; nil fields are left as they
// are on the server.
type StoryPatch struct {
	Author *string `json:"author,omitempty"`
	Title  *string `json:"title,omitempty"`
	URL    *string `json:"url,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p StoryPatch) Empty() bool {
	return p.Author == nil && p.Title == nil && p.URL == nil
}

// Validate rejects empty patches, blank values and malformed URLs.
func (p StoryPatch) Validate() error {
	if p.Empty() {
		return fmt.Errorf("%w: nothing to update", ErrValidationRejected)
	}
	if p.Author != nil && strings.TrimSpace(*p.Author) == "" {
		return fmt.Errorf("%w: author cannot be blank", ErrValidationRejected)
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be blank", ErrValidationRejected)
	}
	if p.URL != nil {
		if err := ValidURL(*p.URL); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationRejected, err)
		}
	}
	return nil
}

// ValidURL accepts absolute http(s) URLs with a host and no surrounding
// whitespace.
func ValidURL(raw string) error {
	if raw != strings.TrimSpace(raw) {
		return fmt.Errorf("url %q has surrounding whitespace", raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
