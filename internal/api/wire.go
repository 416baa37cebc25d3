package api

import "hackorsnooze/internal/domain"

// Response envelopes.

type storyEnvelope struct {
	Story *domain.StoryRecord `json:"story"`
}

type storiesEnvelope struct {
	Stories []domain.StoryRecord `json:"stories"`
}

type userEnvelope struct {
	User *domain.UserRecord `json:"user"`
}

type authEnvelope struct {
	User  *domain.UserRecord `json:"user"`
	Token string             `json:"token"`
}

type errorEnvelope struct {
	Error struct {
		Status  int    `json:"status"`
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}

// Request bodies.

type tokenBody struct {
	Token string `json:"token"`
}

type storyBody struct {
	Token string `json:"token"`
	Story any    `json:"story"`
}

type signupBody struct {
	User domain.Signup `json:"user"`
}

type loginBody struct {
	User struct {
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"user"`
}

type profileFields struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

type profileBody struct {
	Token string        `json:"token"`
	User  profileFields `json:"user"`
}
