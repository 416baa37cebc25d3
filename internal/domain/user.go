package domain

import "time"

// UserRecord is the user object returned by the auth endpoints. Favorites and
// Stories are only populated by login and profile lookups.
type UserRecord struct {
	Username  string        `json:"username"`
	Name      string        `json:"name"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Favorites []StoryRecord `json:"favorites,omitempty"`
	Stories   []StoryRecord `json:"stories,omitempty"`
}

// AuthResult is a user snapshot plus the bearer token issued for it.
type AuthResult struct {
	User  UserRecord
	Token string
}

// Signup is the payload for creating an account.
type Signup struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ProfileUpdate holds the two independent optional profile changes. Empty
// fields are not sent.
type ProfileUpdate struct {
	Name     string
	Password string
}

// Credentials is what the persistence collaborator keeps between runs.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Empty reports whether there is nothing to restore from.
func (c Credentials) Empty() bool { return c.Token == "" || c.Username == "" }
