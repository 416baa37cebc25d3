package domain

import "context"

// StoryService is how we talk to the story endpoints of the backend.
type StoryService interface {
	ListStories(ctx context.Context) ([]StoryRecord, error)
	CreateStory(ctx context.Context, token string, draft Draft) (StoryRecord, error)
	UpdateStory(ctx context.Context, token, storyID string, patch StoryPatch) (StoryRecord, error)
	DeleteStory(ctx context.Context, token, storyID string) error
}

// AuthService is how we talk to the account endpoints of the backend.
type AuthService interface {
	Signup(ctx context.Context, in Signup) (AuthResult, error)
	Login(ctx context.Context, username, password string) (AuthResult, error)
	FetchProfile(ctx context.Context, token, username string) (UserRecord, error)
	UpdateProfile(ctx context.Context, token, username string, update ProfileUpdate) (UserRecord, error)

	// AddFavorite and RemoveFavorite return the user with its authoritative
	// favorites list.
	AddFavorite(ctx context.Context, token, username, storyID string) (UserRecord, error)
	RemoveFavorite(ctx context.Context, token, username, storyID string) (UserRecord, error)
}

// CredentialStore persists the (token, username) pair between runs.
type CredentialStore interface {
	SaveCredentials(ctx context.Context, creds Credentials) error
	// LoadCredentials returns ok=false when nothing is stored.
	LoadCredentials(ctx context.Context) (creds Credentials, ok bool, err error)
	ClearCredentials(ctx context.Context) error
}

// TokenSource is anything holding the current bearer token; an empty token
// means anonymous.
type TokenSource interface {
	Token() string
}
