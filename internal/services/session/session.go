package session

import (
	"context"
	"fmt"
	"time"

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
)

// Session is an authenticated user. After Logout it is anonymous and every
// mutation fails with domain.ErrUnauthenticated.
type Session struct {
	username  string
	name      string
	createdAt time.Time
	updatedAt time.Time
	token     string
	favorites domain.Stories
	own       domain.Stories

	auth    domain.AuthService
	stories domain.StoryService
	log     logger.Logger
}

var _ domain.TokenSource = (*Session)(nil)

// Token is the bearer token, or "" when anonymous. Safe on a nil Session.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool { return s.Token() != "" }

func (s *Session) Username() string     { return s.username }
func (s *Session) Name() string         { return s.name }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// Favorites returns a copy of the favorites, in server order.
func (s *Session) Favorites() domain.Stories { return s.favorites.Clone() }

// OwnStories returns a copy of the user's own stories, newest first.
func (s *Session) OwnStories() domain.Stories { return s.own.Clone() }

// IsFavorite reports whether id is among the favorites.
func (s *Session) IsFavorite(id string) bool { return s.favorites.Contains(id) }

// IsOwn reports whether id is one of the user's own stories.
func (s *Session) IsOwn(id string) bool { return s.own.Contains(id) }

// Credentials is what the persistence collaborator should store.
func (s *Session) Credentials() domain.Credentials {
	return domain.Credentials{Token: s.token, Username: s.username}
}

// Logout forgets the token and both derived collections.
func (s *Session) Logout() {
	s.token = ""
	s.favorites = domain.Stories{}
	s.own = domain.Stories{}
	s.log.Info("logged out")
}

// Apply reconciles one change into own stories and favorites. Insert only
// reaches own stories, and only for stories this user owns.
func (s *Session) Apply(c domain.Change) {
	switch c.Action {
	case domain.Insert:
		if c.Story.Username == s.username {
			s.own = s.own.Apply(c)
		}
	default:
		s.own = s.own.Apply(c)
		s.favorites = s.favorites.Apply(c)
	}
}

func (s *Session) requireToken(op string) error {
	if !s.Authenticated() {
		return fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}
	return nil
}

// AddFavorite marks id as a favorite and adopts the server's list.
func (s *Session) AddFavorite(ctx context.Context, id string) error {
	if err := s.requireToken("add favorite"); err != nil {
		return err
	}
	user, err := s.auth.AddFavorite(ctx, s.token, s.username, id)
	if err != nil {
		return err
	}
	return s.adoptFavorites(user)
}

// RemoveFavorite unmarks id and adopts the server's list.
func (s *Session) RemoveFavorite(ctx context.Context, id string) error {
	if err := s.requireToken("remove favorite"); err != nil {
		return err
	}
	user, err := s.auth.RemoveFavorite(ctx, s.token, s.username, id)
	if err != nil {
		return err
	}
	return s.adoptFavorites(user)
}

// adoptFavorites replaces favorites wholesale. A malformed list leaves the
// current favorites untouched.
func (s *Session) adoptFavorites(user domain.UserRecord) error {
	favorites, err := domain.StoriesFromRecords(user.Favorites)
	if err != nil {
		return fmt.Errorf("favorites of %s: %w", s.username, err)
	}
	s.favorites = favorites
	s.log.Debug("favorites replaced", logger.Int("favorites", len(favorites)))
	return nil
}

// DeleteStory deletes id remotely. It changes no local collection; on
// success the caller applies domain.RemoveChange(id) everywhere.
func (s *Session) DeleteStory(ctx context.Context, id string) error {
	if err := s.requireToken("delete story"); err != nil {
		return err
	}
	if err := s.stories.DeleteStory(ctx, s.token, id); err != nil {
		return err
	}
	s.log.Info("story deleted", logger.StoryID(id))
	return nil
}

// EditStory sends only the fields set in patch and returns the updated
// story. The caller applies domain.ReplaceChange to every collection.
func (s *Session) EditStory(ctx context.Context, id string, patch domain.StoryPatch) (domain.Story, error) {
	if err := s.requireToken("edit story"); err != nil {
		return domain.Story{}, err
	}
	if err := patch.Validate(); err != nil {
		return domain.Story{}, err
	}
	rec, err := s.stories.UpdateStory(ctx, s.token, id, patch)
	if err != nil {
		return domain.Story{}, err
	}
	st, err := domain.NewStory(rec)
	if err != nil {
		return domain.Story{}, err
	}
	if st.StoryID != id {
		return domain.Story{}, fmt.Errorf("%w: edit of %s returned story %s", domain.ErrMalformedRecord, id, st.StoryID)
	}
	s.log.Info("story edited", logger.StoryID(id))
	return st, nil
}

// UpdateProfile applies the name and password changes as two independent
// calls, name first, stopping at the first failure. A name already updated
// stays updated if the password step fails. The password is not retained.
func (s *Session) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error {
	if err := s.requireToken("update profile"); err != nil {
		return err
	}
	if upd.Name == "" && upd.Password == "" {
		return fmt.Errorf("update profile: nothing to change: %w", domain.ErrValidationRejected)
	}

	if upd.Name != "" {
		user, err := s.auth.UpdateProfile(ctx, s.token, s.username, domain.ProfileUpdate{Name: upd.Name})
		if err != nil {
			return err
		}
		s.name = user.Name
		s.updatedAt = user.UpdatedAt
		s.log.Info("name updated")
	}
	if upd.Password != "" {
		user, err := s.auth.UpdateProfile(ctx, s.token, s.username, domain.ProfileUpdate{Password: upd.Password})
		if err != nil {
			return err
		}
		s.updatedAt = user.UpdatedAt
		s.log.Info("password updated")
	}
	return nil
}
