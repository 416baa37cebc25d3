package app

import (
	"context"
	"errors"
	"fmt"

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
	"hackorsnooze/internal/services/catalog"
	"hackorsnooze/internal/services/session"
)

// State is the catalog plus the current session. Session is nil while
// anonymous. Callers serialize operations; State has no locking.
type State struct {
	Catalog *catalog.StoryList
	Session *session.Session

	catalogs *catalog.Service
	sessions *session.Service
	creds    domain.CredentialStore
	log      logger.Logger
}

// NewState returns an anonymous State with an empty catalog.
func NewState(catalogs *catalog.Service, sessions *session.Service, creds domain.CredentialStore, log logger.Logger) *State {
	return &State{
		Catalog:  catalogs.Empty(),
		catalogs: catalogs,
		sessions: sessions,
		creds:    creds,
		log:      logger.OrNop(log),
	}
}

// Start restores the stored session, if any, then fetches the catalog.
func (s *State) Start(ctx context.Context) error {
	if err := s.Restore(ctx); err != nil {
		return err
	}
	return s.RefreshCatalog(ctx)
}

// Restore resumes the session from stored credentials. A token the backend
// rejects is cleared and leaves the State anonymous without error.
func (s *State) Restore(ctx context.Context) error {
	creds, ok, err := s.creds.LoadCredentials(ctx)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if !ok {
		return nil
	}
	sess, err := s.sessions.Restore(ctx, creds.Token, creds.Username)
	if errors.Is(err, domain.ErrInvalidSession) {
		s.log.Warn("stored session rejected, clearing credentials", logger.Username(creds.Username), logger.Error(err))
		s.Session = nil
		return s.creds.ClearCredentials(ctx)
	}
	if err != nil {
		return err
	}
	s.Session = sess
	return nil
}

// Authenticated reports whether a session with a token is held.
func (s *State) Authenticated() bool { return s.Session.Authenticated() }

// Signup creates an account, makes it current and stores its credentials.
func (s *State) Signup(ctx context.Context, username, password, name string) error {
	sess, err := s.sessions.Create(ctx, username, password, name)
	if err != nil {
		return err
	}
	return s.adopt(ctx, sess)
}

// Login authenticates, makes the session current and stores its credentials.
func (s *State) Login(ctx context.Context, username, password string) error {
	sess, err := s.sessions.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, sess)
}

// adopt stores the credentials, then makes sess current. A failed save leaves
// the State as it was.
func (s *State) adopt(ctx context.Context, sess *session.Session) error {
	if err := s.creds.SaveCredentials(ctx, sess.Credentials()); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	s.Session = sess
	return nil
}

// Logout drops the session and clears stored credentials.
func (s *State) Logout(ctx context.Context) error {
	if s.Session != nil {
		s.Session.Logout()
		s.Session = nil
	}
	return s.creds.ClearCredentials(ctx)
}

// RefreshCatalog replaces the catalog with a fresh fetch. On failure the
// current catalog is kept.
func (s *State) RefreshCatalog(ctx context.Context) error {
	list, err := s.catalogs.FetchAll(ctx)
	if err != nil {
		return err
	}
	s.Catalog = list
	return nil
}

// Reconcile applies c to the catalog and, when logged in, to own stories and
// favorites.
func (s *State) Reconcile(c domain.Change) {
	s.Catalog.Apply(c)
	if s.Session != nil {
		s.Session.Apply(c)
	}
	s.log.Debug("reconciled", logger.String("action", c.Action.String()), logger.StoryID(c.StoryID))
}

// SubmitStory creates a story, puts it at the front of the catalog and
// registers it as one of the user's own stories.
func (s *State) SubmitStory(ctx context.Context, draft domain.Draft) (domain.Story, error) {
	st, err := s.Catalog.Submit(ctx, s.Session, draft)
	if err != nil {
		return domain.Story{}, err
	}
	s.Session.Apply(domain.InsertChange(st))
	return st, nil
}

// DeleteStory deletes id remotely, then removes it from all three
// collections. A failed delete changes nothing.
func (s *State) DeleteStory(ctx context.Context, id string) error {
	if err := s.Session.DeleteStory(ctx, id); err != nil {
		return err
	}
	s.Reconcile(domain.RemoveChange(id))
	return nil
}

// EditStory patches id remotely, then replaces every local copy.
func (s *State) EditStory(ctx context.Context, id string, patch domain.StoryPatch) (domain.Story, error) {
	st, err := s.Session.EditStory(ctx, id, patch)
	if err != nil {
		return domain.Story{}, err
	}
	s.Reconcile(domain.ReplaceChange(st))
	return st, nil
}

func (s *State) AddFavorite(ctx context.Context, id string) error {
	return s.Session.AddFavorite(ctx, id)
}

func (s *State) RemoveFavorite(ctx context.Context, id string) error {
	return s.Session.RemoveFavorite(ctx, id)
}

// ToggleFavorite flips id and reports whether it is now a favorite.
func (s *State) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if s.IsFavorite(id) {
		return false, s.RemoveFavorite(ctx, id)
	}
	if err := s.AddFavorite(ctx, id); err != nil {
		return false, err
	}
	return s.IsFavorite(id), nil
}

func (s *State) UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) error {
	return s.Session.UpdateProfile(ctx, upd)
}

// IsFavorite reports whether id is a favorite of the current user.
func (s *State) IsFavorite(id string) bool {
	return s.Session != nil && s.Session.IsFavorite(id)
}

// IsOwn reports whether id belongs to the current user.
func (s *State) IsOwn(id string) bool {
	return s.Session != nil && s.Session.IsOwn(id)
}
