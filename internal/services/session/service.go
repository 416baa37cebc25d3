package session

import (
	"context"
	"errors"
	"fmt"

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/logger"
)

// Service creates Sessions by signup, login or restore.
type Service struct {
	auth    domain.AuthService
	stories domain.StoryService
	log     logger.Logger
}

// New constructs a session Service with the given remote services.
func New(auth domain.AuthService, stories domain.StoryService, log logger.Logger) *Service {
	return &Service{auth: auth, stories: stories, log: logger.OrNop(log)}
}

// Create signs a new user up. The new session has no favorites or stories.
func (s *Service) Create(ctx context.Context, username, password, name string) (*Session, error) {
	res, err := s.auth.Signup(ctx, domain.Signup{Username: username, Password: password, Name: name})
	if err != nil {
		return nil, err
	}
	sess := s.newSession(res.User, res.Token)
	s.log.Info("signed up", logger.Username(sess.username))
	return sess, nil
}

// Login authenticates and hydrates favorites and own stories from the
// response.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	sess, err := s.hydrated(res.User, res.Token)
	if err != nil {
		return nil, err
	}
	s.log.Info("logged in", logger.Username(sess.username))
	return sess, nil
}

// Restore rebuilds a session from stored credentials. Missing credentials
// give (nil, nil). A rejected token gives domain.ErrInvalidSession and the
// caller should forget the credentials; transport failures are returned as is
// so a flaky network does not log the user out.
func (s *Service) Restore(ctx context.Context, token, username string) (*Session, error) {
	if token == "" || username == "" {
		return nil, nil
	}
	user, err := s.auth.FetchProfile(ctx, token, username)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRemoteUnavailable), errors.Is(err, domain.ErrInvalidSession):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}
	if user.Username != username {
		return nil, fmt.Errorf("%w: profile for %q returned %q", domain.ErrInvalidSession, username, user.Username)
	}

	sess, err := s.hydrated(user, token)
	if err != nil {
		return nil, err
	}
	s.log.Debug("session restored", logger.Username(username))
	return sess, nil
}

func (s *Service) newSession(u domain.UserRecord, token string) *Session {
	return &Session{
		username:  u.Username,
		name:      u.Name,
		createdAt: u.CreatedAt,
		updatedAt: u.UpdatedAt,
		token:     token,
		favorites: domain.Stories{},
		own:       domain.Stories{},
		auth:      s.auth,
		stories:   s.stories,
		log:       s.log.With(logger.Username(u.Username)),
	}
}

func (s *Service) hydrated(u domain.UserRecord, token string) (*Session, error) {
	favorites, err := domain.StoriesFromRecords(u.Favorites)
	if err != nil {
		return nil, fmt.Errorf("favorites of %s: %w", u.Username, err)
	}
	own, err := domain.StoriesFromRecords(u.Stories)
	if err != nil {
		return nil, fmt.Errorf("stories of %s: %w", u.Username, err)
	}
	sess := s.newSession(u, token)
	sess.favorites = favorites
	sess.own = own
	return sess, nil
}
