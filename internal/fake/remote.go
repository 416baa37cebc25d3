// Package fake provides a scriptable domain.StoryService and domain.AuthService
// for unit tests. Unscripted calls fail with ErrUnscripted.
package fake

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"hackorsnooze/internal/domain"
)

// ErrUnscripted is returned by any operation without a scripted func.
var ErrUnscripted = errors.New("fake: unscripted call")

// Remote records every call by operation name.
type Remote struct {
	mu    sync.Mutex
	calls []string

	ListFn           func() ([]domain.StoryRecord, error)
	CreateFn         func(token string, d domain.Draft) (domain.StoryRecord, error)
	UpdateFn         func(token, id string, p domain.StoryPatch) (domain.StoryRecord, error)
	DeleteFn         func(token, id string) error
	SignupFn         func(s domain.Signup) (domain.AuthResult, error)
	LoginFn          func(username, password string) (domain.AuthResult, error)
	ProfileFn        func(token, username string) (domain.UserRecord, error)
	UpdateProfileFn  func(token, username string, u domain.ProfileUpdate) (domain.UserRecord, error)
	AddFavoriteFn    func(token, username, id string) (domain.UserRecord, error)
	RemoveFavoriteFn func(token, username, id string) (domain.UserRecord, error)
}

var (
	_ domain.StoryService = (*Remote)(nil)
	_ domain.AuthService  = (*Remote)(nil)
)

func (r *Remote) record(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
}

// Calls returns the operations invoked so far, in order.
func (r *Remote) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

func (r *Remote) ListStories(context.Context) ([]domain.StoryRecord, error) {
	r.record("list")
	if r.ListFn == nil {
		return nil, ErrUnscripted
	}
	return r.ListFn()
}

func (r *Remote) CreateStory(_ context.Context, token string, d domain.Draft) (domain.StoryRecord, error) {
	r.record("create")
	if r.CreateFn == nil {
		return domain.StoryRecord{}, ErrUnscripted
	}
	return r.CreateFn(token, d)
}

func (r *Remote) UpdateStory(_ context.Context, token, id string, p domain.StoryPatch) (domain.StoryRecord, error) {
	r.record("update")
	if r.UpdateFn == nil {
		return domain.StoryRecord{}, ErrUnscripted
	}
	return r.UpdateFn(token, id, p)
}

func (r *Remote) DeleteStory(_ context.Context, token, id string) error {
	r.record("delete")
	if r.DeleteFn == nil {
		return ErrUnscripted
	}
	return r.DeleteFn(token, id)
}

func (r *Remote) Signup(_ context.Context, s domain.Signup) (domain.AuthResult, error) {
	r.record("signup")
	if r.SignupFn == nil {
		return domain.AuthResult{}, ErrUnscripted
	}
	return r.SignupFn(s)
}

func (r *Remote) Login(_ context.Context, username, password string) (domain.AuthResult, error) {
	r.record("login")
	if r.LoginFn == nil {
		return domain.AuthResult{}, ErrUnscripted
	}
	return r.LoginFn(username, password)
}

func (r *Remote) FetchProfile(_ context.Context, token, username string) (domain.UserRecord, error) {
	r.record("profile")
	if r.ProfileFn == nil {
		return domain.UserRecord{}, ErrUnscripted
	}
	return r.ProfileFn(token, username)
}

func (r *Remote) UpdateProfile(_ context.Context, token, username string, u domain.ProfileUpdate) (domain.UserRecord, error) {
	r.record("update_profile")
	if r.UpdateProfileFn == nil {
		return domain.UserRecord{}, ErrUnscripted
	}
	return r.UpdateProfileFn(token, username, u)
}

func (r *Remote) AddFavorite(_ context.Context, token, username, id string) (domain.UserRecord, error) {
	r.record("add_favorite")
	if r.AddFavoriteFn == nil {
		return domain.UserRecord{}, ErrUnscripted
	}
	return r.AddFavoriteFn(token, username, id)
}

func (r *Remote) RemoveFavorite(_ context.Context, token, username, id string) (domain.UserRecord, error) {
	r.record("remove_favorite")
	if r.RemoveFavoriteFn == nil {
		return domain.UserRecord{}, ErrUnscripted
	}
	return r.RemoveFavoriteFn(token, username, id)
}

// Token is a fixed domain.TokenSource.
type Token string

func (t Token) Token() string { return string(t) }

// Story returns a well-formed record with id, owned by username.
func Story(id, username string) domain.StoryRecord {
	return domain.StoryRecord{
		StoryID:   id,
		Author:    "Ada",
		Title:     "Story " + id,
		URL:       "https://example.com/" + id,
		Username:  username,
		CreatedAt: epoch,
		UpdatedAt: epoch,
	}
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
