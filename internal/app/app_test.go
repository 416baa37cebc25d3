package app_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hackorsnooze/internal/app"
	"hackorsnooze/internal/backend"
	"hackorsnooze/internal/config"
	"hackorsnooze/internal/domain"
)

// harness runs an in-memory backend and wires a State against it.
type harness struct {
	t    *testing.T
	base string
	cfg  *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := httptest.NewServer(backend.NewHandler(backend.Options{BcryptCost: bcrypt.MinCost}, nil))
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL
	cfg.Credentials.Backend = config.BackendFile
	cfg.Credentials.Dir = t.TempDir()
	return &harness{t: t, base: srv.URL, cfg: cfg}
}

// state wires a fresh State, as a new process would.
func (h *harness) state() *app.State {
	h.t.Helper()
	w, err := app.NewWire(context.Background(), h.cfg, nil, app.Options{})
	require.NoError(h.t, err)
	h.t.Cleanup(func() { _ = w.Close() })
	return w.State
}

func draft(title string) domain.Draft {
	return domain.Draft{Author: "Bob", Title: title, URL: "http://x.com"}
}

func TestSignupSubmitFavoriteDelete(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()

	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))
	require.True(t, st.Authenticated())
	assert.NotEmpty(t, st.Session.Token())
	assert.Empty(t, st.Session.OwnStories())

	story, err := st.SubmitStory(ctx, draft("T"))
	require.NoError(t, err)
	front := st.Catalog.Stories()[0]
	assert.Equal(t, "T", front.Title)
	assert.Equal(t, story.StoryID, front.StoryID)
	assert.True(t, st.IsOwn(story.StoryID))

	require.NoError(t, st.AddFavorite(ctx, story.StoryID))
	assert.True(t, st.IsFavorite(story.StoryID))

	require.NoError(t, st.DeleteStory(ctx, story.StoryID))
	assert.False(t, st.Catalog.Stories().Contains(story.StoryID))
	assert.False(t, st.IsFavorite(story.StoryID))
	assert.False(t, st.IsOwn(story.StoryID))
}

func TestSubmitThenFetchIsFirst(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))

	_, err := st.SubmitStory(ctx, draft("older"))
	require.NoError(t, err)
	story, err := st.SubmitStory(ctx, draft("newer"))
	require.NoError(t, err)

	require.NoError(t, st.RefreshCatalog(ctx))
	assert.Equal(t, story.StoryID, st.Catalog.Stories()[0].StoryID)
}

func TestDeleteTwice(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))
	keep, err := st.SubmitStory(ctx, draft("keep"))
	require.NoError(t, err)
	gone, err := st.SubmitStory(ctx, draft("gone"))
	require.NoError(t, err)
	require.NoError(t, st.AddFavorite(ctx, keep.StoryID))
	require.NoError(t, st.AddFavorite(ctx, gone.StoryID))

	require.NoError(t, st.DeleteStory(ctx, gone.StoryID))
	catalogAfter := st.Catalog.Stories().IDs()
	ownAfter := st.Session.OwnStories().IDs()
	favoritesAfter := st.Session.Favorites().IDs()

	err = st.DeleteStory(ctx, gone.StoryID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, catalogAfter, st.Catalog.Stories().IDs())
	assert.Equal(t, ownAfter, st.Session.OwnStories().IDs())
	assert.Equal(t, favoritesAfter, st.Session.Favorites().IDs())
	assert.Equal(t, []string{keep.StoryID}, ownAfter)
	assert.Equal(t, []string{keep.StoryID}, favoritesAfter)
}

func TestFailedCredentialSaveStaysAnonymous(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	h.cfg.Credentials.Dir = filepath.Join(blocker, "creds")
	st := h.state()

	err := st.Signup(ctx, "bob", "pw", "Bob")
	require.Error(t, err)
	assert.False(t, st.Authenticated())
	assert.Nil(t, st.Session)

	err = st.Login(ctx, "bob", "pw")
	require.Error(t, err)
	assert.False(t, st.Authenticated())
}

func TestEditRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))
	orig, err := st.SubmitStory(ctx, draft("before"))
	require.NoError(t, err)

	title := "X"
	edited, err := st.EditStory(ctx, orig.StoryID, domain.StoryPatch{Title: &title})
	require.NoError(t, err)
	own, _ := st.Session.OwnStories().Find(orig.StoryID)
	assert.Equal(t, "X", own.Title)

	require.NoError(t, st.RefreshCatalog(ctx))
	got, ok := st.Catalog.Get(orig.StoryID)
	require.True(t, ok)
	assert.Equal(t, "X", got.Title)
	assert.Equal(t, orig.Author, got.Author)
	assert.Equal(t, orig.URL, got.URL)
	assert.Equal(t, orig.Username, got.Username)
	assert.True(t, orig.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, edited.UpdatedAt.Equal(got.UpdatedAt))
}

func TestEditRejectedLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))
	orig, err := st.SubmitStory(ctx, draft("before"))
	require.NoError(t, err)

	bad := "nope"
	_, err = st.EditStory(ctx, orig.StoryID, domain.StoryPatch{URL: &bad})
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	got, _ := st.Catalog.Get(orig.StoryID)
	assert.Equal(t, orig, got)
}

func TestRemoveFavoriteTrustsServer(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// Ann favorites A and B in one process.
	ann := h.state()
	require.NoError(t, ann.Signup(ctx, "ann", "pw", "Ann"))
	a, err := ann.SubmitStory(ctx, draft("A"))
	require.NoError(t, err)
	b, err := ann.SubmitStory(ctx, draft("B"))
	require.NoError(t, err)
	c, err := ann.SubmitStory(ctx, draft("C"))
	require.NoError(t, err)
	require.NoError(t, ann.AddFavorite(ctx, a.StoryID))
	require.NoError(t, ann.AddFavorite(ctx, b.StoryID))

	// Another client of the same account favorites C behind its back.
	other := h.state()
	require.NoError(t, other.Login(ctx, "ann", "pw"))
	require.NoError(t, other.AddFavorite(ctx, c.StoryID))

	require.NoError(t, ann.RemoveFavorite(ctx, a.StoryID))
	assert.ElementsMatch(t, []string{b.StoryID, c.StoryID}, ann.Session.Favorites().IDs())
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))
	story, err := st.SubmitStory(ctx, draft("T"))
	require.NoError(t, err)

	on, err := st.ToggleFavorite(ctx, story.StoryID)
	require.NoError(t, err)
	assert.True(t, on)
	on, err = st.ToggleFavorite(ctx, story.StoryID)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, st.Session.Favorites())
}

func TestAnonymousMutationsFail(t *testing.T) {
	ctx := context.Background()
	st := newHarness(t).state()
	require.NoError(t, st.Start(ctx))
	require.False(t, st.Authenticated())

	assert.ErrorIs(t, st.AddFavorite(ctx, "x"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, st.RemoveFavorite(ctx, "x"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, st.DeleteStory(ctx, "x"), domain.ErrUnauthenticated)
	_, err := st.SubmitStory(ctx, draft("T"))
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = st.ToggleFavorite(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, st.UpdateProfile(ctx, domain.ProfileUpdate{Name: "x"}), domain.ErrUnauthenticated)
	assert.False(t, st.IsFavorite("x"))
	assert.False(t, st.IsOwn("x"))
}

func TestRestoreAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first := h.state()
	require.NoError(t, first.Signup(ctx, "bob", "pw", "Bob"))
	story, err := first.SubmitStory(ctx, draft("T"))
	require.NoError(t, err)
	require.NoError(t, first.AddFavorite(ctx, story.StoryID))

	second := h.state()
	require.NoError(t, second.Start(ctx))
	require.True(t, second.Authenticated())
	assert.Equal(t, "bob", second.Session.Username())
	assert.True(t, second.IsOwn(story.StoryID))
	assert.True(t, second.IsFavorite(story.StoryID))
	assert.Equal(t, 1, second.Catalog.Len())

	require.NoError(t, second.Logout(ctx))
	third := h.state()
	require.NoError(t, third.Start(ctx))
	assert.False(t, third.Authenticated())
}

func TestRestoreRejectedTokenClearsCredentials(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	w, err := app.NewWire(ctx, h.cfg, nil, app.Options{})
	require.NoError(t, err)
	require.NoError(t, w.Credentials.SaveCredentials(ctx, domain.Credentials{Token: "stale", Username: "ghost"}))

	require.NoError(t, w.State.Start(ctx))
	assert.False(t, w.State.Authenticated())
	_, ok, err := w.Credentials.LoadCredentials(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecoverableErrorsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	st := h.state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))

	other := h.state()
	err := other.Signup(ctx, "bob", "pw", "Bob")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Nil(t, other.Session)

	err = other.Login(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Nil(t, other.Session)
	assert.True(t, domain.IsRecoverable(err))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	st := h.state()
	require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))

	require.NoError(t, st.UpdateProfile(ctx, domain.ProfileUpdate{Name: "Robert", Password: "new-pw"}))
	assert.Equal(t, "Robert", st.Session.Name())

	again := h.state()
	require.NoError(t, again.Login(ctx, "bob", "new-pw"))
	assert.Equal(t, "Robert", again.Session.Name())
}

func TestRemoteUnavailable(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.cfg.API.BaseURL = "http://127.0.0.1:1"

	st := h.state()
	err := st.RefreshCatalog(ctx)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.True(t, domain.IsTryLater(err))
	assert.Zero(t, st.Catalog.Len())
}

func TestWireBackends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := map[string]func(*config.Config){
		"memory": func(c *config.Config) { c.Credentials.Backend = config.BackendMemory },
		"sealed file": func(c *config.Config) {
			c.Credentials.Passphrase = "hunter2"
		},
		"redis": func(c *config.Config) {
			c.Credentials.Backend = config.BackendRedis
			c.Credentials.RedisURL = "redis://" + mr.Addr()
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			mutate(h.cfg)

			st := h.state()
			require.NoError(t, st.Signup(ctx, "bob", "pw", "Bob"))

			w, err := app.NewWire(ctx, h.cfg, nil, app.Options{})
			require.NoError(t, err)
			t.Cleanup(func() { _ = w.Close() })
			creds, ok, err := w.Credentials.LoadCredentials(ctx)
			require.NoError(t, err)
			if name == "memory" {
				assert.False(t, ok, "memory credentials do not outlive the wire")
				return
			}
			require.True(t, ok)
			assert.Equal(t, "bob", creds.Username)
		})
	}
}

func TestWireRedisUnavailable(t *testing.T) {
	cfg := config.Default()
	cfg.Credentials.Backend = config.BackendRedis
	cfg.Credentials.RedisURL = "redis://127.0.0.1:1"
	_, err := app.NewWire(context.Background(), cfg, nil, app.Options{})
	assert.Error(t, err)
}
