package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/fake"
	"hackorsnooze/internal/services/session"
)

func user(username string, favorites, own []string) domain.UserRecord {
	u := domain.UserRecord{Username: username, Name: "Name of " + username}
	for _, id := range favorites {
		u.Favorites = append(u.Favorites, fake.Story(id, "ann"))
	}
	for _, id := range own {
		u.Stories = append(u.Stories, fake.Story(id, username))
	}
	return u
}

func loggedIn(t *testing.T, remote *fake.Remote, favorites, own []string) *session.Session {
	t.Helper()
	remote.LoginFn = func(username, password string) (domain.AuthResult, error) {
		return domain.AuthResult{User: user(username, favorites, own), Token: "tok"}, nil
	}
	sess, err := session.New(remote, remote, nil).Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	return sess
}

func TestCreateStartsEmpty(t *testing.T) {
	remote := &fake.Remote{
		SignupFn: func(s domain.Signup) (domain.AuthResult, error) {
			assert.Equal(t, domain.Signup{Username: "bob", Password: "pw", Name: "Bob"}, s)
			return domain.AuthResult{User: domain.UserRecord{Username: "bob", Name: "Bob"}, Token: "tok"}, nil
		},
	}

	sess, err := session.New(remote, remote, nil).Create(context.Background(), "bob", "pw", "Bob")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok", sess.Token())
	assert.Equal(t, "Bob", sess.Name())
	assert.Empty(t, sess.Favorites())
	assert.Empty(t, sess.OwnStories())
	assert.Equal(t, domain.Credentials{Token: "tok", Username: "bob"}, sess.Credentials())
}

func TestCreateUsernameTaken(t *testing.T) {
	remote := &fake.Remote{
		SignupFn: func(domain.Signup) (domain.AuthResult, error) { return domain.AuthResult{}, domain.ErrUsernameTaken },
	}
	sess, err := session.New(remote, remote, nil).Create(context.Background(), "bob", "pw", "Bob")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.Nil(t, sess)
}

func TestLoginHydrates(t *testing.T) {
	sess := loggedIn(t, &fake.Remote{}, []string{"f1", "f2", "f1"}, []string{"o1"})
	assert.Equal(t, []string{"f1", "f2"}, sess.Favorites().IDs(), "duplicates dropped")
	assert.Equal(t, []string{"o1"}, sess.OwnStories().IDs())
	assert.True(t, sess.IsFavorite("f2"))
	assert.True(t, sess.IsOwn("o1"))
	assert.False(t, sess.IsOwn("f1"))
}

func TestLoginErrors(t *testing.T) {
	tests := map[string]struct {
		login func(string, string) (domain.AuthResult, error)
		want  error
	}{
		"bad password": {
			login: func(string, string) (domain.AuthResult, error) { return domain.AuthResult{}, domain.ErrInvalidCredentials },
			want:  domain.ErrInvalidCredentials,
		},
		"offline": {
			login: func(string, string) (domain.AuthResult, error) { return domain.AuthResult{}, domain.ErrRemoteUnavailable },
			want:  domain.ErrRemoteUnavailable,
		},
		"malformed favorite": {
			login: func(u, _ string) (domain.AuthResult, error) {
				rec := user(u, []string{"f1"}, nil)
				rec.Favorites[0].URL = ""
				return domain.AuthResult{User: rec, Token: "tok"}, nil
			},
			want: domain.ErrMalformedRecord,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			remote := &fake.Remote{LoginFn: tt.login}
			_, err := session.New(remote, remote, nil).Login(context.Background(), "bob", "pw")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credentials", func(t *testing.T) {
		remote := &fake.Remote{}
		svc := session.New(remote, remote, nil)
		for _, c := range [][2]string{{"", "bob"}, {"tok", ""}, {"", ""}} {
			sess, err := svc.Restore(ctx, c[0], c[1])
			assert.NoError(t, err)
			assert.Nil(t, sess)
		}
		assert.Empty(t, remote.Calls())
	})

	t.Run("valid token", func(t *testing.T) {
		remote := &fake.Remote{
			ProfileFn: func(token, username string) (domain.UserRecord, error) {
				assert.Equal(t, "tok", token)
				return user(username, []string{"f1"}, []string{"o1"}), nil
			},
		}
		sess, err := session.New(remote, remote, nil).Restore(ctx, "tok", "bob")
		require.NoError(t, err)
		assert.Equal(t, "tok", sess.Token())
		assert.Equal(t, []string{"f1"}, sess.Favorites().IDs())
		assert.Equal(t, []string{"o1"}, sess.OwnStories().IDs())
	})

	tests := map[string]struct {
		err  error
		user domain.UserRecord
		want error
	}{
		"rejected":          {err: domain.ErrInvalidSession, want: domain.ErrInvalidSession},
		"other rejection":   {err: domain.ErrValidationRejected, want: domain.ErrInvalidSession},
		"offline":           {err: domain.ErrRemoteUnavailable, want: domain.ErrRemoteUnavailable},
		"different account": {user: domain.UserRecord{Username: "eve"}, want: domain.ErrInvalidSession},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			remote := &fake.Remote{
				ProfileFn: func(string, string) (domain.UserRecord, error) { return tt.user, tt.err },
			}
			sess, err := session.New(remote, remote, nil).Restore(ctx, "tok", "bob")
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, sess)
		})
	}
}

func TestMutationsRequireToken(t *testing.T) {
	ctx := context.Background()
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, []string{"f1"}, []string{"o1"})
	sess.Logout()

	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Favorites())
	assert.Empty(t, sess.OwnStories())

	title := "x"
	assert.ErrorIs(t, sess.AddFavorite(ctx, "f1"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, sess.RemoveFavorite(ctx, "f1"), domain.ErrUnauthenticated)
	assert.ErrorIs(t, sess.DeleteStory(ctx, "o1"), domain.ErrUnauthenticated)
	_, err := sess.EditStory(ctx, "o1", domain.StoryPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, sess.UpdateProfile(ctx, domain.ProfileUpdate{Name: "x"}), domain.ErrUnauthenticated)

	assert.Equal(t, []string{"login"}, remote.Calls(), "no network call while anonymous")
}

func TestNilSessionIsAnonymous(t *testing.T) {
	var sess *session.Session
	assert.Equal(t, "", sess.Token())
	assert.False(t, sess.Authenticated())
}

func TestFavoritesTrustServer(t *testing.T) {
	ctx := context.Background()
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, []string{"f1"}, nil)

	// The server's answer wins even when it disagrees with a local splice.
	remote.AddFavoriteFn = func(token, username, id string) (domain.UserRecord, error) {
		assert.Equal(t, "tok", token)
		assert.Equal(t, "bob", username)
		return user(username, []string{"f9", id}, nil), nil
	}
	require.NoError(t, sess.AddFavorite(ctx, "f2"))
	assert.Equal(t, []string{"f9", "f2"}, sess.Favorites().IDs())

	remote.RemoveFavoriteFn = func(_, username, _ string) (domain.UserRecord, error) {
		return user(username, []string{"f2"}, nil), nil
	}
	require.NoError(t, sess.RemoveFavorite(ctx, "f9"))
	assert.Equal(t, []string{"f2"}, sess.Favorites().IDs())
}

func TestFavoriteFailureKeepsFavorites(t *testing.T) {
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, []string{"f1"}, nil)
	remote.AddFavoriteFn = func(string, string, string) (domain.UserRecord, error) {
		return domain.UserRecord{}, domain.ErrNotFound
	}
	assert.ErrorIs(t, sess.AddFavorite(context.Background(), "gone"), domain.ErrNotFound)
	assert.Equal(t, []string{"f1"}, sess.Favorites().IDs())
}

func TestDeleteStoryLeavesReconciliationToCaller(t *testing.T) {
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, []string{"o1"}, []string{"o1"})
	remote.DeleteFn = func(token, id string) error { return nil }

	require.NoError(t, sess.DeleteStory(context.Background(), "o1"))
	assert.True(t, sess.IsOwn("o1"))

	sess.Apply(domain.RemoveChange("o1"))
	assert.False(t, sess.IsOwn("o1"))
	assert.False(t, sess.IsFavorite("o1"))
}

func TestEditStory(t *testing.T) {
	ctx := context.Background()
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, nil, []string{"o1"})

	remote.UpdateFn = func(_, id string, p domain.StoryPatch) (domain.StoryRecord, error) {
		rec := fake.Story(id, "bob")
		rec.Title = *p.Title
		rec.UpdatedAt = rec.CreatedAt.Add(time.Hour)
		return rec, nil
	}
	title := "Renamed"
	st, err := sess.EditStory(ctx, "o1", domain.StoryPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", st.Title)

	sess.Apply(domain.ReplaceChange(st))
	got, _ := sess.OwnStories().Find("o1")
	assert.Equal(t, "Renamed", got.Title)
}

func TestEditStoryValidation(t *testing.T) {
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, nil, []string{"o1"})
	bad := "not a url"

	_, err := sess.EditStory(context.Background(), "o1", domain.StoryPatch{URL: &bad})
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	_, err = sess.EditStory(context.Background(), "o1", domain.StoryPatch{})
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	assert.Equal(t, []string{"login"}, remote.Calls())

	remote.UpdateFn = func(string, string, domain.StoryPatch) (domain.StoryRecord, error) {
		return domain.StoryRecord{}, domain.ErrValidationRejected
	}
	title := "ok"
	_, err = sess.EditStory(context.Background(), "o1", domain.StoryPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	assert.True(t, domain.IsRecoverable(err))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	remote := &fake.Remote{}
	sess := loggedIn(t, remote, nil, nil)

	var sent []domain.ProfileUpdate
	remote.UpdateProfileFn = func(_, username string, u domain.ProfileUpdate) (domain.UserRecord, error) {
		sent = append(sent, u)
		if u.Password != "" {
			return domain.UserRecord{}, domain.ErrValidationRejected
		}
		return domain.UserRecord{Username: username, Name: "Server " + u.Name}, nil
	}

	err := sess.UpdateProfile(ctx, domain.ProfileUpdate{Name: "Robert", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	assert.Equal(t, "Server Robert", sess.Name(), "name step applied from the response")
	assert.Equal(t, "tok", sess.Token(), "credentials untouched")
	assert.Equal(t, []domain.ProfileUpdate{{Name: "Robert"}, {Password: "short"}}, sent)

	assert.ErrorIs(t, sess.UpdateProfile(ctx, domain.ProfileUpdate{}), domain.ErrValidationRejected)
	assert.Len(t, sent, 2)
}

func TestApplyInsertOnlyOwnStories(t *testing.T) {
	sess := loggedIn(t, &fake.Remote{}, nil, nil)

	mine, err := domain.NewStory(fake.Story("mine", "bob"))
	require.NoError(t, err)
	theirs, err := domain.NewStory(fake.Story("theirs", "ann"))
	require.NoError(t, err)

	sess.Apply(domain.InsertChange(mine))
	sess.Apply(domain.InsertChange(theirs))
	assert.Equal(t, []string{"mine"}, sess.OwnStories().IDs())
	assert.Empty(t, sess.Favorites())
}
