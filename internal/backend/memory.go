package backend

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hackorsnooze/internal/domain"
)

// apiError is a failure with the HTTP status it is reported as.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func fail(status int, msg string) *apiError { return &apiError{status: status, msg: msg} }

type user struct {
	username  string
	name      string
	hash      []byte
	createdAt time.Time
	updatedAt time.Time
	favorites []string
}

type memoryStore struct {
	mu      sync.RWMutex
	cost    int
	now     func() time.Time
	users   map[string]*user
	tokens  map[string]string
	stories []domain.StoryRecord // newest first
}

func newMemoryStore(cost int, now func() time.Time) *memoryStore {
	return &memoryStore{
		cost:   cost,
		now:    now,
		users:  make(map[string]*user),
		tokens: make(map[string]string),
	}
}

func (m *memoryStore) signup(s domain.Signup) (domain.UserRecord, string, error) {
	if s.Username == "" || s.Password == "" || s.Name == "" {
		return domain.UserRecord{}, "", fail(http.StatusBadRequest, "username, password and name are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), m.cost)
	if err != nil {
		return domain.UserRecord{}, "", fail(http.StatusBadRequest, err.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[s.Username]; ok {
		return domain.UserRecord{}, "", fail(http.StatusConflict, "username "+s.Username+" already taken")
	}
	now := m.now()
	u := &user{username: s.Username, name: s.Name, hash: hash, createdAt: now, updatedAt: now}
	m.users[u.username] = u
	return m.recordLocked(u), m.issueLocked(u.username), nil
}

func (m *memoryStore) login(username, password string) (domain.UserRecord, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return domain.UserRecord{}, "", fail(http.StatusNotFound, "no such user: "+username)
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return domain.UserRecord{}, "", fail(http.StatusUnauthorized, "invalid password")
	}
	return m.recordLocked(u), m.issueLocked(username), nil
}

func (m *memoryStore) issueLocked(username string) string {
	tok := uuid.NewString()
	m.tokens[tok] = username
	return tok
}

// authLocked resolves token to its user.
func (m *memoryStore) authLocked(token string) (*user, error) {
	if token == "" {
		return nil, fail(http.StatusUnauthorized, "missing token")
	}
	name, ok := m.tokens[token]
	if !ok {
		return nil, fail(http.StatusUnauthorized, "invalid token")
	}
	u, ok := m.users[name]
	if !ok {
		return nil, fail(http.StatusUnauthorized, "invalid token")
	}
	return u, nil
}

// selfLocked resolves token and checks it belongs to username.
func (m *memoryStore) selfLocked(token, username string) (*user, error) {
	u, err := m.authLocked(token)
	if err != nil {
		return nil, err
	}
	if _, ok := m.users[username]; !ok {
		return nil, fail(http.StatusNotFound, "no such user: "+username)
	}
	if u.username != username {
		return nil, fail(http.StatusForbidden, "token does not belong to "+username)
	}
	return u, nil
}

func (m *memoryStore) profile(token, username string) (domain.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, err := m.selfLocked(token, username)
	if err != nil {
		return domain.UserRecord{}, err
	}
	return m.recordLocked(u), nil
}

func (m *memoryStore) updateProfile(token, username, name, password string) (domain.UserRecord, error) {
	if name == "" && password == "" {
		return domain.UserRecord{}, fail(http.StatusBadRequest, "nothing to update")
	}
	var hash []byte
	if password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(password), m.cost); err != nil {
			return domain.UserRecord{}, fail(http.StatusBadRequest, err.Error())
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.selfLocked(token, username)
	if err != nil {
		return domain.UserRecord{}, err
	}
	if name != "" {
		u.name = name
	}
	if hash != nil {
		u.hash = hash
	}
	u.updatedAt = m.now()
	return m.recordLocked(u), nil
}

func (m *memoryStore) list(skip, limit int) []domain.StoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if skip >= len(m.stories) {
		return []domain.StoryRecord{}
	}
	out := m.stories[skip:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return slices.Clone(out)
}

func (m *memoryStore) indexLocked(id string) int {
	return slices.IndexFunc(m.stories, func(r domain.StoryRecord) bool { return r.StoryID == id })
}

func (m *memoryStore) create(token string, d domain.Draft) (domain.StoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.authLocked(token)
	if err != nil {
		return domain.StoryRecord{}, err
	}
	if err := d.Validate(); err != nil {
		return domain.StoryRecord{}, fail(http.StatusBadRequest, err.Error())
	}
	now := m.now()
	rec := domain.StoryRecord{
		StoryID:   uuid.NewString(),
		Author:    d.Author,
		Title:     d.Title,
		URL:       d.URL,
		Username:  u.username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.stories = append([]domain.StoryRecord{rec}, m.stories...)
	return rec, nil
}

// ownedLocked finds id and checks u may change it.
func (m *memoryStore) ownedLocked(u *user, id string) (int, error) {
	i := m.indexLocked(id)
	if i < 0 {
		return -1, fail(http.StatusNotFound, "no such story: "+id)
	}
	if m.stories[i].Username != u.username {
		return -1, fail(http.StatusForbidden, "story belongs to another user")
	}
	return i, nil
}

func (m *memoryStore) update(token, id string, p domain.StoryPatch) (domain.StoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.authLocked(token)
	if err != nil {
		return domain.StoryRecord{}, err
	}
	i, err := m.ownedLocked(u, id)
	if err != nil {
		return domain.StoryRecord{}, err
	}
	if p.Empty() {
		return domain.StoryRecord{}, fail(http.StatusBadRequest, "nothing to update")
	}
	if err := p.Validate(); err != nil {
		return domain.StoryRecord{}, fail(http.StatusBadRequest, err.Error())
	}
	rec := &m.stories[i]
	if p.Author != nil {
		rec.Author = *p.Author
	}
	if p.Title != nil {
		rec.Title = *p.Title
	}
	if p.URL != nil {
		rec.URL = *p.URL
	}
	rec.UpdatedAt = m.now()
	return *rec, nil
}

func (m *memoryStore) remove(token, id string) (domain.StoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.authLocked(token)
	if err != nil {
		return domain.StoryRecord{}, err
	}
	i, err := m.ownedLocked(u, id)
	if err != nil {
		return domain.StoryRecord{}, err
	}
	rec := m.stories[i]
	m.stories = slices.Delete(m.stories, i, i+1)
	for _, other := range m.users {
		other.favorites = slices.DeleteFunc(other.favorites, func(f string) bool { return f == id })
	}
	return rec, nil
}

func (m *memoryStore) favorite(token, username, id string, add bool) (domain.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.selfLocked(token, username)
	if err != nil {
		return domain.UserRecord{}, err
	}
	if m.indexLocked(id) < 0 {
		return domain.UserRecord{}, fail(http.StatusNotFound, "no such story: "+id)
	}
	has := slices.Contains(u.favorites, id)
	switch {
	case add && !has:
		u.favorites = append(u.favorites, id)
	case !add && has:
		u.favorites = slices.DeleteFunc(u.favorites, func(f string) bool { return f == id })
	}
	return m.recordLocked(u), nil
}

// recordLocked renders u with its favorites and own stories.
func (m *memoryStore) recordLocked(u *user) domain.UserRecord {
	rec := domain.UserRecord{
		Username:  u.username,
		Name:      u.name,
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
		Favorites: []domain.StoryRecord{},
		Stories:   []domain.StoryRecord{},
	}
	for _, id := range u.favorites {
		if i := m.indexLocked(id); i >= 0 {
			rec.Favorites = append(rec.Favorites, m.stories[i])
		}
	}
	for _, st := range m.stories {
		if st.Username == u.username {
			rec.Stories = append(rec.Stories, st)
		}
	}
	return rec
}
