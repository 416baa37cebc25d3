package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"hackorsnooze/internal/domain"
	"hackorsnooze/internal/util/memzero"
)

const (
	credentialsFile       = "credentials.json"
	sealedCredentialsFile = "credentials.json.enc"
)

// FileStore persists credentials for one API base URL under dir. Entries for
// other base URLs in the same file are left untouched.
type FileStore struct {
	dir        string
	baseURL    string
	passphrase string
	kdf        KDFParams
	mu         sync.Mutex
}

// NewFileStore returns a plaintext store rooted at dir.
func NewFileStore(dir, baseURL string) *FileStore {
	return &FileStore{dir: dir, baseURL: baseURL, kdf: DefaultKDF}
}

// NewSealedFileStore returns a store that encrypts the file with passphrase.
func NewSealedFileStore(dir, baseURL, passphrase string, kdf KDFParams) *FileStore {
	if kdf.N == 0 {
		kdf = DefaultKDF
	}
	return &FileStore{dir: dir, baseURL: baseURL, passphrase: passphrase, kdf: kdf}
}

func (s *FileStore) path() string {
	if s.passphrase != "" {
		return filepath.Join(s.dir, sealedCredentialsFile)
	}
	return filepath.Join(s.dir, credentialsFile)
}

// load reads the whole base-URL keyed map.
func (s *FileStore) load() (map[string]domain.Credentials, error) {
	all := make(map[string]domain.Credentials)
	b, err := readFile(s.path())
	if err != nil || b == nil {
		return all, err
	}
	if s.passphrase != "" {
		pt, err := unseal(s.passphrase, b)
		if err != nil {
			return nil, err
		}
		defer memzero.Zero(pt)
		b = pt
	}
	if err := json.Unmarshal(b, &all); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path(), err)
	}
	return all, nil
}

func (s *FileStore) save(all map[string]domain.Credentials) error {
	if len(all) == 0 {
		return removeFile(s.path())
	}
	raw, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if s.passphrase == "" {
		return writeFile(s.path(), raw, 0o600)
	}
	defer memzero.Zero(raw)
	ct, err := seal(s.passphrase, raw, s.kdf)
	if err != nil {
		return err
	}
	return writeFile(s.path(), ct, 0o600)
}

// SaveCredentials stores or replaces the credentials for this base URL.
func (s *FileStore) SaveCredentials(_ context.Context, c domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	all[s.baseURL] = c
	return s.save(all)
}

// LoadCredentials returns the credentials for this base URL, if any.
func (s *FileStore) LoadCredentials(_ context.Context) (domain.Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return domain.Credentials{}, false, err
	}
	c, ok := all[s.baseURL]
	if !ok || c.Empty() {
		return domain.Credentials{}, false, nil
	}
	return c, true, nil
}

// ClearCredentials forgets this base URL. Clearing when nothing is stored is
// not an error.
func (s *FileStore) ClearCredentials(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := all[s.baseURL]; !ok {
		return nil
	}
	delete(all, s.baseURL)
	return s.save(all)
}

var _ domain.CredentialStore = (*FileStore)(nil)
