package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"hackorsnooze/internal/util/memzero"
)

const sealedFormatVersion = 1

// ErrWrongPassphrase is returned when a sealed file cannot be opened with the
// configured passphrase, or has been tampered with.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted credentials")

// KDFParams are the scrypt cost parameters.
type KDFParams struct {
	N, R, P int
}

// DefaultKDF is used unless a store is configured otherwise.
var DefaultKDF = KDFParams{N: 1 << 15, R: 8, P: 1}

// Upper bounds on parameters read back from a sealed file. N=1<<20 with r=8
// already needs 1GiB.
const (
	maxScryptN = 1 << 20
	maxScryptR = 32
	maxScryptP = 16
)

// check rejects parameters scrypt would refuse or that cost too much memory.
func (k KDFParams) check() error {
	if k.N <= 1 || k.N > maxScryptN || k.N&(k.N-1) != 0 {
		return fmt.Errorf("scrypt N=%d out of range", k.N)
	}
	if k.R < 1 || k.R > maxScryptR || k.P < 1 || k.P > maxScryptP {
		return fmt.Errorf("scrypt r=%d p=%d out of range", k.R, k.P)
	}
	return nil
}

// sealed is the on-disk JSON structure holding the ciphertext and KDF parameters.
type sealed struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

func deriveKey(passphrase string, salt []byte, kdf KDFParams) ([]byte, error) {
	pass := []byte(passphrase)
	defer memzero.Zero(pass)
	return scrypt.Key(pass, salt, kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
}

// seal encrypts raw under a key derived from passphrase.
func seal(passphrase string, raw []byte, kdf KDFParams) ([]byte, error) {
	salt := make([]byte, 16)
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	key, err := deriveKey(passphrase, salt, kdf)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sealed{
		V:      sealedFormatVersion,
		Salt:   salt,
		Nonce:  nonce,
		N:      kdf.N,
		R:      kdf.R,
		P:      kdf.P,
		Cipher: aead.Seal(nil, nonce, raw, salt),
	})
}

// unseal opens b with a key derived from passphrase.
func unseal(passphrase string, b []byte) ([]byte, error) {
	var s sealed
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode sealed credentials: %w", err)
	}
	if s.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported credentials format version %d", s.V)
	}
	kdf := KDFParams{N: s.N, R: s.R, P: s.P}
	if err := kdf.check(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
	}
	key, err := deriveKey(passphrase, s.Salt, kdf)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	if len(s.Nonce) != aead.NonceSize() {
		return nil, ErrWrongPassphrase
	}
	pt, err := aead.Open(nil, s.Nonce, s.Cipher, s.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
