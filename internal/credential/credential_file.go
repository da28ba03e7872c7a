package credential

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const fileExt = ".cred"

// FileStore writes one file per key under dir. With a non-nil AEAD the
// content is nonce||ciphertext in hex, otherwise the raw value.
type FileStore struct {
	dir  string
	aead cipher.AEAD
	mu   sync.Mutex
}

// NewSecureFileStore encrypts values with a 32-byte AES key.
func NewSecureFileStore(dir string, key []byte) (*FileStore, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("credential: secure store needs a 32-byte key, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, aead: gcm}, nil
}

// NewPlainFileStore stores values unencrypted. Weaker than the secure store by design.
func NewPlainFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Warn("credential store is not encrypted; use the secure backend where a key is available",
			zap.String("dir", dir),
		)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if s.aead == nil {
		return string(raw), true, nil
	}
	plain, err := s.open(string(raw))
	if err != nil {
		return "", false, err
	}
	return plain, true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	content := value
	if s.aead != nil {
		sealed, err := s.seal(value)
		if err != nil {
			return err
		}
		content = sealed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// tulis ke file sementara dulu, lalu rename supaya atomic
	target := s.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	ciphertext := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

func (s *FileStore) open(cipherHex string) (string, error) {
	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	nonceSize := s.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrCorrupt)
	}
	nonce, body := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plain, err := s.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("%w: decryption failed (wrong key or tampered data)", ErrCorrupt)
	}
	return string(plain), nil
}
