package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store keeps model responses on disk, one JSON file per prompt digest.
type Store struct {
	Dir string
	// StrictPerms restricts the directory to 0700 and entries to 0600.
	StrictPerms bool
}

// Key digests the model name and the full prompt.
func Key(model string, prompt string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + prompt))
	return hex.EncodeToString(h[:])
}

func (s *Store) dirMode() os.FileMode {
	if s.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (s *Store) fileMode() os.FileMode {
	if s.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (s *Store) ensureDir() error {
	if s == nil || strings.TrimSpace(s.Dir) == "" {
		return errors.New("cache dir not configured")
	}
	if err := os.MkdirAll(s.Dir, s.dirMode()); err != nil {
		return err
	}
	if s.StrictPerms {
		if info, err := os.Stat(s.Dir); err == nil && info.Mode().Perm() != 0o700 {
			_ = os.Chmod(s.Dir, 0o700)
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".json")
}

// Get returns the cached entry for key. A miss is not an error.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := s.ensureDir(); err != nil {
		return nil, false, err
	}
	p := s.path(key)
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, false, nil
	}
	// refresh mtime so age-based purging keeps hot entries
	now := time.Now()
	_ = os.Chtimes(p, now, now)
	return b, true, nil
}

// Put stores data under key.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	if err := s.ensureDir(); err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, s.fileMode())
}

// PurgeOlderThan deletes entries not touched within maxAge and returns how
// many were removed. A non-positive maxAge disables purging.
func PurgeOlderThan(dir string, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil || info.ModTime().After(cutoff) {
			return nil
		}
		if os.Remove(path) == nil {
			removed++
		}
		return nil
	})
	return removed, err
}

// Clear removes every entry and leaves an empty directory behind.
func Clear(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return errors.New("empty dir")
	}
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
