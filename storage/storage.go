// Package storage writes exported chord sheets to a filesystem directory or
// a MinIO bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"WorshipHub/config"
)

// ErrInvalidName is returned for object names that are empty or escape the
// store root.
var ErrInvalidName = errors.New("invalid sheet name")

// ObjectInfo describes one stored sheet.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// SheetStore stores rendered sheets by name.
type SheetStore interface {
	// Put writes body under name and returns where it ended up.
	Put(ctx context.Context, name string, body []byte) (string, error)
	// List returns the stored sheets whose name starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// Open builds the store selected by cfg.SheetBackend.
func Open(ctx context.Context, cfg *config.Config) (SheetStore, error) {
	switch cfg.SheetBackend {
	case "", "dir":
		return NewDirStore(cfg.SheetDir), nil
	case "minio":
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown sheet backend %q", cfg.SheetBackend)
	}
}

// SheetName builds a stable object name such as "grace-in-d.txt".
func SheetName(title, key string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "sheet"
	}
	if key != "" {
		k := strings.ToLower(strings.NewReplacer("#", "sharp", "/", "-").Replace(key))
		name += "-in-" + k
	}
	return name + ".txt"
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// DirStore writes sheets below a local directory.
type DirStore struct {
	root string
}

// NewDirStore creates a store rooted at dir ("sheets" when empty).
func NewDirStore(dir string) *DirStore {
	if dir == "" {
		dir = "sheets"
	}
	return &DirStore{root: dir}
}

func (s *DirStore) Put(_ context.Context, name string, body []byte) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create sheet dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write sheet: %w", err)
	}
	return path, nil
}

func (s *DirStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == s.root {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, ObjectInfo{Key: key, Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
