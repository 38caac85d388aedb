package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"svw.info/cardle/internal/ports"
)

// FS keeps one JSON file per key under dir.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

var _ ports.BlobStore = (*FS)(nil)

func validKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("invalid blob key %q", key)
	}
	return nil
}

func (s *FS) pathFor(key string) string {
	return filepath.Join(s.dir, strings.TrimSpace(key)+".json")
}

// Save writes through a temp file and rename so a crash never leaves a
// half-written blob behind.
func (s *FS) Save(ctx context.Context, key string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if json.Valid(data) {
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
	} else {
		buf.Write(data)
	}
	tmp, err := os.CreateTemp(s.dir, "."+strings.TrimSpace(key)+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.pathFor(key))
}

// Load reads <dir>/<key>.json, falling back to the extensionless legacy file.
func (s *FS) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates := []string{
		s.pathFor(key),
		filepath.Join(s.dir, strings.TrimSpace(key)), // legacy flat layout
	}
	for _, p := range candidates {
		b, err := os.ReadFile(p)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return nil, ports.ErrNotFound
}

// Keys lists the stored keys, sorted by file name.
func (s *FS) Keys(ctx context.Context) ([]string, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	return out, nil
}
