package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"svw.info/cardle/internal/domain"
	"svw.info/cardle/internal/ports"
)

// FileSource reads the ordered card list from a JSON array on disk.
type FileSource struct{ path string }

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

var _ ports.CatalogSource = (*FileSource)(nil)

func (s *FileSource) Load(ctx context.Context) ([]domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cards []domain.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", s.path, err)
	}
	return cards, nil
}

// Static serves a fixed card list.
type Static []domain.Card

func (s Static) Load(context.Context) ([]domain.Card, error) { return s, nil }
