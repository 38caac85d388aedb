package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"svw.info/cardle/internal/domain"
)

// CatalogValidator checks catalog entries before they are indexed.
type CatalogValidator struct {
	v *validator.Validate
}

func New() *CatalogValidator {
	return &CatalogValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate normalises set-valued fields (nil becomes empty) and checks required
// fields and code uniqueness. It returns the normalised cards and every problem
// found, joined.
func (cv *CatalogValidator) Validate(cards []domain.Card) ([]domain.Card, error) {
	out := make([]domain.Card, len(cards))
	seen := make(map[string]int, len(cards))
	var errs []error
	for i, c := range cards {
		if c.Resources == nil {
			c.Resources = []domain.Resource{}
		}
		if c.Packs == nil {
			c.Packs = []domain.Pack{}
		}
		if c.Traits == nil {
			c.Traits = []string{}
		}
		c.Missing = false
		out[i] = c

		if err := cv.v.Struct(c); err != nil {
			var ves validator.ValidationErrors
			if errors.As(err, &ves) {
				for _, fe := range ves {
					errs = append(errs, fmt.Errorf("card %d (%q): %s failed %q", i, c.Code, fe.Field(), fe.Tag()))
				}
			} else {
				errs = append(errs, fmt.Errorf("card %d: %w", i, err))
			}
		}
		if c.Code == "" {
			continue
		}
		if first, dup := seen[c.Code]; dup {
			errs = append(errs, fmt.Errorf("card %d: code %q already used by card %d", i, c.Code, first))
			continue
		}
		seen[c.Code] = i
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Catalog validates cards and builds the indexed catalog.
func (cv *CatalogValidator) Catalog(cards []domain.Card) (*domain.Catalog, error) {
	norm, err := cv.Validate(cards)
	if err != nil {
		return nil, err
	}
	return domain.NewCatalog(norm)
}
