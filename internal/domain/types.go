package domain

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// ErrCatalogNotReady is returned while the catalog is empty.
var ErrCatalogNotReady = errors.New("catalog not loaded")

// ErrUnknownCard is returned when a code is not part of the catalog.
var ErrUnknownCard = errors.New("unknown card code")

// MissingName is shown in place of cards the catalog no longer contains.
const MissingName = "???"

// Card is a catalog entry. Cards are immutable once the catalog is loaded.
type Card struct {
	Code      string     `json:"code" validate:"required"`
	Cost      *int       `json:"cost,omitempty"`
	Type      CardType   `json:"type" validate:"required"`
	Faction   Faction    `json:"faction" validate:"required"`
	Year      int        `json:"year,omitempty" validate:"gte=0"`
	Name      string     `json:"name" validate:"required"`
	NameDE    string     `json:"name_de,omitempty"`
	Resources []Resource `json:"resources"`
	Packs     []Pack     `json:"packs"`
	Traits    []string   `json:"traits"`

	// Missing marks the placeholder for a code the catalog does not contain.
	Missing bool `json:"missing,omitempty"`
}

// MissingCard returns the placeholder used for unknown codes.
func MissingCard(code string) Card {
	return Card{
		Code:      code,
		Name:      MissingName,
		Resources: []Resource{},
		Packs:     []Pack{},
		Traits:    []string{},
		Missing:   true,
	}
}

// DisplayName picks the German name when requested and present.
func (c Card) DisplayName(german bool) string {
	if german && c.NameDE != "" {
		return c.NameDE
	}
	return c.Name
}

// FirstLetter returns the first rune of the display name, or "" for empty names.
func (c Card) FirstLetter(german bool) string {
	name := c.DisplayName(german)
	if name == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(r)
}

// Scalar returns the textual value of a scalar field. Absent values are "".
func (c Card) Scalar(f Field, german bool) string {
	switch f {
	case FieldName:
		return c.DisplayName(german)
	case FieldCost:
		if c.Cost == nil {
			return ""
		}
		return strconv.Itoa(*c.Cost)
	case FieldType:
		return string(c.Type)
	case FieldFaction:
		return string(c.Faction)
	case FieldYear:
		if c.Year == 0 {
			return ""
		}
		return strconv.Itoa(c.Year)
	}
	return ""
}

// Set returns the elements of a set-valued field.
func (c Card) Set(f Field) []string {
	switch f {
	case FieldResources:
		out := make([]string, len(c.Resources))
		for i, r := range c.Resources {
			out[i] = string(r)
		}
		return out
	case FieldPacks:
		out := make([]string, len(c.Packs))
		for i, p := range c.Packs {
			out[i] = string(p)
		}
		return out
	case FieldTraits:
		return append([]string{}, c.Traits...)
	}
	return nil
}

// Number returns the numeric value of cost or year; ok is false when absent.
func (c Card) Number(f Field) (n int, ok bool) {
	switch f {
	case FieldCost:
		if c.Cost != nil {
			return *c.Cost, true
		}
	case FieldYear:
		if c.Year != 0 {
			return c.Year, true
		}
	}
	return 0, false
}
