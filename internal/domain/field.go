package domain

import "fmt"

// Field identifies a scored card attribute.
type Field int

const (
	FieldName Field = iota
	FieldCost
	FieldType
	FieldFaction
	FieldYear
	FieldResources
	FieldPacks
	FieldTraits
)

// Fields is the fixed scoring order used for feedback lines.
var Fields = []Field{
	FieldName,
	FieldCost,
	FieldType,
	FieldFaction,
	FieldYear,
	FieldResources,
	FieldPacks,
	FieldTraits,
}

var fieldNames = map[Field]string{
	FieldName:      "name",
	FieldCost:      "cost",
	FieldType:      "type",
	FieldFaction:   "faction",
	FieldYear:      "year",
	FieldResources: "resources",
	FieldPacks:     "packs",
	FieldTraits:    "traits",
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(fieldNames))
	for f, n := range fieldNames {
		m[n] = f
	}
	return m
}()

func (f Field) String() string {
	if n, ok := fieldNames[f]; ok {
		return n
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// IsSet reports whether the field holds a set of values.
func (f Field) IsSet() bool {
	return f == FieldResources || f == FieldPacks || f == FieldTraits
}

// IsNumeric reports whether the field supports higher/lower comparison.
func (f Field) IsNumeric() bool {
	return f == FieldCost || f == FieldYear
}

// ParseField maps a field name back to its Field.
func ParseField(s string) (Field, error) {
	f, ok := fieldsByName[s]
	if !ok {
		return 0, fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

func (f Field) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Field) UnmarshalText(b []byte) error {
	v, err := ParseField(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
