package medicine

import (
	"fmt"
	"math"
	"strconv"
)

// Medicine is a catalog record (immutable value object).
type Medicine struct {
	id           string
	name         string
	genericName  string
	manufacturer string
	category     string
	strength     string
	unit         string
	unitSize     int
	price        float64
}

// Attrs carries the raw attributes used to build a Medicine.
type Attrs struct {
	ID           string
	Name         string
	GenericName  string
	Manufacturer string
	Category     string
	Strength     string
	Unit         string
	UnitSize     int
	Price        float64
}

// New validates and creates a Medicine.
// ID and name are required, unit size must be positive, price non-negative.
func New(a Attrs) (Medicine, error) {
	if a.ID == "" {
		return Medicine{}, fmt.Errorf("medicine ID is required")
	}
	if a.Name == "" {
		return Medicine{}, fmt.Errorf("medicine name is required")
	}
	if a.UnitSize <= 0 {
		return Medicine{}, fmt.Errorf("unit size must be positive, got %d", a.UnitSize)
	}
	if a.Price < 0 || math.IsNaN(a.Price) || math.IsInf(a.Price, 0) {
		return Medicine{}, fmt.Errorf("price must be a non-negative number, got %v", a.Price)
	}
	return Reconstruct(a), nil
}

// Reconstruct creates a Medicine without validation (storage hydration).
func Reconstruct(a Attrs) Medicine {
	return Medicine{
		id:           a.ID,
		name:         a.Name,
		genericName:  a.GenericName,
		manufacturer: a.Manufacturer,
		category:     a.Category,
		strength:     a.Strength,
		unit:         a.Unit,
		unitSize:     a.UnitSize,
		price:        a.Price,
	}
}

// ID returns the stable record identifier.
func (m *Medicine) ID() string { return m.id }

// Name returns the brand name.
func (m *Medicine) Name() string { return m.name }

// GenericName returns the generic (active ingredient) name.
func (m *Medicine) GenericName() string { return m.genericName }

// Manufacturer returns the manufacturer name.
func (m *Medicine) Manufacturer() string { return m.manufacturer }

// Category returns the dosage-form category.
func (m *Medicine) Category() string { return m.category }

// Strength returns the strength label, possibly empty.
func (m *Medicine) Strength() string { return m.strength }

// Unit returns the pack unit.
func (m *Medicine) Unit() string { return m.unit }

// UnitSize returns the number of units per pack.
func (m *Medicine) UnitSize() int { return m.unitSize }

// Price returns the pack price.
func (m *Medicine) Price() float64 { return m.price }

// Attrs returns a copy of the record attributes.
func (m *Medicine) Attrs() Attrs {
	return Attrs{
		ID:           m.id,
		Name:         m.name,
		GenericName:  m.genericName,
		Manufacturer: m.manufacturer,
		Category:     m.category,
		Strength:     m.strength,
		Unit:         m.unit,
		UnitSize:     m.unitSize,
		Price:        m.price,
	}
}

// Text returns the value of a text field. Numeric fields are rendered
// with strconv so that text matching over them stays well-defined.
func (m *Medicine) Text(f Field) string {
	switch f {
	case FieldID:
		return m.id
	case FieldName:
		return m.name
	case FieldGenericName:
		return m.genericName
	case FieldManufacturer:
		return m.manufacturer
	case FieldCategory:
		return m.category
	case FieldStrength:
		return m.strength
	case FieldUnit:
		return m.unit
	case FieldUnitSize:
		return strconv.Itoa(m.unitSize)
	case FieldPrice:
		return strconv.FormatFloat(m.price, 'f', -1, 64)
	}
	return ""
}

// Number returns the value of a numeric field.
func (m *Medicine) Number(f Field) (float64, bool) {
	switch f {
	case FieldPrice:
		return m.price, true
	case FieldUnitSize:
		return float64(m.unitSize), true
	}
	return 0, false
}
