package medicine

// Field names a Medicine attribute.
type Field string

// Field constants. Values double as storage column / hash field names.
const (
	FieldID           Field = "id"
	FieldName         Field = "name"
	FieldGenericName  Field = "generic_name"
	FieldManufacturer Field = "manufacturer"
	FieldCategory     Field = "category"
	FieldStrength     Field = "strength"
	FieldUnit         Field = "unit"
	FieldUnitSize     Field = "unit_size"
	FieldPrice        Field = "price"
)

// aliases maps the catalog's legacy wire names onto canonical fields.
var aliases = map[string]Field{
	"medicine_name":     FieldName,
	"manufacturer_name": FieldManufacturer,
	"category_name":     FieldCategory,
	"genericName":       FieldGenericName,
	"unitSize":          FieldUnitSize,
}

// ParseField resolves a canonical or legacy field name.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	if f.IsValid() {
		return f, true
	}
	if a, ok := aliases[s]; ok {
		return a, true
	}
	return "", false
}

// IsValid reports whether f names a known attribute.
func (f Field) IsValid() bool {
	switch f {
	case FieldID, FieldName, FieldGenericName, FieldManufacturer, FieldCategory,
		FieldStrength, FieldUnit, FieldUnitSize, FieldPrice:
		return true
	}
	return false
}

// IsNumeric reports whether the field holds a number.
func (f Field) IsNumeric() bool {
	return f == FieldPrice || f == FieldUnitSize
}
