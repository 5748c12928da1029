package catalog

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// hashFields are stored per medicine hash; values double as medicine.Field names.
var hashFields = []medicine.Field{
	medicine.FieldID,
	medicine.FieldName,
	medicine.FieldGenericName,
	medicine.FieldManufacturer,
	medicine.FieldCategory,
	medicine.FieldStrength,
	medicine.FieldUnit,
	medicine.FieldUnitSize,
	medicine.FieldPrice,
}

// buildHashFields converts a Medicine into a flat map for HSET.
func buildHashFields(m *medicine.Medicine) map[string]string {
	out := make(map[string]string, len(hashFields))
	for _, f := range hashFields {
		out[string(f)] = m.Text(f)
	}
	return out
}

// parseHashFields converts a stored hash back into a Medicine.
func parseHashFields(h map[string]string) (medicine.Medicine, error) {
	id := h[string(medicine.FieldID)]
	if id == "" {
		return medicine.Medicine{}, fmt.Errorf("hash has no %s field", medicine.FieldID)
	}
	unitSize, err := strconv.Atoi(h[string(medicine.FieldUnitSize)])
	if err != nil {
		return medicine.Medicine{}, fmt.Errorf("medicine %s: parse %s: %w", id, medicine.FieldUnitSize, err)
	}
	price, err := strconv.ParseFloat(h[string(medicine.FieldPrice)], 64)
	if err != nil {
		return medicine.Medicine{}, fmt.Errorf("medicine %s: parse %s: %w", id, medicine.FieldPrice, err)
	}
	return medicine.Reconstruct(medicine.Attrs{
		ID:           id,
		Name:         h[string(medicine.FieldName)],
		GenericName:  h[string(medicine.FieldGenericName)],
		Manufacturer: h[string(medicine.FieldManufacturer)],
		Category:     h[string(medicine.FieldCategory)],
		Strength:     h[string(medicine.FieldStrength)],
		Unit:         h[string(medicine.FieldUnit)],
		UnitSize:     unitSize,
		Price:        price,
	}), nil
}
