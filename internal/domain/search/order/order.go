// Package order describes sort keys over medicine fields and a stable comparator for them.
package order

import (
	"cmp"
	"strings"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// Key is a single sort key.
type Key struct {
	Field      medicine.Field
	Descending bool
}

// Asc returns an ascending key on f.
func Asc(f medicine.Field) Key { return Key{Field: f} }

// Desc returns a descending key on f.
func Desc(f medicine.Field) Key { return Key{Field: f, Descending: true} }

// Compare orders a and b by keys. Text fields compare byte-wise on the raw value,
// numeric fields numerically. Equal records return 0 so that a stable sort
// preserves catalog order.
func Compare(a, b *medicine.Medicine, keys []Key) int {
	for _, k := range keys {
		var c int
		if k.Field.IsNumeric() {
			av, _ := a.Number(k.Field)
			bv, _ := b.Number(k.Field)
			c = cmp.Compare(av, bv)
		} else {
			c = strings.Compare(a.Text(k.Field), b.Text(k.Field))
		}
		if k.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}
