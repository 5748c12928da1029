package catalog

import (
	"context"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/kailas-cloud/medidex/internal/db"
	"github.com/kailas-cloud/medidex/internal/db/sqlite"
	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// memStore is an in-process kvStore for KV tests.
type memStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	lists  map[string][]string
	kv     map[string]int64

	pingErr   error
	lrangeErr error
	getErr    error
	lranges   int
}

func newMemStore() *memStore {
	return &memStore{
		hashes: make(map[string]map[string]string),
		lists:  make(map[string][]string),
		kv:     make(map[string]int64),
	}
}

func (m *memStore) Ping(_ context.Context) error { return m.pingErr }

func (m *memStore) HSetMulti(_ context.Context, items []db.HashSetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range items {
		h := make(map[string]string, len(it.Fields))
		for k, v := range it.Fields {
			h[k] = v
		}
		m.hashes[it.Key] = h
	}
	return nil
}

func (m *memStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = m.hashes[k]
		if out[i] == nil {
			out[i] = map[string]string{}
		}
	}
	return out, nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.hashes, k)
		delete(m.lists, k)
		delete(m.kv, k)
	}
	return nil
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return []byte(strconv.FormatInt(v, 10)), nil
}

func (m *memStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] += val
	return m.kv[key], nil
}

func (m *memStore) RPush(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func (m *memStore) LRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lranges++
	if m.lrangeErr != nil {
		return nil, m.lrangeErr
	}
	return slices.Clone(m.lists[key]), nil
}

// backends returns a fresh instance of every catalog backend.
func backends(t *testing.T) map[string]Catalog {
	t.Helper()
	conn, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return map[string]Catalog{
		DriverMemory: NewMemory(),
		"kv":         NewKV(newMemStore(), ""),
		DriverSQLite: NewSQL(conn),
	}
}

func med(id, name, generic, manufacturer, category, strength string, price float64) medicine.Medicine {
	m, err := medicine.New(medicine.Attrs{
		ID:           id,
		Name:         name,
		GenericName:  generic,
		Manufacturer: manufacturer,
		Category:     category,
		Strength:     strength,
		Unit:         "strip",
		UnitSize:     10,
		Price:        price,
	})
	if err != nil {
		panic(err)
	}
	return m
}

// testRecords is deliberately not in name order; m2/m5 and m3/m6 share names.
func testRecords() []medicine.Medicine {
	return []medicine.Medicine{
		med("m1", "Seclo", "Omeprazole", "Square Pharmaceuticals", "Capsule", "20 mg", 12),
		med("m2", "Napa", "Paracetamol", "Beximco", "Tablet", "500 mg", 1),
		med("m3", "Ace Plus", "Paracetamol + Caffeine", "Square Pharmaceuticals", "Tablet", "500 mg+65 mg", 2.5),
		med("m4", "Maxpro", "Esomeprazole", "Renata", "Capsule", "40 mg", 9),
		med("m5", "Napa", "Paracetamol", "Beximco", "Suspension", "120 mg/5 ml", 30),
		med("m6", "Ace Plus", "Paracetamol + Caffeine", "Square Pharmaceuticals", "Tablet", "", 1200),
		med("m7", "50% Dextrose", "Glucose", "Opsonin", "IV Infusion", "50%", 85),
	}
}

func seed(t *testing.T, c Catalog) {
	t.Helper()
	if err := c.Insert(context.Background(), testRecords()); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func idsOf(records []medicine.Medicine) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].ID()
	}
	return out
}
