package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/catalog"
	"github.com/JamersonCarlos/beauty-salon-web/internal/wire"
)

type memStore struct {
	mu       sync.Mutex
	existing []catalog.Product
	batches  [][]catalog.Product
	err      error
}

func (m *memStore) ListProducts(context.Context) ([]catalog.Product, error) {
	return m.existing, nil
}

func (m *memStore) UpsertProducts(_ context.Context, products []catalog.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, append([]catalog.Product(nil), products...))
	return nil
}

func (m *memStore) written() []catalog.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []catalog.Product
	for _, b := range m.batches {
		out = append(out, b...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func product(code, name string) catalog.Product {
	return catalog.Product{Code: code, Name: name, SalePrice: decimal.NewFromInt(10), Available: true}
}

func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := pgzip.NewWriter(f)
	_, err = gz.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
	return path
}

func line(p catalog.Product) string {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	wire.WriteProduct(e, p)
	return e.String()
}

func newImporter(t *testing.T, st store) *importer {
	return &importer{
		lg:    zaptest.NewLogger(t),
		store: st,
		cfg:   importConfig{BatchSize: 2, Capacity: 1000, FPR: 0.01},
	}
}

func names(products []catalog.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestImporter_RejectsDuplicateCodes(t *testing.T) {
	a := writeFile(t, "a.jsonl.gz",
		line(product("SH-001", "A shampoo")),
		line(product("CD-001", "A conditioner")),
		line(product("cd-001", "A conditioner again")),
		line(product("", "A no code")),
	)
	b := writeFile(t, "b.jsonl.gz",
		line(product("sh-001 ", "B shampoo")),
		line(product("ES-010", "B polish")),
		"",
		line(product("", "B no code")),
	)

	st := &memStore{}
	res, err := newImporter(t, st).Run(context.Background(), []string{a, b})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"sh-001": 2, "cd-001": 2}, res.Duplicates)
	assert.Equal(t, 4, res.Rejected)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, []string{"A no code", "B no code", "B polish"}, names(st.written()))
	for _, b := range st.batches {
		assert.LessOrEqual(t, len(b), 2)
	}
}

func TestImporter_ReusesExistingIDs(t *testing.T) {
	path := writeFile(t, "a.jsonl.gz",
		line(product("SH-001", "Shampoo v2")),
		line(product("NEW-1", "New product")),
	)
	st := &memStore{existing: []catalog.Product{
		{ID: "5b0f7a3e-1c2d-4e8f-9a61-0d3c2b1a0f01", Code: "sh-001", Name: "Shampoo"},
	}}

	res, err := newImporter(t, st).Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Empty(t, res.Duplicates)

	got := st.written()
	require.Len(t, got, 2)
	assert.Equal(t, "New product", got[0].Name)
	assert.Empty(t, got[0].ID)
	assert.Equal(t, "Shampoo v2", got[1].Name)
	assert.Equal(t, "5b0f7a3e-1c2d-4e8f-9a61-0d3c2b1a0f01", got[1].ID)
}

func TestImporter_MalformedLine(t *testing.T) {
	path := writeFile(t, "bad.jsonl.gz",
		line(product("SH-001", "Shampoo")),
		`{"nome": `,
	)
	_, err := newImporter(t, &memStore{}).Run(context.Background(), []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.jsonl.gz:2")
}

func TestImporter_StoreError(t *testing.T) {
	path := writeFile(t, "a.jsonl.gz",
		line(product("A", "a")),
		line(product("B", "b")),
		line(product("C", "c")),
	)
	st := &memStore{err: errors.New("connection reset")}
	_, err := newImporter(t, st).Run(context.Background(), []string{path})
	require.ErrorContains(t, err, "connection reset")
}

func TestImporter_NotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(line(product("A", "a"))), 0o600))
	_, err := newImporter(t, &memStore{}).Run(context.Background(), []string{path})
	require.Error(t, err)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "sh-001", normalizeCode("  SH-001 "))
	assert.Equal(t, "", normalizeCode("   "))
}
