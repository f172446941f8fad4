package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"faturas/internal/core/entity"
	"faturas/internal/core/id"
	"faturas/internal/domain/catalogs/party"
	"faturas/internal/domain/taxid"
)

type mockCatalog struct {
	entity.BaseCatalog
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
	Hidden string `db:"-"`
	NoTag  string
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expectedCols := []string{"id", "deletion_mark", "version", "code", "name"}
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}

	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expectedCols))
}

func TestExtractDBColumns_Party(t *testing.T) {
	cols := ExtractDBColumns[party.Party]()

	for _, expected := range []string{"id", "code", "name", "kind", "tax_id", "email"} {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code:   "TEST",
		Name:   "Test Name",
		Hidden: "skip me",
		NoTag:  "skip me too",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
	assert.Len(t, m, 5)
}

func TestStructToMap_Pointer(t *testing.T) {
	taxID := "11144477735"
	p := party.NewParty(taxID, "Maria Silva", taxid.KindIndividual)
	p.TaxID = &taxID

	m := StructToMap(p)

	assert.Equal(t, p.ID, m["id"])
	assert.Equal(t, &taxID, m["tax_id"])
	assert.Equal(t, taxid.KindIndividual, m["kind"])
}
