package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
)

func testRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "code", "name"}, func() any { return nil })
}

func TestBaseSelect_SQL(t *testing.T) {
	repo := testRepo()

	q := repo.baseSelect().Where(squirrel.Eq{"code": "X1"})

	sql, args, err := q.ToSql()
	if err != nil {
		t.Fatalf("ToSql failed: %v", err)
	}

	wantSQL := "SELECT id, code, name FROM test_table WHERE code = $1"
	if sql != wantSQL {
		t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", wantSQL, sql)
	}
	if len(args) != 1 || args[0] != "X1" {
		t.Errorf("args mismatch: %v", args)
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := testRepo()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "name ASC"},
		{in: "code", want: "code ASC"},
		{in: "-code", want: "code DESC"},
		{in: "+name", want: "name ASC"},
		{in: "created_at", want: "created_at ASC"},
		{in: "evil; DROP TABLE test_table", wantErr: true},
		{in: "unknown_col", wantErr: true},
		{in: "-", wantErr: true},
	}

	for _, tt := range tests {
		got, err := repo.parseOrderBy(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseOrderBy(%q): expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseOrderBy(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}
