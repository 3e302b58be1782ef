package postgres

import (
	"strings"
	"testing"
)

func TestStatementText(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id, data FROM entities WHERE kind = $1", "SELECT id, data FROM entities WHERE kind = $1"},
		{"SELECT id\n\t  FROM entities\n WHERE id = $1", "SELECT id FROM entities WHERE id = $1"},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := statementText(tt.query); got != tt.want {
			t.Errorf("statementText(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestStatementText_Truncates(t *testing.T) {
	got := statementText(strings.Repeat("x", 300))
	if len(got) != maxStatementLen+len("...") || !strings.HasSuffix(got, "...") {
		t.Errorf("len = %d, want %d", len(got), maxStatementLen+len("..."))
	}
}

func TestSQLOperation(t *testing.T) {
	tests := map[string]string{
		"select 1":                          "SELECT",
		"\n  INSERT INTO entities (kind) ..": "INSERT",
		"DELETE":                            "DELETE",
		"":                                  "UNKNOWN",
	}
	for query, want := range tests {
		if got := sqlOperation(query); got != want {
			t.Errorf("sqlOperation(%q) = %q, want %q", query, got, want)
		}
	}
}
