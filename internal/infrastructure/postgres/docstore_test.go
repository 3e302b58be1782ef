package postgres

import (
	"fmt"
	"testing"

	"smtm/internal/domain/store"
	"smtm/internal/models"
)

func TestBuildSelect(t *testing.T) {
	q := store.NewQuery(models.KindTransaction).
		Where(models.FieldUser, "u1").
		Where(models.FieldAccount, "acc")

	query, args, err := buildSelect(q)
	if err != nil {
		t.Fatalf("buildSelect() failed: %v", err)
	}

	want := "SELECT id, data FROM entities WHERE kind = $1 AND data->>($2::text) = $3 AND data->>($4::text) = $5 ORDER BY seq"
	if query != want {
		t.Errorf("query = %q\nwant    %q", query, want)
	}

	wantArgs := []any{"Transaction", "user", "u1", "account", "acc"}
	if fmt.Sprint(args) != fmt.Sprint(wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestBuildUpsert(t *testing.T) {
	k := models.Key{Kind: models.KindAccount, ID: "a1"}

	query, args, err := buildUpsert(k, []byte(`{"user":"u1","name":"Checking"}`))
	if err != nil {
		t.Fatalf("buildUpsert() failed: %v", err)
	}

	want := "INSERT INTO entities (kind,id,data) VALUES ($1,$2,$3) " +
		"ON CONFLICT (kind, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()"
	if query != want {
		t.Errorf("query = %q\nwant    %q", query, want)
	}
	if len(args) != 3 || args[0] != "Account" || args[1] != "a1" {
		t.Errorf("args = %v", args)
	}
}
