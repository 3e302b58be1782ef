package models

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestKey_EncodeParseRoundtrip(t *testing.T) {
	kinds := []Kind{KindAccount, KindTransaction, KindCategory, KindSubcategory, KindPlace}

	for _, kind := range kinds {
		k := Key{Kind: kind, ID: "3f0c9a1e-0000-4000-8000-000000000001"}

		parsed, err := ParseKey(k.Encode())
		if err != nil {
			t.Fatalf("ParseKey(%s) failed: %v", k, err)
		}
		if parsed != k {
			t.Errorf("ParseKey() = %v, want %v", parsed, k)
		}
	}
}

func TestKey_EncodeIsURLSafe(t *testing.T) {
	// Firestore auto-IDs are 20 alphanumerics; some of these encode to '-' and '_'.
	k := Key{Kind: KindTransaction, ID: "zZ9xQ7pL2mK4nB6vC8dF"}
	enc := k.Encode()

	for _, c := range enc {
		if c == '/' || c == '+' || c == '=' || c == '?' {
			t.Fatalf("Encode() = %q contains unsafe character %q", enc, c)
		}
	}

	parsed, err := ParseKey(enc)
	if err != nil {
		t.Fatalf("ParseKey() failed: %v", err)
	}
	if parsed != k {
		t.Errorf("ParseKey() = %v, want %v", parsed, k)
	}
}

func TestKey_IncompleteEncodesEmpty(t *testing.T) {
	k := NewIncompleteKey(KindAccount)
	if !k.Incomplete() {
		t.Error("NewIncompleteKey() should be incomplete")
	}
	if k.Encode() != "" {
		t.Errorf("Encode() = %q, want empty", k.Encode())
	}
}

func TestParseKey_Malformed(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Not Base64", "not base64!"},
		{"No Separator", enc("Account")},
		{"Empty ID", enc("Account/")},
		{"Unknown Kind", enc("Budget/123")},
		{"Lowercase Kind", enc("account/123")},
		{"Plain Name", "Checking"},
		{"Slash In ID", enc("Account/a/b")},
		{"Invalid UTF-8 ID", enc("Account/\xff\xfe")},
		{"NUL In ID", enc("Account/x\x00y")},
		{"Space ID", enc("Account/ ")},
		{"Punctuation In ID", enc("Account/a+b?c")},
		{"Overlong ID", enc("Account/" + strings.Repeat("a", maxIDLen+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKey(tt.input)
			if !errors.Is(err, ErrMalformedKey) {
				t.Errorf("ParseKey(%q) error = %v, want %v", tt.input, err, ErrMalformedKey)
			}
		})
	}
}

func TestNewEntity(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindAccount, "*models.Account"},
		{KindTransaction, "*models.Transaction"},
		{KindCategory, "*models.Category"},
		{KindSubcategory, "*models.Subcategory"},
		{KindPlace, "*models.Place"},
	}

	for _, tt := range tests {
		e, err := NewEntity(tt.kind)
		if err != nil {
			t.Fatalf("NewEntity(%s) failed: %v", tt.kind, err)
		}
		if got := typeName(e); got != tt.want {
			t.Errorf("NewEntity(%s) = %s, want %s", tt.kind, got, tt.want)
		}
	}

	if _, err := NewEntity("Budget"); err == nil {
		t.Error("NewEntity() expected error for unknown kind, got nil")
	}
}

func typeName(e Entity) string {
	switch e.(type) {
	case *Account:
		return "*models.Account"
	case *Transaction:
		return "*models.Transaction"
	case *Category:
		return "*models.Category"
	case *Subcategory:
		return "*models.Subcategory"
	case *Place:
		return "*models.Place"
	}
	return "unknown"
}
