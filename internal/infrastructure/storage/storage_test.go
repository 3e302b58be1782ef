package storage

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"smtm/internal/infrastructure/memory"
	"smtm/internal/shared/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreMemory}}

	b, err := Open(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, ok := b.Store.(*memory.Store); !ok {
		t.Errorf("Store = %T, want *memory.Store", b.Store)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name   string
		driver string
	}{
		{"unknown driver", "mongo"},
		{"firestore without app", config.StoreFirestore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{Driver: tt.driver}}
			if _, err := Open(context.Background(), cfg, nil, zap.NewNop()); err == nil {
				t.Error("Open() expected error, got nil")
			}
		})
	}
}
