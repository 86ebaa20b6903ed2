package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		file   string
	}{
		{name: "default driver", driver: "", file: "todos.db"},
		{name: "sqlite", driver: DriverSQLite, file: "todos.db"},
		{name: "bolt", driver: DriverBolt, file: "todos.bolt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(tt.driver, filepath.Join(t.TempDir(), tt.file))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}

			defer func() { _ = s.Close() }()

			if err := s.Ping(context.Background()); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("postgres", filepath.Join(t.TempDir(), "x"))
	if !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("Open() error = %v, want ErrUnknownDriver", err)
	}
}
