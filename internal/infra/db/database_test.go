package db

import (
	"context"
	"testing"
	"time"

	"github.com/finance-tracker/categorizer/config"
)

func TestNewConnection(t *testing.T) {
	t.Run("opens sqlite and migrates", func(t *testing.T) {
		cfg := &config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			URL:             "file::memory:?cache=shared",
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Minute,
			ConnectAttempts: 1,
		}

		database, err := NewConnection(context.Background(), cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer database.Close()

		if !database.HealthCheck() {
			t.Error("expected health check to pass")
		}

		type probe struct {
			ID   uint
			Name string
		}
		if err := database.AutoMigrate(&probe{}); err != nil {
			t.Fatalf("expected migration to succeed, got %v", err)
		}
		if !database.DB().Migrator().HasTable(&probe{}) {
			t.Error("expected probe table to exist")
		}
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		cfg := &config.DatabaseConfig{Driver: "oracle", ConnectAttempts: 3}

		_, err := NewConnection(context.Background(), cfg)
		if err == nil {
			t.Fatal("expected error for unsupported driver")
		}
	})
}
