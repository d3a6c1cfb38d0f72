package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/migrate"
)

func newTestStore(t *testing.T) *db.Client {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    dsn,
	}, nil)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(context.Background(), sqlDB, config.DriverSQLite); err != nil {
		t.Fatalf("apply DDL: %v", err)
	}
	return client
}

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := newTestStore(t)
	svc, err := NewService(NewRepository(client.DB()), client)
	if err != nil {
		t.Fatalf("build catalog service: %v", err)
	}
	return svc, client
}
