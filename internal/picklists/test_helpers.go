package picklists

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/pkg/config"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
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
		t.Fatalf("build picklists service: %v", err)
	}
	return svc, client
}

func seedArea(t *testing.T, client *db.Client, id, name string) {
	t.Helper()
	if err := client.DB().Create(&models.Area{ID: id, Name: name}).Error; err != nil {
		t.Fatalf("seed area: %v", err)
	}
}

func seedCategory(t *testing.T, client *db.Client, id, name string) {
	t.Helper()
	if err := client.DB().Create(&models.Category{ID: id, Name: name}).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func seedProduct(t *testing.T, client *db.Client, id, name string) {
	t.Helper()
	if err := client.DB().Create(&models.Product{ID: id, Name: name, UnitType: "unit"}).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
}
