package service

import (
	"context"
	"io"
	"testing"

	"go-vendsync/internal/gateway"
	"go-vendsync/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Product{}, &model.Slot{}, &model.Stock{}, &model.Transaction{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeGateway serves canned payloads in place of the vending cloud API.
type fakeGateway struct {
	slots    *gateway.SlotDetailsPayload
	slotsErr error
	sales    *gateway.SalesPayload
	salesErr error
}

func (f *fakeGateway) FetchSlotDetails(_ context.Context, _ int) (*gateway.SlotDetailsPayload, error) {
	if f.slotsErr != nil {
		return nil, f.slotsErr
	}
	return f.slots, nil
}

func (f *fakeGateway) FetchSales(_ context.Context, _ int) (*gateway.SalesPayload, error) {
	if f.salesErr != nil {
		return nil, f.salesErr
	}
	return f.sales, nil
}
