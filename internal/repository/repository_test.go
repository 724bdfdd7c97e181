package repository

import (
	"testing"

	"shinypull/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Creator{}, &model.CreatorStat{}, &model.CreatorRequest{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustUpsertCreator(t *testing.T, repo CreatorRepo, creator *model.Creator) *model.Creator {
	t.Helper()
	saved, err := repo.UpsertCreator(t.Context(), creator)
	if err != nil {
		t.Fatalf("UpsertCreator: %v", err)
	}
	if saved == nil || saved.ID == 0 {
		t.Fatal("UpsertCreator returned no persisted row")
	}
	return saved
}
