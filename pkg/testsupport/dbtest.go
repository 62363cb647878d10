package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a private in-memory SQLite database. Each call gets
// its own named database so tests in one package do not share rows.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	dsn := fmt.Sprintf("file:storefront-%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	return sql.Open("sqlite3", dsn)
}

// NewBunDB returns a bun handle over a fresh in-memory database with a table
// created for every model. The database closes when the test ends.
func NewBunDB(t testing.TB, models ...any) *bun.DB {
	t.Helper()

	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx := context.Background()
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	return db
}

// Insert writes each record with bun, failing the test on error.
func Insert(t testing.TB, db bun.IDB, records ...any) {
	t.Helper()
	ctx := context.Background()
	for _, record := range records {
		if _, err := db.NewInsert().Model(record).Exec(ctx); err != nil {
			t.Fatalf("insert %T: %v", record, err)
		}
	}
}
