package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pankajredekar/shopadmin/internal/config"
)

func TestConnectUnsupported(t *testing.T) {
	_, err := Connect("oracle://localhost/db", nil)
	assert.Error(t, err)
}

func TestOpenSQLiteMemory(t *testing.T) {
	cfg := config.Default()
	cfg.DatabaseURL = "sqlite://:memory:"

	db, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	defer Close(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestDSNHelpers(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on", sqliteDSN(":memory:"))
	assert.Equal(t, "shop.db?cache=shared&_foreign_keys=on", sqliteDSN("shop.db?cache=shared"))
	assert.Equal(t, "shop.db?_fk=1", sqliteDSN("shop.db?_fk=1"))

	assert.Equal(t, "u:p@tcp(db:3306)/shop?parseTime=true&loc=UTC&clientFoundRows=true", mysqlDSN("u:p@tcp(db:3306)/shop"))
	assert.Equal(t, "u:p@tcp(db:3306)/shop?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true", mysqlDSN("u:p@tcp(db:3306)/shop?charset=utf8mb4"))
	assert.Equal(t, "u:p@tcp(db)/shop?parseTime=false&clientFoundRows=true", mysqlDSN("u:p@tcp(db)/shop?parseTime=false"))
	assert.Equal(t, "u:p@tcp(db)/shop?parseTime=false&clientFoundRows=false", mysqlDSN("u:p@tcp(db)/shop?parseTime=false&clientFoundRows=false"))
}

func TestIsDuplicateKeySQLite(t *testing.T) {
	db, err := Connect("sqlite://:memory:", nil)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, db.Exec("CREATE TABLE items (sku TEXT UNIQUE)").Error)
	require.NoError(t, db.Exec("INSERT INTO items (sku) VALUES ('A')").Error)

	err = db.Exec("INSERT INTO items (sku) VALUES ('A')").Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestDriverErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		duplicate bool
		fk        bool
		transient bool
	}{
		{"nil", nil, false, false, false},
		{"plain", errors.New("boom"), false, false, false},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true, false, false},
		{"pg fk", &pgconn.PgError{Code: "23503"}, false, true, false},
		{"pg deadlock", fmt.Errorf("tx: %w", &pgconn.PgError{Code: "40P01"}), false, false, true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, true, false, false},
		{"mysql fk", &mysql.MySQLError{Number: 1451}, false, true, false},
		{"mysql deadlock", &mysql.MySQLError{Number: 1213}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.duplicate, IsDuplicateKey(tt.err))
			assert.Equal(t, tt.fk, IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.transient, IsTransient(tt.err))
		})
	}
}
