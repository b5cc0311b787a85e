package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/msomdec/recipe-box/internal/repository/sqlite/migrations"
)

// DB wraps the SQLite connection pool and hands out repositories bound
// to it.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// WAL mode, foreign keys and a busy timeout are applied per connection
// through the DSN so a reconnect keeps them.
func New(dbPath string) (*DB, error) {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")

	sqlDB, err := sql.Open("sqlite", "file:"+dbPath+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: sqlDB}, nil
}

// Migrate applies pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() *UserRepository {
	return NewUserRepository(db)
}

func (db *DB) Recipes() *RecipeRepository {
	return NewRecipeRepository(db)
}

func (db *DB) Tags() *CatalogRepository {
	return NewCatalogRepository(db, tagsTable)
}

func (db *DB) Ingredients() *CatalogRepository {
	return NewCatalogRepository(db, ingredientsTable)
}

func (db *DB) TxManager() *TxManager {
	return NewTxManager(db)
}
