package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/msomdec/recipe-box/internal/domain"
)

const (
	tagsTable        = "tags"
	ingredientsTable = "ingredients"
)

var catalogColumns = []string{"id", "user_id", "name", "created_at"}

// CatalogRepository implements domain.CatalogRepository for one of the
// name catalog tables.
type CatalogRepository struct {
	db    *sql.DB
	table string
}

// NewCatalogRepository creates a repository over table, which must be one
// of the catalog tables created by the migrations.
func NewCatalogRepository(db *DB, table string) *CatalogRepository {
	return &CatalogRepository{db: db.SqlDB, table: table}
}

func (r *CatalogRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CatalogItem, error) {
	query, args, err := sq.Select(catalogColumns...).
		From(r.table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("name DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", r.table, err)
	}

	rows, err := querierFromCtx(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Name, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CatalogRepository) GetByID(ctx context.Context, userID, id int64) (*domain.CatalogItem, error) {
	return r.getOne(ctx, sq.Eq{"id": id, "user_id": userID})
}

func (r *CatalogRepository) GetOrCreate(ctx context.Context, userID int64, name string) (*domain.CatalogItem, bool, error) {
	query, args, err := sq.Insert(r.table).
		Columns("user_id", "name", "created_at").
		Values(userID, name, time.Now().UTC()).
		Suffix("ON CONFLICT (user_id, name) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build insert %s: %w", r.table, err)
	}

	result, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("insert %s: %w", r.table, err)
	}
	created := false
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		created = true
	}

	item, err := r.getOne(ctx, sq.Eq{"user_id": userID, "name": name})
	if err != nil {
		return nil, false, err
	}
	return item, created, nil
}

func (r *CatalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	query, args, err := sq.Update(r.table).
		Set("name", item.Name).
		Where(sq.Eq{"id": item.ID, "user_id": item.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s: %w", r.table, err)
	}

	result, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) Delete(ctx context.Context, userID, id int64) error {
	query, args, err := sq.Delete(r.table).
		Where(sq.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", r.table, err)
	}

	result, err := querierFromCtx(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) getOne(ctx context.Context, where sq.Eq) (*domain.CatalogItem, error) {
	query, args, err := sq.Select(catalogColumns...).From(r.table).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", r.table, err)
	}

	var item domain.CatalogItem
	err = querierFromCtx(ctx, r.db).QueryRowContext(ctx, query, args...).
		Scan(&item.ID, &item.UserID, &item.Name, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", strings.TrimSuffix(r.table, "s"), err)
	}
	return &item, nil
}
