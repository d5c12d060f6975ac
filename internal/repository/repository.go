package repository

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListOptions selects one page of rows.
type ListOptions struct {
	Page     int
	PageSize int
	// Filters are column = value equality conditions.
	Filters map[string]interface{}
	// Keyword is matched with LIKE against KeywordColumns.
	Keyword        string
	KeywordColumns []string
	// Order is a raw ORDER BY expression built from trusted column names.
	Order    string
	Preloads []string
}

// Offset returns the row offset of the selected page.
func (o ListOptions) Offset() int {
	if o.Page <= 1 || o.PageSize <= 0 {
		return 0
	}
	return (o.Page - 1) * o.PageSize
}

// Repository defines the persistence operations shared by every entity.
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint, preloads ...string) (*T, error)
	List(ctx context.Context, opts ListOptions) ([]T, int64, error)
}

type gormRepository[T any] struct {
	db *gorm.DB
}

// New builds a GORM-backed repository for T.
func New[T any](db *gorm.DB) Repository[T] {
	return &gormRepository[T]{db: db}
}

// Create inserts a new row.
func (r *gormRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Create(entity).Error
}

// Update saves every column of an existing row.
func (r *gormRepository[T]) Update(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

// Delete removes a row by ID, returning gorm.ErrRecordNotFound when nothing matched.
func (r *gormRepository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a row by ID.
func (r *gormRepository[T]) FindByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	var entity T
	q := r.db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns one page of rows and the total number of matching rows.
func (r *gormRepository[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	q := applyFilters(r.db.WithContext(ctx).Model(new(T)), r.db, opts)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}

	order := opts.Order
	if order == "" {
		order = "id DESC"
	}
	q = q.Order(order).Offset(opts.Offset())
	if opts.PageSize > 0 {
		q = q.Limit(opts.PageSize)
	}
	for _, p := range opts.Preloads {
		q = q.Preload(p)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	return items, total, nil
}

func applyFilters(q, root *gorm.DB, opts ListOptions) *gorm.DB {
	columns := make([]string, 0, len(opts.Filters))
	for col := range opts.Filters {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: opts.Filters[col]})
	}

	if opts.Keyword != "" && len(opts.KeywordColumns) > 0 {
		pattern := "%" + opts.Keyword + "%"
		group := root.Session(&gorm.Session{NewDB: true})
		for i, col := range opts.KeywordColumns {
			cond := clause.Like{Column: clause.Column{Name: col}, Value: pattern}
			if i == 0 {
				group = group.Where(cond)
			} else {
				group = group.Or(cond)
			}
		}
		q = q.Where(group)
	}
	return q
}
