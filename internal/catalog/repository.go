package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/siddharth-200231/ADProject/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Store is the read-mostly product catalog. The cart core only ever
// consults it; nothing here mutates on the cart's behalf.
type Store interface {
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, product *domain.Product) error
}

type sqlStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &sqlStore{db: db}
}

const productColumns = `id, name, description, category, brand, price, available, stock_quantity, release_date, created_at`

func (s *sqlStore) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`

	p := &domain.Product{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Category,
		&p.Brand,
		&p.Price,
		&p.Available,
		&p.StockQuantity,
		&p.ReleaseDate,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (s *sqlStore) ListAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p := &domain.Product{}
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Brand,
			&p.Price,
			&p.Available,
			&p.StockQuantity,
			&p.ReleaseDate,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (s *sqlStore) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return categories, nil
}

func (s *sqlStore) Create(ctx context.Context, product *domain.Product) error {
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}
	if product.ReleaseDate.IsZero() {
		product.ReleaseDate = product.CreatedAt
	}

	query := `
		INSERT INTO products (name, description, category, brand, price, available, stock_quantity, release_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Category,
		product.Brand,
		product.Price,
		product.Available,
		product.StockQuantity,
		product.ReleaseDate,
		product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read product id: %w", err)
	}
	product.ID = id
	return nil
}
