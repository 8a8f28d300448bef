package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries the fields of a new catalog product.
type CreateProductInput struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *int            `json:"category_id,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Unit        string          `json:"unit"`
	Origin      string          `json:"origin"`
	HeatLevel   int             `json:"heat_level"`
}

// CatalogService manages the storefront catalog: categories and products.
type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*Category, error)
	GetCategories(ctx context.Context) ([]Category, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error)
	GetProduct(ctx context.Context, code string) (*Product, error)
	GetProducts(ctx context.Context, activeOnly bool) ([]Product, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, errors.New("category name is required")
	}
	var c Category
	err := s.pool.QueryRow(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id, name, created_at",
		name).Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &c, nil
}

func (s *catalogService) GetCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const productColumns = "id, code, name, description, category_id, unit_price, unit, origin, heat_level, is_active, created_at"

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID,
		&p.UnitPrice, &p.Unit, &p.Origin, &p.HeatLevel, &p.IsActive, &p.CreatedAt)
}

func (s *catalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*Product, error) {
	if input.Code == "" {
		return nil, errors.New("product code is required")
	}
	if input.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("product unit price cannot be negative, got %s", input.UnitPrice)
	}
	if input.HeatLevel < 0 || input.HeatLevel > 5 {
		return nil, fmt.Errorf("heat level %d outside [0,5]", input.HeatLevel)
	}
	if input.Unit == "" {
		input.Unit = "kg"
	}

	var p Product
	err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (code, name, description, category_id, unit_price, unit, origin, heat_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		input.Code, input.Name, input.Description, input.CategoryID,
		input.UnitPrice, input.Unit, input.Origin, input.HeatLevel,
	), &p)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &p, nil
}

func (s *catalogService) GetProduct(ctx context.Context, code string) (*Product, error) {
	var p Product
	err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE code = $1", code), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", code, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", code, err)
	}
	return &p, nil
}

func (s *catalogService) GetProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products"
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY code"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
