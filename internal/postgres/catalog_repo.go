package postgres

import (
	"context"
	"errors"

	"github.com/mobmart/storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, image_url, created_at FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CatalogRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, image_url, created_at FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.ImageURL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepository) ListSubCategories(ctx context.Context, categoryID int64) ([]domain.SubCategory, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, category_id, name, image_url, created_at FROM sub_categories WHERE category_id=$1 ORDER BY id`,
		categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.SubCategory
	for rows.Next() {
		var sc domain.SubCategory
		if err := rows.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.ImageURL, &sc.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, sc)
	}
	return list, rows.Err()
}

func (r *CatalogRepository) GetSubCategory(ctx context.Context, id int64) (*domain.SubCategory, error) {
	var sc domain.SubCategory
	err := r.db.QueryRow(ctx,
		`SELECT id, category_id, name, image_url, created_at FROM sub_categories WHERE id=$1`, id).
		Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.ImageURL, &sc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func (r *CatalogRepository) ListProductsBySubCategory(ctx context.Context, subCategoryID int64) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sub_category_id, name, description, price, image_url, created_at
		FROM products
		WHERE sub_category_id=$1
		ORDER BY id`, subCategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (r *CatalogRepository) ListAttributes(ctx context.Context, productID int64) ([]domain.ProductAttribute, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, name, value FROM product_attributes WHERE product_id=$1 ORDER BY id`,
		productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []domain.ProductAttribute
	for rows.Next() {
		var a domain.ProductAttribute
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Name, &a.Value); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetProductByName — точное совпадение имени; используется при сопоставлении
// LLM-подсказок с каталогом.
func (r *CatalogRepository) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, `
		SELECT id, sub_category_id, name, description, price, image_url, created_at
		FROM products
		WHERE name=$1`, name).
		Scan(&p.ID, &p.SubCategoryID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx, `
		SELECT id, sub_category_id, name, description, price, image_url, created_at
		FROM products
		WHERE id=$1`, id).
		Scan(&p.ID, &p.SubCategoryID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var list []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.SubCategoryID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
