package domain

import "time"

type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	ImageURL  *string   `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}

type SubCategory struct {
	ID         int64     `db:"id"`
	CategoryID int64     `db:"category_id"`
	Name       string    `db:"name"`
	ImageURL   *string   `db:"image_url"`
	CreatedAt  time.Time `db:"created_at"`
}

type Product struct {
	ID            int64     `db:"id"`
	SubCategoryID int64     `db:"sub_category_id"`
	Name          string    `db:"name"`
	Description   *string   `db:"description"`
	Price         float64   `db:"price"`
	ImageURL      *string   `db:"image_url"`
	CreatedAt     time.Time `db:"created_at"`
}

type ProductAttribute struct {
	ID        int64  `db:"id"`
	ProductID int64  `db:"product_id"`
	Name      string `db:"name"`
	Value     string `db:"value"`
}
