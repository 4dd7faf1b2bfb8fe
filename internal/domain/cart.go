package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Корзины живут в Mongo, каталог — в Postgres.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    int64              `bson:"user_id"`
	Total     float64            `bson:"total"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CartID    primitive.ObjectID `bson:"cart_id"`
	ProductID int64              `bson:"product_id"`
	Quantity  int64              `bson:"quantity"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
