package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/mobmart/storefront/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cartsCollection     = "carts"
	cartItemsCollection = "cart_items"
)

type CartRepository struct {
	carts *mongo.Collection
	items *mongo.Collection
}

func NewCartRepository(db *DB) *CartRepository {
	return &CartRepository{
		carts: db.Database.Collection(cartsCollection),
		items: db.Database.Collection(cartItemsCollection),
	}
}

func (r *CartRepository) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	res, err := r.carts.InsertOne(ctx, cart)
	if err != nil {
		return err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CartRepository) AddItem(ctx context.Context, item *domain.CartItem) error {
	now := time.Now()

	// тот же товар — инкремент количества, не дубликат
	filter := bson.M{"cart_id": item.CartID, "product_id": item.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": item.Quantity},
		"$set": bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
			"created_at": now,
		},
	}
	_, err := r.items.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *CartRepository) ListItems(ctx context.Context, cartID primitive.ObjectID) ([]domain.CartItem, error) {
	cur, err := r.items.Find(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []domain.CartItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *CartRepository) UpdateTotal(ctx context.Context, cartID primitive.ObjectID, total float64) error {
	_, err := r.carts.UpdateOne(ctx,
		bson.M{"_id": cartID},
		bson.M{"$set": bson.M{"total": total, "updated_at": time.Now()}})
	return err
}
