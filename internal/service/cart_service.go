package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mobmart/storefront/internal/domain"
	"github.com/mobmart/storefront/internal/mongodb"
)

// ProductGetter — выборка товара из каталога; нужна корзине для пересчёта total.
type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type CartService struct {
	cartRepo *mongodb.CartRepository
	products ProductGetter
}

func NewCartService(cartRepo *mongodb.CartRepository, products ProductGetter) *CartService {
	return &CartService{cartRepo: cartRepo, products: products}
}

type CartView struct {
	Cart  *domain.Cart
	Items []domain.CartItem
}

// GetOrCreate возвращает корзину пользователя, создавая пустую при первом обращении.
func (s *CartService) GetOrCreate(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrCartNotFound) {
			return nil, fmt.Errorf("cartRepo.GetByUser: %w", err)
		}
		cart = &domain.Cart{UserID: userID}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			return nil, fmt.Errorf("cartRepo.Create: %w", err)
		}
	}

	items, err := s.cartRepo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("cartRepo.ListItems: %w", err)
	}

	return &CartView{Cart: cart, Items: items}, nil
}

// AddItem кладёт товар в корзину и пересчитывает total по каталожным ценам.
func (s *CartService) AddItem(ctx context.Context, userID, productID, quantity int64) (*CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	view, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &domain.CartItem{
		CartID:    view.Cart.ID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.cartRepo.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("cartRepo.AddItem: %w", err)
	}

	items, err := s.cartRepo.ListItems(ctx, view.Cart.ID)
	if err != nil {
		return nil, fmt.Errorf("cartRepo.ListItems: %w", err)
	}

	total := 0.0
	for _, it := range items {
		p, err := s.products.GetProduct(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				continue // товар сняли с каталога — в total не считаем
			}
			return nil, err
		}
		total += p.Price * float64(it.Quantity)
	}
	if err := s.cartRepo.UpdateTotal(ctx, view.Cart.ID, total); err != nil {
		return nil, fmt.Errorf("cartRepo.UpdateTotal: %w", err)
	}
	view.Cart.Total = total
	view.Items = items

	return view, nil
}
