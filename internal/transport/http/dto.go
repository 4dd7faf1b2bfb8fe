package http

import "github.com/mobmart/storefront/internal/domain"

// Конверт ответов как у исходного API: {message, data}.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	PhoneNumber string `json:"phonenumber"`
	DateOfBirth string `json:"dateofbirth"` // YYYY-MM-DD
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AddressRequest struct {
	AddressType  string  `json:"addresstype"`
	AddressLine1 string  `json:"addressline1"`
	AddressLine2 *string `json:"addressline2"`
	Country      string  `json:"country"`
	State        *string `json:"state"`
	City         string  `json:"city"`
	PhoneNumber  string  `json:"phonenumber"`
}

type AddCartItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type CartItemView struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type CartResponse struct {
	CartID string         `json:"cartId"`
	Total  float64        `json:"total"`
	Items  []CartItemView `json:"items"`
}

type SuggestionsResponse struct {
	Items []domain.Product `json:"items"`
}
