package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mobmart/storefront/internal/domain"
	"github.com/mobmart/storefront/internal/security"
	"github.com/mobmart/storefront/internal/service"
	httpmw "github.com/mobmart/storefront/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type CatalogSvc interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	ListSubCategories(ctx context.Context, categoryID int64) ([]domain.SubCategory, error)
	GetSubCategory(ctx context.Context, id int64) (*domain.SubCategory, error)
	ListProductsBySubCategory(ctx context.Context, subCategoryID int64) ([]domain.Product, error)
	ListAttributes(ctx context.Context, productID int64) ([]domain.ProductAttribute, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

type UserSvc interface {
	Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, username, password string) (*service.AuthResult, error)
	AddAddress(ctx context.Context, a *domain.Address) error
}

type CartSvc interface {
	GetOrCreate(ctx context.Context, userID int64) (*service.CartView, error)
	AddItem(ctx context.Context, userID, productID, quantity int64) (*service.CartView, error)
}

type SuggestSvc interface {
	ForProduct(ctx context.Context, seed *domain.Product) ([]domain.Product, error)
}

type Handler struct {
	catalogSvc CatalogSvc
	userSvc    UserSvc
	cartSvc    CartSvc
	suggestSvc SuggestSvc
}

func NewHandler(catalog CatalogSvc, user UserSvc, cart CartSvc, suggest SuggestSvc) *Handler {
	return &Handler{
		catalogSvc: catalog,
		userSvc:    user,
		cartSvc:    cart,
		suggestSvc: suggest,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpmw.TokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// POST /api/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid json"})
		return
	}

	// каждое обязательное поле репортим отдельно, как и раньше
	for _, f := range []struct{ name, val string }{
		{"Username", req.Username},
		{"email", req.Email},
		{"password", req.Password},
		{"firstname", req.FirstName},
		{"lastname", req.LastName},
		{"phonenumber", req.PhoneNumber},
		{"dateofbirth", req.DateOfBirth},
	} {
		if f.val == "" {
			writeJSON(w, http.StatusUnprocessableEntity, Response{Message: f.name + " is missing"})
			return
		}
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Message: "dateofbirth must be YYYY-MM-DD"})
		return
	}

	res, err := h.userSvc.Register(r.Context(), service.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			writeJSON(w, http.StatusConflict, Response{Message: domain.ErrUserExists.Error()})
		case errors.Is(err, security.ErrPasswordTooShort):
			writeJSON(w, http.StatusUnprocessableEntity, Response{Message: err.Error()})
		default:
			slog.Error("handler.Register:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, Response{Message: "Server Error"})
		}
		return
	}

	setTokenCookie(w, res.Token)
	writeJSON(w, http.StatusOK, Response{Message: "registration successful"})
}

// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid json"})
		return
	}
	if req.Username == "" {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Message: "Username is missing"})
		return
	}
	if req.Password == "" {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Message: "password is missing"})
		return
	}

	res, err := h.userSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, Response{Message: "user not found"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, Response{Message: "invalid credentials"})
		default:
			slog.Error("handler.Login:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, Response{Message: "Server Error"})
		}
		return
	}

	setTokenCookie(w, res.Token)
	writeJSON(w, http.StatusOK, Response{Message: "login successful"})
}

// POST /api/add-address
func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "missing user id"})
		return
	}

	var req AddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid json"})
		return
	}
	for _, f := range []struct{ name, val string }{
		{"address type", req.AddressType},
		{"address line 1", req.AddressLine1},
		{"country", req.Country},
		{"city", req.City},
		{"phone number", req.PhoneNumber},
	} {
		if f.val == "" {
			writeJSON(w, http.StatusUnprocessableEntity, Response{Message: f.name + " is missing"})
			return
		}
	}

	err := h.userSvc.AddAddress(r.Context(), &domain.Address{
		UserID:       userID,
		AddressType:  req.AddressType,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		Country:      req.Country,
		State:        req.State,
		City:         req.City,
		PhoneNumber:  req.PhoneNumber,
	})
	if err != nil {
		slog.Error("handler.AddAddress:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Server Error"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "address added successful"})
}

// GET /api/categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalogSvc.ListCategories(r.Context())
	if err != nil {
		slog.Error("handler.ListCategories:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, Response{Message: "Categories not found"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Categories Found", Data: list})
}

// GET /api/category/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid category Id"})
		return
	}

	c, err := h.catalogSvc.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			writeJSON(w, http.StatusNotFound, Response{Message: "No category found by id"})
			return
		}
		slog.Error("handler.GetCategory:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Category found", Data: c})
}

// GET /api/category/{id}/subcategories
func (h *Handler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid category Id"})
		return
	}

	list, err := h.catalogSvc.ListSubCategories(r.Context(), id)
	if err != nil {
		slog.Error("handler.ListSubCategories:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, Response{Message: "Sub-category not found"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Sub-category found", Data: list})
}

// GET /api/subcategory/{id}
func (h *Handler) GetSubCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid sub-category Id"})
		return
	}

	sc, err := h.catalogSvc.GetSubCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSubCategoryNotFound) {
			writeJSON(w, http.StatusNotFound, Response{Message: "No sub-category found by id"})
			return
		}
		slog.Error("handler.GetSubCategory:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Sub-Category found", Data: sc})
}

// GET /api/subcategory/{id}/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid sub-category Id"})
		return
	}

	list, err := h.catalogSvc.ListProductsBySubCategory(r.Context(), id)
	if err != nil {
		slog.Error("handler.ListProducts:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, Response{Message: "No product found by sub-category id"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Products found", Data: list})
}

// GET /api/product/{id}/attributes
func (h *Handler) ListProductAttributes(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid product Id"})
		return
	}

	list, err := h.catalogSvc.ListAttributes(r.Context(), id)
	if err != nil {
		slog.Error("handler.ListProductAttributes:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}
	if len(list) == 0 {
		writeJSON(w, http.StatusNotFound, Response{Message: "No attributes found by product id"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Attributes found", Data: list})
}

// GET /api/suggestions?productId=
func (h *Handler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "Invalid product Id"})
		return
	}

	seed, err := h.catalogSvc.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, Response{Message: "No product found by id"})
			return
		}
		slog.Error("handler.GetSuggestions:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}

	items, err := h.suggestSvc.ForProduct(r.Context(), seed)
	if err != nil {
		slog.Error("handler.GetSuggestions:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Suggestions found", Data: SuggestionsResponse{Items: items}})
}

// GET /api/cart
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "missing user id"})
		return
	}

	view, err := h.cartSvc.GetOrCreate(r.Context(), userID)
	if err != nil {
		slog.Error("handler.GetCart:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Message: "Cart found", Data: cartResponse(view)})
}

// POST /api/cart/items
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, Response{Message: "missing user id"})
		return
	}

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Message: "invalid json"})
		return
	}
	if req.ProductID == 0 {
		writeJSON(w, http.StatusUnprocessableEntity, Response{Message: "productId is missing"})
		return
	}

	view, err := h.cartSvc.AddItem(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			writeJSON(w, http.StatusNotFound, Response{Message: "No product found by id"})
			return
		}
		slog.Error("handler.AddCartItem:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, Response{Message: "Item added", Data: cartResponse(view)})
}

func cartResponse(view *service.CartView) CartResponse {
	resp := CartResponse{
		CartID: view.Cart.ID.Hex(),
		Total:  view.Cart.Total,
		Items:  make([]CartItemView, 0, len(view.Items)),
	}
	for _, it := range view.Items {
		resp.Items = append(resp.Items, CartItemView{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return resp
}
