package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mobmart/storefront/internal/domain"
	"github.com/mobmart/storefront/internal/mob"
	"github.com/mobmart/storefront/internal/security"
	"github.com/mobmart/storefront/internal/service"
	"github.com/mobmart/storefront/internal/transport/ws"
)

type stubCatalog struct {
	categories []domain.Category
	products   map[int64]domain.Product
}

func (s *stubCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return s.categories, nil
}

func (s *stubCatalog) GetCategory(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (s *stubCatalog) ListSubCategories(context.Context, int64) ([]domain.SubCategory, error) {
	return nil, nil
}

func (s *stubCatalog) GetSubCategory(context.Context, int64) (*domain.SubCategory, error) {
	return nil, domain.ErrSubCategoryNotFound
}

func (s *stubCatalog) ListProductsBySubCategory(context.Context, int64) ([]domain.Product, error) {
	return nil, nil
}

func (s *stubCatalog) ListAttributes(context.Context, int64) ([]domain.ProductAttribute, error) {
	return nil, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if p, ok := s.products[id]; ok {
		return &p, nil
	}
	return nil, domain.ErrProductNotFound
}

type stubUsers struct {
	signer    *security.JWTSigner
	taken     map[string]string // username -> password
	nextID    int64
	registers int
}

func (s *stubUsers) Register(_ context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	s.registers++
	if _, ok := s.taken[in.Username]; ok {
		return nil, domain.ErrUserExists
	}
	s.nextID++
	token, err := s.signer.Sign(s.nextID, in.Username, time.Now())
	if err != nil {
		return nil, err
	}
	return &service.AuthResult{User: &domain.User{ID: s.nextID, Username: in.Username}, Token: token}, nil
}

func (s *stubUsers) Login(_ context.Context, username, password string) (*service.AuthResult, error) {
	stored, ok := s.taken[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if stored != password {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := s.signer.Sign(1, username, time.Now())
	if err != nil {
		return nil, err
	}
	return &service.AuthResult{User: &domain.User{ID: 1, Username: username}, Token: token}, nil
}

func (s *stubUsers) AddAddress(context.Context, *domain.Address) error { return nil }

type stubCarts struct{}

func (stubCarts) GetOrCreate(_ context.Context, userID int64) (*service.CartView, error) {
	return &service.CartView{Cart: &domain.Cart{UserID: userID}}, nil
}

func (stubCarts) AddItem(_ context.Context, userID, productID, quantity int64) (*service.CartView, error) {
	return &service.CartView{
		Cart:  &domain.Cart{UserID: userID},
		Items: []domain.CartItem{{ProductID: productID, Quantity: quantity}},
	}, nil
}

type stubSuggest struct{}

func (stubSuggest) ForProduct(context.Context, *domain.Product) ([]domain.Product, error) {
	return []domain.Product{{ID: 2, Name: "Olive Oil"}}, nil
}

type nopCoordinator struct{}

func (nopCoordinator) Start(mob.Conn, string, string) (*mob.StartResult, error) {
	return nil, nil
}

func (nopCoordinator) Join(mob.Conn, string, string) error { return nil }

func (nopCoordinator) Info(string) (*mob.Info, error) { return nil, mob.ErrMobNotFound }

func (nopCoordinator) DropConn(mob.Conn) {}

func newTestServer(t *testing.T) (*httptest.Server, *stubUsers, *security.JWTSigner) {
	t.Helper()

	signer := security.NewJWTSigner("test-secret", time.Hour)
	users := &stubUsers{signer: signer, taken: map[string]string{"bob": "hunter22"}}
	catalog := &stubCatalog{
		categories: []domain.Category{{ID: 1, Name: "Groceries"}},
		products:   map[int64]domain.Product{7: {ID: 7, Name: "Coconut Oil", Price: 7.99}},
	}

	h := NewHandler(catalog, users, stubCarts{}, stubSuggest{})
	router := NewRouter(h, signer, ws.NewServer(nopCoordinator{}))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, users, signer
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRegisterMissingField(t *testing.T) {
	srv, users, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		// password отсутствует
		"firstname":   "Alice",
		"lastname":    "Doe",
		"phonenumber": "123",
		"dateofbirth": "1990-01-02",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Contains(t, out.Message, "password is missing")
	assert.Zero(t, users.registers)
}

func TestRegisterSuccessSetsCookie(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/register", map[string]string{
		"username":    "alice",
		"email":       "alice@example.com",
		"password":    "secret123",
		"firstname":   "Alice",
		"lastname":    "Doe",
		"phonenumber": "123",
		"dateofbirth": "1990-01-02",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var token string
	for _, c := range resp.Cookies() {
		if c.Name == "userCookie" {
			token = c.Value
		}
	}
	assert.NotEmpty(t, token, "register должен выставлять auth cookie")
	_ = decodeResponse(t, resp)
}

func TestRegisterDuplicate(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body := map[string]string{
		"username":    "bob",
		"email":       "bob@example.com",
		"password":    "secret123",
		"firstname":   "Bob",
		"lastname":    "Doe",
		"phonenumber": "123",
		"dateofbirth": "1990-01-02",
	}
	resp := postJSON(t, srv.URL+"/api/register", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestLoginErrors(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/login", map[string]string{"username": "ghost", "password": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login", map[string]string{"username": "bob", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestListCategories(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/categories")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeResponse(t, resp)
	assert.Equal(t, "Categories Found", out.Message)
	assert.NotNil(t, out.Data)
}

func TestGetCategoryInvalidID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/category/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/category/999")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCartRequiresAuth(t *testing.T) {
	srv, _, signer := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/cart")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	token, err := signer.Sign(1, "bob", time.Now())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/cart", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "userCookie", Value: token})

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestSuggestionsUnknownProduct(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/suggestions?productId=404")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/suggestions?productId=7")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
