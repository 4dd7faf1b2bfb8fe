package http

import (
	"net/http"
	"time"

	"github.com/mobmart/storefront/internal/security"
	httpmw "github.com/mobmart/storefront/internal/transport/http/middleware"
	"github.com/mobmart/storefront/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(h *Handler, signer *security.JWTSigner, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// WS endpoint живёт вне таймаут-группы: соединение долгоживущее
	r.Get("/ws", wsServer.HandleWS)

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewareChi.Timeout(30 * time.Second))

		api.Post("/register", h.Register)
		api.Post("/login", h.Login)

		api.Get("/categories", h.ListCategories)
		api.Route("/category/{id}", func(cr chi.Router) {
			cr.Get("/", h.GetCategory)
			cr.Get("/subcategories", h.ListSubCategories)
		})
		api.Route("/subcategory/{id}", func(sr chi.Router) {
			sr.Get("/", h.GetSubCategory)
			sr.Get("/products", h.ListProducts)
		})
		api.Get("/product/{id}/attributes", h.ListProductAttributes)
		api.Get("/suggestions", h.GetSuggestions)

		// только для залогиненных
		api.Group(func(pr chi.Router) {
			pr.Use(httpmw.AuthMiddleware(signer))

			pr.Post("/add-address", h.AddAddress)
			pr.Get("/cart", h.GetCart)
			pr.Post("/cart/items", h.AddCartItem)
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
