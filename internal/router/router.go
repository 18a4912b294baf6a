package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"catalog-api/internal/config"
	"catalog-api/internal/handler"
	"catalog-api/internal/middleware"
	"catalog-api/internal/model"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Category     *handler.TaxonomyHandler
	Brand        *handler.TaxonomyHandler
	Company      *handler.TaxonomyHandler
	Product      *handler.ProductHandler
	Review       *handler.ReviewHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Conversation *handler.ConversationHandler
	Banner       *handler.BannerHandler
	Movie        *handler.MovieHandler
	Favorite     *handler.FavoriteHandler
	Expense      *handler.ExpenseHandler
	Image        *handler.ImageHandler
	Health       *handler.HealthHandler
	WebSocket    http.Handler
}

// Observability is optional; a nil Metrics disables both the middleware and /metrics.
type Observability struct {
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, obs Observability) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	auth := authMiddleware.RequireAuth
	admin := authMiddleware.RequireRoles(model.RoleAdmin)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if obs.Metrics != nil {
		r.Use(obs.Metrics.Handler)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	r.Get("/health", h.Health.Health)
	if obs.Metrics != nil && obs.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", obs.MetricsHandler)
	}
	r.Get("/images/*", h.Image.Serve)
	if h.WebSocket != nil {
		r.With(auth).Method(http.MethodGet, "/ws", h.WebSocket)
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", h.Auth.Register)
			ar.Post("/login", h.Auth.Login)
			ar.Get("/logout", h.Auth.Logout)
			ar.Post("/forgot-password", h.Auth.ForgotPassword)
			ar.Post("/reset-password", h.Auth.ResetPassword)
			ar.With(auth).Get("/me", h.Auth.Me)
			ar.With(auth).Patch("/update-me", h.Auth.UpdateMe)
		})

		api.Route("/users", func(ur chi.Router) {
			ur.Use(auth, admin)
			ur.Get("/", h.User.List)
			ur.Post("/", h.User.Create)
			ur.Get("/{id}", h.User.Get)
			ur.Put("/{id}", h.User.Update)
			ur.Delete("/{id}", h.User.Delete)
		})

		api.Route("/categories", publicTaxonomy(h.Category, auth, admin))
		api.Route("/brands", publicTaxonomy(h.Brand, auth, admin))

		api.Route("/companies", func(cr chi.Router) {
			cr.With(auth).Get("/{id}/products", h.Company.Products)
			cr.Group(func(ar chi.Router) {
				ar.Use(auth, admin)
				ar.Get("/", h.Company.ListWithProducts)
				ar.Post("/", h.Company.Create)
				ar.Get("/{id}", h.Company.Get)
				ar.Put("/{id}", h.Company.Update)
				ar.Delete("/{id}", h.Company.Delete)
			})
		})

		api.Route("/products", func(pr chi.Router) {
			pr.Route("/{productId}/reviews", reviewRoutes(h.Review, auth))
			pr.Group(func(ar chi.Router) {
				ar.Use(auth, admin)
				ar.Get("/", h.Product.List)
				ar.Post("/", h.Product.Create)
				ar.Get("/{productId}", h.Product.Get)
				ar.Put("/{productId}", h.Product.Update)
				ar.Delete("/{productId}", h.Product.Delete)
				ar.Get("/{productId}/reviews-summary", h.Product.ReviewsSummary)
				ar.Put("/{productId}/upload-image", h.Product.UploadImage)
				ar.Put("/{productId}/images", h.Product.UploadImages)
			})
		})

		api.Route("/reviews", reviewRoutes(h.Review, auth))

		api.Route("/cart", func(cr chi.Router) {
			cr.Use(auth)
			cr.Get("/", h.Cart.Get)
			cr.Delete("/", h.Cart.Clear)
			cr.Post("/items", h.Cart.AddItem)
			cr.Put("/items/{productId}", h.Cart.UpdateItem)
			cr.Delete("/items/{productId}", h.Cart.RemoveItem)
		})

		api.Route("/orders", func(or chi.Router) {
			or.Use(auth)
			or.Post("/", h.Order.Create)
			or.Get("/me", h.Order.ListMine)
			or.Get("/{id}", h.Order.Get)
			or.Put("/{id}/pay", h.Order.Pay)
			or.With(admin).Get("/", h.Order.List)
			or.With(admin).Put("/{id}/deliver", h.Order.Deliver)
			or.With(admin).Delete("/{id}", h.Order.Delete)
		})

		api.Route("/conversations", func(cr chi.Router) {
			cr.Use(auth)
			cr.Get("/", h.Conversation.List)
			cr.Post("/", h.Conversation.Create)
			cr.Get("/{id}", h.Conversation.Get)
			cr.Put("/{id}", h.Conversation.Update)
			cr.Delete("/{id}", h.Conversation.Delete)
			cr.Get("/{id}/messages", h.Conversation.Messages)
			cr.Post("/{id}/messages", h.Conversation.SendMessage)
		})

		api.Route("/banners", func(br chi.Router) {
			br.Get("/", h.Banner.List)
			br.Get("/{id}", h.Banner.Get)
			br.With(auth, admin).Post("/", h.Banner.Create)
			br.With(auth, admin).Put("/{id}", h.Banner.Update)
			br.With(auth, admin).Delete("/{id}", h.Banner.Delete)
		})

		api.Route("/movies", func(mr chi.Router) {
			mr.Get("/", h.Movie.List)
			mr.Get("/trending", h.Movie.Trending)
			mr.Get("/{id}", h.Movie.Get)
			mr.With(auth, admin).Post("/", h.Movie.Create)
			mr.With(auth, admin).Put("/{id}", h.Movie.Update)
			mr.With(auth, admin).Delete("/{id}", h.Movie.Delete)
		})

		api.Route("/favorites", func(fr chi.Router) {
			fr.Use(auth)
			fr.Post("/", h.Favorite.Add)
			fr.Get("/me", h.Favorite.ListMine)
			fr.Get("/{id}", h.Favorite.Get)
			fr.Delete("/{id}", h.Favorite.Delete)
		})

		api.Route("/expenses", func(er chi.Router) {
			er.Use(auth)
			er.Get("/", h.Expense.List)
			er.Post("/", h.Expense.Create)
			er.Get("/{id}", h.Expense.Get)
			er.Delete("/{id}", h.Expense.Delete)
		})
	})

	return r
}

func publicTaxonomy(th *handler.TaxonomyHandler, auth func(http.Handler) http.Handler, admin func(http.Handler) http.Handler) func(chi.Router) {
	return func(tr chi.Router) {
		tr.Get("/", th.List)
		tr.Get("/{id}", th.Get)
		tr.With(auth, admin).Post("/", th.Create)
		tr.With(auth, admin).Put("/{id}", th.Update)
		tr.With(auth, admin).Delete("/{id}", th.Delete)
	}
}

func reviewRoutes(rh *handler.ReviewHandler, auth func(http.Handler) http.Handler) func(chi.Router) {
	return func(rr chi.Router) {
		rr.Get("/", rh.List)
		rr.Get("/{id}", rh.Get)
		rr.With(auth).Post("/", rh.Create)
		rr.With(auth).Put("/{id}", rh.Update)
		rr.With(auth).Delete("/{id}", rh.Delete)
	}
}
