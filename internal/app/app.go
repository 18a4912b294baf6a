package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/event"
	"catalog-api/internal/handler"
	"catalog-api/internal/imaging"
	"catalog-api/internal/job"
	"catalog-api/internal/logger"
	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/router"
	"catalog-api/internal/service"
	"catalog-api/internal/storage"
	"catalog-api/internal/token"
	"catalog-api/internal/upload"
	"catalog-api/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	scheduler    *job.Scheduler
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.SetDefault(logger.New(os.Stdout, cfg.AppEnv, cfg.LogLevel))

	store, err := storage.New(cfg.UploadRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	slog.Info("database ready")

	deps, err := Wire(cfg, db, store)
	if err != nil {
		db.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           deps.Handler,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:    server,
		db:        db,
		scheduler: deps.Scheduler,
		cleanupFuncs: []func(){
			deps.Stop,
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	a.scheduler.Start()

	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownErr := a.server.Shutdown(ctx)
	a.scheduler.Stop(ctx)

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown failed: %w", shutdownErr)
	}

	slog.Info("server stopped")
	return nil
}

// Dependencies is the wired request graph plus the background work that belongs to it.
type Dependencies struct {
	Handler   http.Handler
	Scheduler *job.Scheduler
	Stop      func()
}

// Wire builds repositories, services and handlers on top of an open database and upload store.
func Wire(cfg *config.Config, db *database.DB, store *storage.Storage) (*Dependencies, error) {
	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewTaxonomyRepository(pool, repository.TableCategories)
	brandRepo := repository.NewTaxonomyRepository(pool, repository.TableBrands)
	companyRepo := repository.NewTaxonomyRepository(pool, repository.TableCompanies)
	productRepo := repository.NewProductRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	bannerRepo := repository.NewBannerRepository(pool)
	movieRepo := repository.NewMovieRepository(pool)
	favoriteRepo := repository.NewFavoriteRepository(pool)
	expenseRepo := repository.NewExpenseRepository(pool)

	uploader := upload.New(store, upload.Config{
		MaxFileSize:  cfg.MaxUploadSize,
		AllowedTypes: cfg.AllowedImageTypes,
		Image: imaging.Options{
			MaxWidth:  cfg.ImageMaxWidth,
			MaxHeight: cfg.ImageMaxHeight,
			Quality:   cfg.ImageQuality,
		},
	})

	tokens := token.NewService(cfg.JWTSecret, cfg.JWTTTL)
	authMiddleware := middleware.NewAuthMiddleware(tokens, userRepo)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	authService := service.NewAuthService(userRepo, tokens, cfg.BcryptCost, cfg.ResetTokenTTL)
	userService := service.NewUserService(userRepo, cfg.BcryptCost)
	categoryService := service.NewTaxonomyService(categoryRepo, "Category")
	brandService := service.NewTaxonomyService(brandRepo, "Brand")
	companyService := service.NewTaxonomyService(companyRepo, "Company")
	productService := service.NewProductService(service.ProductDeps{
		Products:   productRepo,
		Categories: categoryRepo,
		Brands:     brandRepo,
		Companies:  companyRepo,
		Reviews:    reviewRepo,
		Files:      uploader,
	})
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo)
	conversationService := service.NewConversationService(conversationRepo, userRepo, bus)
	bannerService := service.NewBannerService(bannerRepo, uploader)
	movieService := service.NewMovieService(movieRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, movieRepo)
	expenseService := service.NewExpenseService(expenseRepo)

	scheduler := job.NewScheduler()
	if err := scheduler.Add(cfg.MaintenanceSchedule, "clear-expired-reset-tokens", job.NewClearExpiredResetTokensJob(userRepo)); err != nil {
		hubCancel()
		return nil, err
	}
	if err := scheduler.Add(cfg.MaintenanceSchedule, "expire-banners", job.NewExpireBannersJob(bannerService)); err != nil {
		hubCancel()
		return nil, err
	}

	var obs router.Observability
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		obs = router.Observability{
			Metrics:        middleware.NewMetrics(reg),
			MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
	}

	routes := router.New(cfg, authMiddleware, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.IsProduction()),
		User:         handler.NewUserHandler(userService),
		Category:     handler.NewTaxonomyHandler(categoryService),
		Brand:        handler.NewTaxonomyHandler(brandService),
		Company:      handler.NewTaxonomyHandler(companyService),
		Product:      handler.NewProductHandler(productService, uploader),
		Review:       handler.NewReviewHandler(reviewService),
		Cart:         handler.NewCartHandler(cartService),
		Order:        handler.NewOrderHandler(orderService),
		Conversation: handler.NewConversationHandler(conversationService),
		Banner:       handler.NewBannerHandler(bannerService, uploader),
		Movie:        handler.NewMovieHandler(movieService),
		Favorite:     handler.NewFavoriteHandler(favoriteService),
		Expense:      handler.NewExpenseHandler(expenseService),
		Image:        handler.NewImageHandler(store),
		Health:       handler.NewHealthHandler(db),
		WebSocket:    websocket.NewHandler(hub, cfg.CORSOrigins),
	}, obs)

	return &Dependencies{Handler: routes, Scheduler: scheduler, Stop: hubCancel}, nil
}
