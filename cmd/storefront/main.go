package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecommerceapp/storefront/internal/core/domain"
	"github.com/ecommerceapp/storefront/internal/core/ports"
	"github.com/ecommerceapp/storefront/internal/core/service"
	"github.com/ecommerceapp/storefront/internal/infrastructure/api"
	"github.com/ecommerceapp/storefront/internal/infrastructure/cache"
	"github.com/ecommerceapp/storefront/internal/infrastructure/config"
	"github.com/ecommerceapp/storefront/internal/infrastructure/queue"
	"github.com/ecommerceapp/storefront/internal/infrastructure/storage"
	"github.com/ecommerceapp/storefront/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("storefront core failed")
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(api.Config{
		BaseURL:  cfg.API.BaseURL,
		Timeout:  cfg.API.Timeout,
		Currency: cfg.API.Currency,
	}, logger.Component("api"))

	var catalogCache ports.CatalogCache = cache.NewMemory()
	if cfg.Redis.Enabled {
		redisClient, err := cache.Connect(ctx, cache.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		catalogCache = cache.NewRedis(redisClient, cfg.Redis.CacheTTL, logger.Component("cache"))
	}

	refresher := queue.NewRefresher(cfg.Catalog.RefreshWorkers, logger.Component("refresher"))
	refresher.Start(ctx)

	catalog := service.NewCatalogService(client, catalogCache, refresher, cfg.Catalog.StaleAfter, logger.Component("catalog"))

	creds := storage.NewFileStore(cfg.Session.StoragePath)
	session := service.NewSessionStore(client, creds, logger.Component("session"))
	if token := session.Token(); token != "" {
		client.SetToken(token)
	}

	cart := service.NewCartStore(logger.Component("cart"))
	filters := service.NewFilterStore(cfg.Catalog.PageSize, domain.DefaultSearchFields(), logger.Component("filters"))
	guard := service.NewGuard(session, "/login", "/checkout", "/profile", "/orders")

	products, err := catalog.Products(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	page := filters.Visible(products)
	fmt.Printf("catalog: %d products, page %d/%d\n", page.Total, page.Page, page.TotalPages)
	for _, p := range page.Items {
		fmt.Printf("  %-30s %8.2f %s  [%s]\n", p.Name, p.Price.Amount, p.Price.Currency, p.Category)
	}
	for _, f := range service.Categories(products) {
		fmt.Printf("category %-20s %d products\n", f.Label, f.Count)
	}

	if len(page.Items) > 0 {
		cart.AddItem(page.Items[0])
		summary := cart.Summary()
		fmt.Printf("cart: %d item(s), total %.2f\n", summary.ItemCount, summary.Total)
	}

	if d := guard.Allow("/checkout"); !d.Allowed {
		fmt.Printf("checkout requires login, redirecting to %s\n", d.RedirectTo)
	}

	log.Info().Str("status", string(session.Status())).Msg("storefront core ready")
	return nil
}
