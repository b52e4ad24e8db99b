package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	cartapp "github.com/dwikikusuma/storefront/internal/cart/app"
	cartdomain "github.com/dwikikusuma/storefront/internal/cart/domain"
	cartpg "github.com/dwikikusuma/storefront/internal/cart/infra/postgres"
	catalogapp "github.com/dwikikusuma/storefront/internal/catalog/app"
	catalogpg "github.com/dwikikusuma/storefront/internal/catalog/infra/postgres"
	checkoutapp "github.com/dwikikusuma/storefront/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/storefront/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/storefront/internal/httpapi"
	"github.com/dwikikusuma/storefront/internal/observer"
	orderapp "github.com/dwikikusuma/storefront/internal/order/app"
	orderpg "github.com/dwikikusuma/storefront/internal/order/infra/postgres"
	"github.com/dwikikusuma/storefront/internal/realtime"
	"github.com/dwikikusuma/storefront/internal/relay"
	listapp "github.com/dwikikusuma/storefront/internal/shoppinglist/app"
	listdomain "github.com/dwikikusuma/storefront/internal/shoppinglist/domain"
	listpg "github.com/dwikikusuma/storefront/internal/shoppinglist/infra/postgres"
	"github.com/dwikikusuma/storefront/internal/store/memory"
	"github.com/dwikikusuma/storefront/pkg/config"
	"github.com/dwikikusuma/storefront/pkg/logger"
	"github.com/dwikikusuma/storefront/pkg/postgres"
	"github.com/dwikikusuma/storefront/pkg/shutdown"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, websocket hub and gRPC health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Options{
				Service:   appName,
				Env:       cfg.AppEnv,
				Level:     cfg.LogLevel,
				Format:    cfg.LogFormat,
				AddSource: true,
			})

			ctx, cancel := shutdown.WithSignals(cmd.Context(), log)
			defer cancel()
			return serve(ctx, cfg, log)
		},
	}
}

type repos struct {
	products catalogapp.ProductRepo
	cart     cartapp.CartRepo
	lists    listapp.ListRepo
	orders   orderapp.OrderRepo
	ready    func(ctx context.Context) error
	close    func() error
}

func openRepos(ctx context.Context, cfg config.Config, log *slog.Logger) (repos, error) {
	if cfg.Store.Driver == config.DriverPostgres {
		db, err := postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return repos{}, err
		}
		log.Info("store: postgres", slog.String("host", cfg.Postgres.Host), slog.String("db", cfg.Postgres.DB))
		return repos{
			products: catalogpg.NewProductRepo(db),
			cart:     cartpg.NewCartRepo(db),
			lists:    listpg.NewListRepo(db),
			orders:   orderpg.NewOrderRepo(db),
			ready:    db.PingContext,
			close:    db.Close,
		}, nil
	}

	mem := memory.New()
	if cfg.Store.Seed {
		log.Info("store: memory, seeded", slog.Int("products", mem.Seed()))
	} else {
		log.Info("store: memory")
	}
	return repos{
		products: mem.Products(),
		cart:     mem.Cart(),
		lists:    mem.Lists(),
		orders:   mem.Orders(),
		close:    func() error { return nil },
	}, nil
}

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	r, err := openRepos(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := r.close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Warn("store close failed", slog.Any("err", err))
		}
	}()

	cartSubject := observer.New[cartdomain.Snapshot]("cart", observer.WithLogger[cartdomain.Snapshot](log))
	listSubject := observer.New[listdomain.Event]("shopping_lists", observer.WithLogger[listdomain.Event](log))

	catalogCtl := catalogapp.NewController(r.products)
	cartCtl := cartapp.NewController(r.cart, cartSubject)
	listCtl := listapp.NewController(r.lists, listSubject)
	orders := orderapp.NewService(r.orders)
	checkout := checkoutapp.NewService(
		checkoutadapter.NewCartControllerReader(cartCtl),
		checkoutadapter.NewCatalogControllerReader(catalogCtl),
		orders,
		cartCtl,
		cfg.Checkout.MaxConcurrent,
	)

	hub := realtime.NewHub(cartSubject, listSubject, log, cfg.HTTP.CORSOrigins)

	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		nc, err = relay.Connect(cfg.NATS.URL, appName, log)
		if err != nil {
			return err
		}
		rl := relay.New(nc, cfg.NATS.SubjectPrefix)
		rl.Attach(cartSubject, listSubject)
		defer rl.Detach(cartSubject, listSubject)
		log.Info("nats relay attached", slog.String("url", cfg.NATS.URL), slog.String("prefix", cfg.NATS.SubjectPrefix))
	}

	handler := httpapi.NewRouter(httpapi.Deps{
		Catalog:  catalogCtl,
		Cart:     cartCtl,
		Lists:    listCtl,
		Scanner:  listapp.NewScanner(catalogCtl, listCtl),
		Checkout: checkout,
		Orders:   orders,
		Hub:      hub,
		Ready:    r.ready,
	}, httpapi.Options{
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		RateLimitRequests: cfg.HTTP.RateLimitRequests,
		RateLimitWindow:   cfg.HTTP.RateLimitWindow,
	}, log)

	httpAddr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              httpAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	grpcAddr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", grpcAddr, err)
	}
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", httpAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("grpc health server starting", slog.String("addr", grpcAddr))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")
		hs.Shutdown()

		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer stopCancel()

		// websocket sessions are hijacked and not tracked by Shutdown
		hub.Close()
		if err := server.Shutdown(stopCtx); err != nil {
			log.Error("http shutdown error", slog.Any("err", err))
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopCtx.Done():
			log.Warn("graceful stop timeout, forcing stop")
			grpcServer.Stop()
		case <-stopped:
		}

		if nc != nil {
			if err := nc.Drain(); err != nil {
				log.Warn("nats drain failed", slog.Any("err", err))
			}
		}
		return nil
	})

	err = g.Wait()
	log.Info("bye")
	return err
}
