package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/config"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/dashboard"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/media"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/middleware/guard"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/provider/local"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	admin.DefaultPhoneRegion = cfg.PhoneRegion

	db, err := openDB(ctx, cfg.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	tokens := local.NewTokenService([]byte(cfg.SigningKey), cfg.TokenExpiration, cfg.Issuer)
	authProvider := local.New(db, tokens,
		local.WithBaseURL(cfg.BaseURL),
	)

	customers := docstore.NewCollection[admin.Customer](db)
	products := docstore.NewCollection[admin.Product](db)
	orders := docstore.NewCollection[admin.Order](db)
	payments := docstore.NewCollection[admin.Payment](db)

	store := admin.NewSessionStore()
	profileSync := admin.NewProfileSync(customers)

	listener := admin.NewRestoreListener(store, authProvider, customers, profileSync)
	listener.Start(ctx)

	credentials := admin.NewCredentials(authProvider, customers, store, profileSync)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	authController := admin.NewAuthController(credentials, store,
		admin.WithTokenIssuer(tokens),
		admin.WithAuthDebug(cfg.Debug),
	)

	public := srv.Router().Group("/")
	public.Use(guard.Public(store, guard.Config{
		JSON: true,
		Filter: func(ctx router.Context) bool {
			// logout and session state bypass the signed-out-only guard
			path := ctx.Path()
			return path == authController.Routes.Logout ||
				path == authController.Routes.Session
		},
	}))
	admin.RegisterAuthRoutes(public, authController)
	admin.RegisterFinisherRoutes(public, authController, authProvider)

	dashboardController := dashboard.NewController(
		dashboard.NewProducts(products),
		dashboard.NewOrders(orders, customers),
		dashboard.NewPayments(payments, orders),
		dashboard.NewCustomers(customers),
		dashboard.WithErrorHandler(admin.JSONErrorHandler(nil)),
	)
	if cfg.UploadEndpoint != "" {
		dashboardController.Uploader = media.NewClient(cfg.UploadEndpoint, cfg.UploadPreset)
	}

	protected := srv.Router().Group("/dashboard")
	protected.Use(guard.Protected(store, guard.Config{JSON: true}))
	dashboard.RegisterRoutes(protected, dashboardController)

	srv.Serve(cfg.HTTPAddr)

	WaitExitSignal()
	cancel()
	listener.Stop()
}

func openDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := admin.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	if err := local.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
