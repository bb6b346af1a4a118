// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"
	"github.com/urfave/cli/v3"

	"furniture-store/config"
	"furniture-store/controllers"
	"furniture-store/middleware"
	"furniture-store/routes"
	"furniture-store/services"
	"furniture-store/store"
	"furniture-store/utils"
)

func main() {
	cmd := &cli.Command{
		Name:   "furniture-store",
		Usage:  "Furniture store REST API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "indexes",
				Usage:  "Create the MongoDB indexes and exit",
				Action: ensureIndexes,
			},
			{
				Name:  "create-admin",
				Usage: "Create an admin account, or promote an existing one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "name", Value: "Admin"},
					&cli.StringFlag{Name: "password", Usage: "required when the account does not exist"},
				},
				Action: createAdmin,
			},
			{
				Name:   "seed",
				Usage:  "Insert sample catalog products",
				Action: seed,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.Fatal(err)
	}
}

// setup loads configuration, configures logging and connects to MongoDB.
func setup(ctx context.Context) (*config.Config, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	cfg.ConfigureLogger(logrus.StandardLogger())

	db, err := store.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func serve(ctx context.Context, _ *cli.Command) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			logrus.WithError(err).Error("mongo disconnect")
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		return err
	}

	handler, err := buildHandler(cfg, db)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.Env}).Info("Server is running")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildHandler wires collaborators, services and controllers into the router.
func buildHandler(cfg *config.Config, db *store.Store) (http.Handler, error) {
	templates, err := utils.NewTemplates(cfg.Payment.Currency)
	if err != nil {
		return nil, err
	}
	mailer, err := utils.NewMailer(cfg.Email)
	if err != nil {
		return nil, err
	}
	emailService := utils.NewEmailService(mailer, templates, cfg.ClientURL)
	images, err := utils.NewImageHost(cfg.Images)
	if err != nil {
		return nil, err
	}
	gateway := utils.NewRazorpayGateway(cfg.Payment)
	if !gateway.Configured() {
		logrus.Warn("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET not set; payment endpoints will answer 503")
	}
	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiry)

	users, products, carts := db.Users(), db.Products(), db.Carts()
	orders, invites, workshops := db.Orders(), db.Invites(), db.Workshops()

	rnd := render.New(render.Options{IndentJSON: !cfg.Production()})
	c := routes.Controllers{
		Users: controllers.NewUserController(
			services.NewAuthService(users, emailService, tokens, cfg.ResetTTL), rnd),
		Products: controllers.NewProductController(
			services.NewCatalogService(products, images),
			controllers.UploadLimits{MaxFiles: cfg.Images.MaxFiles, MaxFileSize: cfg.Images.MaxFileSizeBytes}, rnd),
		Cart:     controllers.NewCartController(services.NewCartService(carts, products), rnd),
		Wishlist: controllers.NewWishlistController(services.NewWishlistService(db.Wishlists(), products), rnd),
		Orders: controllers.NewOrderController(
			services.NewOrderService(orders, carts, products, users, emailService, gateway, cfg.Payment.RequireSignature),
			services.NewPaymentService(gateway), rnd),
		Admin: controllers.NewAdminController(services.NewAdminService(users, products, orders, workshops), rnd),
		Invites: controllers.NewInviteController(
			services.NewInviteService(invites, users, emailService, tokens, cfg.InviteTTL), rnd),
		Workshops: controllers.NewWorkshopController(services.NewWorkshopService(workshops, users, emailService), rnd),
	}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, middleware.NewAuth(tokens, rnd), c)
	if cfg.Images.Provider != "cloudinary" && strings.HasPrefix(cfg.Images.PublicURL, "/") {
		prefix := cfg.Images.PublicURL + "/"
		router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Images.UploadDir))))
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rnd.JSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Route not found"})
	})

	logger := logrus.StandardLogger()
	var h http.Handler = router
	h = middleware.Logging(logger)(h)
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.ClientURL}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
		handlers.AllowCredentials(),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(logger), handlers.PrintRecoveryStack(!cfg.Production()))(h)
	return h, nil
}
