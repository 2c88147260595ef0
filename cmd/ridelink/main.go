package main

import (
	"context"
	"log/slog"
	"os"

	"ridelink/config"
	"ridelink/internal/delivery"
	"ridelink/internal/delivery/http"
	httpmw "ridelink/internal/delivery/http/middleware"
	"ridelink/internal/delivery/http/router/handler"
	deliverymw "ridelink/internal/delivery/middleware"
	"ridelink/internal/infra/auth"
	logs "ridelink/internal/infra/log"
	"ridelink/internal/infra/persistence/postgres"
	"ridelink/internal/infra/pubsub"
	"ridelink/internal/infra/storage"
	"ridelink/internal/usecase/impl"
	"ridelink/migrations"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			runMigrations,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewSavedLocationRepository,
			postgres.NewPaymentMethodRepository,
			postgres.NewPhotoRepository,
			postgres.NewAccountEventRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasherFromConfig,
			auth.NewJWTService,
			storage.New,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewSessionService,
			impl.NewLocationService,
			impl.NewPaymentService,
			impl.NewPhotoService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmw.NewAuthMiddleware,
			httpmw.NewErrorMiddleware,
			deliverymw.NewRequestIDMiddleware,
			deliverymw.NewLoggerMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProfileHandler,
			handler.NewSessionHandler,
			handler.NewLocationHandler,
			handler.NewPaymentHandler,
			handler.NewAdminHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// runMigrations applies pending schema migrations when enabled in config.
func runMigrations(cfg *config.Config, db *gorm.DB, logger *slog.Logger) error {
	if cfg.Migrations == nil || !cfg.Migrations.Enabled {
		logger.Info("Schema migrations disabled, skipping")

		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB for migrations")
	}

	logger.Info("Applying schema migrations")

	return migrations.Migrate(sqlDB)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
