package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lavamatic/lavanderia-api/internal/application/orders"
	"github.com/lavamatic/lavanderia-api/internal/application/usecase"
	infrapdf "github.com/lavamatic/lavanderia-api/internal/infrastructure/pdf"
	"github.com/lavamatic/lavanderia-api/internal/infrastructure/postgres"
	httpRouter "github.com/lavamatic/lavanderia-api/internal/interfaces/http"
	"github.com/lavamatic/lavanderia-api/pkg/config"
	"github.com/lavamatic/lavanderia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clientRepo := postgres.NewClientRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	business := orders.BusinessInfo{
		Name:     cfg.Business.Name,
		Address:  cfg.Business.Address,
		Phone:    cfg.Business.Phone,
		Currency: cfg.Business.Currency,
	}

	clientUC := usecase.NewClientUseCase(clientRepo, orderRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo)
	orderUC := orders.NewOrderUseCase(txRunner, orderRepo, clientRepo, serviceRepo)

	ticketGenerator := infrapdf.NewMarotoTicketGenerator()
	ticketUC := orders.NewTicketUseCase(orderRepo, clientRepo, ticketGenerator, business)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:  clientUC,
		ServiceUC: serviceUC,
		OrderUC:   orderUC,
		TicketUC:  ticketUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
