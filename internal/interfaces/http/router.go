package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lavamatic/lavanderia-api/internal/application/orders"
	"github.com/lavamatic/lavanderia-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC  *usecase.ClientUseCase
	ServiceUC *usecase.ServiceUseCase
	OrderUC   *orders.OrderUseCase
	TicketUC  *orders.TicketUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Clientes
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Catálogo de servicios
	services := api.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Post("/", serviceHandler.Create)
	services.Get("/", serviceHandler.List)
	services.Get("/:id", serviceHandler.GetByID)
	services.Put("/:id", serviceHandler.Update)
	services.Delete("/:id", serviceHandler.Delete)

	// Órdenes de servicio
	ordersGroup := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.TicketUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Patch("/:id/status", orderHandler.UpdateStatus)
	ordersGroup.Post("/:id/payments", orderHandler.RegisterPayment)
	ordersGroup.Get("/:id/ticket", orderHandler.Ticket)
	ordersGroup.Delete("/:id", orderHandler.Delete)
}
