package handler

import (
	"go-order-api/internal/middleware"
	"go-order-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Handlers struct {
	Products  *ProductHandler
	Orders    *OrderHandler
	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// NewApp builds the fiber app with the shared middleware stack.
func NewApp(appName string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())              // Panic recovery
	app.Use(middleware.RequestID())     // X-Request-ID
	app.Use(middleware.RequestLogger()) // Logging request
	app.Use(cors.New())                 // CORS
	return app
}

func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/healthz", h.Health.Healthz)

	api := app.Group("/api/v1")

	// Product Routes
	api.Get("/products", h.Products.GetProducts)
	api.Get("/products/stats", h.Dashboard.GetCatalogStats)
	api.Get("/products/:id", h.Products.GetProduct)
	api.Post("/products", h.Products.CreateProduct)
	api.Put("/products/:id", h.Products.UpdateProduct)
	api.Delete("/products/:id", h.Products.DeleteProduct)

	// Order Routes
	api.Get("/orders", h.Orders.GetOrders)
	api.Get("/orders/:id", h.Orders.GetOrder)
	api.Post("/orders", h.Orders.CreateOrder)
	api.Post("/orders/add-product", h.Orders.AddProduct)
	api.Put("/orders/:id", h.Orders.ReconcileOrder)
	api.Delete("/orders/:id", h.Orders.DeleteOrder)
}

// SetupWebsocket serves the stock feed on /ws.
func SetupWebsocket(app *fiber.App, hub *ws.Hub) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Serve))
}
