package route

import (
	"ride-service/src/internal/delivery/http"
	"ride-service/src/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App               *fiber.App
	RideController    *http.RideController
	BookingController *http.BookingController
	AuthMiddleware    fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(middleware.NewLogger())
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	c.App.Use(c.AuthMiddleware)

	c.App.Post("/rides/v1", c.RideController.Create)
	c.App.Get("/rides/v1", c.RideController.ListUpcoming)
	c.App.Get("/rides/v1/mine", c.RideController.ListMine)
	c.App.Post("/rides/v1/search", c.RideController.Search)
	c.App.Get("/rides/v1/:id", c.RideController.Detail)
	c.App.Patch("/rides/v1/:id/cancel", c.RideController.Cancel)
	c.App.Delete("/rides/v1/:id", c.RideController.Delete)
	c.App.Post("/rides/v1/:id/book", c.BookingController.Book)

	c.App.Patch("/bookings/v1/:id/cancel", c.BookingController.Cancel)
	c.App.Patch("/bookings/v1/:id/complete", c.BookingController.Complete)
	c.App.Patch("/bookings/v1/:id/no-show", c.BookingController.NoShow)
	c.App.Patch("/bookings/v1/:id/confirm", c.BookingController.ConfirmPassenger)
}
