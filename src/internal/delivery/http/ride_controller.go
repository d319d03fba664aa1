package http

import (
	"github.com/gofiber/fiber/v2"

	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/internal/model"
	"ride-service/src/internal/usecase"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"
)

type RideController struct {
	Log     log.Log
	UseCase *usecase.RideUseCase
}

func NewRideController(useCase *usecase.RideUseCase, logger log.Log) *RideController {
	return &RideController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *RideController) Create(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.CreateRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RideController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.DriverID = auth.UserID

	result := c.UseCase.Create(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride Created", fiber.StatusCreated, ctx)
}

func (c *RideController) ListUpcoming(ctx *fiber.Ctx) error {
	result := c.UseCase.ListUpcoming(ctx.Context())
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Upcoming Rides", fiber.StatusOK, ctx)
}

func (c *RideController) ListMine(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	result := c.UseCase.ListMine(ctx.Context(), auth.UserID)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "My Rides", fiber.StatusOK, ctx)
}

func (c *RideController) Detail(ctx *fiber.Ctx) error {
	result := c.UseCase.Detail(ctx.Context(), ctx.Params("id"))
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride Detail", fiber.StatusOK, ctx)
}

func (c *RideController) Search(ctx *fiber.Ctx) error {
	request := new(model.SearchRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("RideController.Search", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}

	result := c.UseCase.Search(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride Search", fiber.StatusOK, ctx)
}

func (c *RideController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	result := c.UseCase.Cancel(ctx.Context(), ctx.Params("id"), auth.UserID)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride Cancelled", fiber.StatusOK, ctx)
}

func (c *RideController) Delete(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	result := c.UseCase.Delete(ctx.Context(), ctx.Params("id"), auth.UserID)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Ride Deleted", fiber.StatusOK, ctx)
}
