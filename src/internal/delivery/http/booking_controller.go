package http

import (
	"github.com/gofiber/fiber/v2"

	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/internal/model"
	"ride-service/src/internal/usecase"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"
)

type BookingController struct {
	Log     log.Log
	UseCase *usecase.BookingUseCase
}

func NewBookingController(useCase *usecase.BookingUseCase, logger log.Log) *BookingController {
	return &BookingController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *BookingController) Book(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := new(model.BookRideRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Book", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(err, ctx)
	}
	request.RideID = ctx.Params("id")
	request.UserID = auth.UserID

	result := c.UseCase.Book(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Seats Booked", fiber.StatusCreated, ctx)
}

func (c *BookingController) Cancel(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.BookingActionRequest{
		BookingID: ctx.Params("id"),
		UserID:    auth.UserID,
	}

	result := c.UseCase.Cancel(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Cancelled", fiber.StatusOK, ctx)
}

func (c *BookingController) Complete(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.BookingActionRequest{
		BookingID: ctx.Params("id"),
		UserID:    auth.UserID,
	}

	result := c.UseCase.Complete(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Completed", fiber.StatusOK, ctx)
}

func (c *BookingController) NoShow(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.BookingActionRequest{
		BookingID: ctx.Params("id"),
		UserID:    auth.UserID,
	}

	result := c.UseCase.NoShow(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Marked No Show", fiber.StatusOK, ctx)
}

func (c *BookingController) ConfirmPassenger(ctx *fiber.Ctx) error {
	auth := middleware.GetUser(ctx)

	request := &model.BookingActionRequest{
		BookingID: ctx.Params("id"),
		UserID:    auth.UserID,
	}

	result := c.UseCase.ConfirmPassenger(ctx.Context(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Passenger Confirmed", fiber.StatusOK, ctx)
}
