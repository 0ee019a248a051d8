package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/andreiblt1304/subscription-service/app/dto"
	"github.com/andreiblt1304/subscription-service/app/factory"
	"github.com/andreiblt1304/subscription-service/app/mapper"
	"github.com/andreiblt1304/subscription-service/app/service"
	"github.com/andreiblt1304/subscription-service/app/types"
)

type SubscriptionController struct {
	subscriptionService *service.SubscriptionService
	logger              logrus.FieldLogger
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		logger:              factory.NewModuleLogger("subscriptions-controller"),
	}
}

func (c *SubscriptionController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

func (c *SubscriptionController) CreatePlan(ctx echo.Context) error {
	req, err := types.NewCreatePlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	plan, err := c.subscriptionService.CreatePlan(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPlan) {
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create plan failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusCreated, &dto.PlanEnvelopeResponse{
		Plan: mapper.PlanToResponse(plan),
	})
}

func (c *SubscriptionController) GetPlan(ctx echo.Context) error {
	req, err := types.NewGetPlanRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid plan id")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	plan, err := c.subscriptionService.GetPlan(ctx.Request().Context(), req.GetId())
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "plan not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get plan failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.PlanEnvelopeResponse{
		Plan: mapper.PlanToResponse(plan),
	})
}

func (c *SubscriptionController) ListPlanIDs(ctx echo.Context) error {
	ids, err := c.subscriptionService.ListPlanIDs(ctx.Request().Context())
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("List plan ids failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.ListPlanIDsResponse{PlanIDs: ids})
}

func (c *SubscriptionController) Subscribe(ctx echo.Context) error {
	req, err := types.NewSubscribeRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	subscription, err := c.subscriptionService.Subscribe(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			return c.writeError(ctx, http.StatusNotFound, "plan not found")
		case errors.Is(err, service.ErrInsufficientPayment):
			return c.writeError(ctx, http.StatusPaymentRequired, err.Error())
		default:
			factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Subscribe failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &dto.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToResponse(subscription),
	})
}

func (c *SubscriptionController) GetSubscription(ctx echo.Context) error {
	req, err := types.NewGetSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	subscription, err := c.subscriptionService.GetSubscription(ctx.Request().Context(), req.GetAddress())
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToResponse(subscription),
	})
}

func (c *SubscriptionController) IsActive(ctx echo.Context) error {
	req, err := types.NewIsActiveRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "at must be RFC3339")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	var at time.Time
	if req.HasAt {
		at = req.At
	}
	active, err := c.subscriptionService.IsActive(ctx.Request().Context(), req.GetAddress(), at)
	if err != nil {
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Is active failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	resp := &dto.IsActiveResponse{Address: req.GetAddress(), Active: active}
	if req.HasAt {
		resp.At = req.At.Format(time.RFC3339)
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *SubscriptionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
