package controller

import (
	"net/http"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type customerRoutesHandler struct {
	customerService service.Customer
	validate        *validator.Validate
}

func newCustomerRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *customerRoutesHandler {
	h := &customerRoutesHandler{customerService: services.Customer, validate: v}

	outer.POST("/customers", h.PostCustomer)
	outer.GET("/customers/:customerId", h.GetCustomer)
	outer.DELETE("/customers/:customerId", h.DeleteCustomer)

	return h
}

type postCustomerInput struct {
	Name           string `json:"name" validate:"required,min=3,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Document       string `json:"document" validate:"max=32"`
	IdempotencyKey string `json:"idempotencyKey" validate:"max=255"`
}

// /customers
func (h *customerRoutesHandler) PostCustomer(c echo.Context) error {
	var input postCustomerInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateCustomerInput{
		Name:           input.Name,
		Email:          input.Email,
		Document:       input.Document,
		IdempotencyKey: requestIdempotencyKey(c, input.IdempotencyKey),
		Actor:          requestActor(c),
		Origin:         c.RealIP(),
	}

	customer, created, err := h.customerService.CreateCustomer(c.Request().Context(), model)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if e := c.JSON(status, newCustomerOutput(customer)); e != nil {
		return e
	}

	return nil
}

// /customers/:customerId
func (h *customerRoutesHandler) GetCustomer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Customer id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	customer, err := h.customerService.GetCustomerByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, newCustomerOutput(customer)); e != nil {
		return e
	}

	return nil
}

// /customers/:customerId
func (h *customerRoutesHandler) DeleteCustomer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("customerId"))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Customer id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	err = h.customerService.DeleteCustomer(c.Request().Context(), id, requestActor(c), c.RealIP())
	if err != nil {
		return respondServiceError(c, err)
	}

	if e := c.NoContent(http.StatusNoContent); e != nil {
		return e
	}

	return nil
}
