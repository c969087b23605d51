package controller

import (
	"proposal-management-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)

	v1 := api.Group("/v1")
	newCustomerRoutesHandler(v1, services, validate)
	newProposalRoutesHandler(v1, services, validate)
}
