package controller

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/service"
	"proposal-management-api/internal/state"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	actorHeader          = "X-Actor"
	defaultActor         = "system"
)

type errorResponse struct {
	Reason string `json:"reason"`
}

// respondServiceError maps domain errors to HTTP statuses: missing
// entities are 404, version conflicts and terminal states are 409,
// broken business rules are 422, everything else a domain sentinel
// still covers is 400.
func respondServiceError(c echo.Context, err error) error {
	var status int
	switch {
	case errors.Is(err, service.ErrProposalNotFound), errors.Is(err, service.ErrCustomerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrVersionConflict), errors.Is(err, state.ErrTerminalStateImmutable):
		status = http.StatusConflict
	case errors.Is(err, state.ErrInvalidTransition),
		errors.Is(err, state.ErrSameStateTransition),
		errors.Is(err, state.ErrNotEditable),
		errors.Is(err, entity.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrCustomerEmailTaken), errors.Is(err, service.ErrCustomerDocumentTaken):
		status = http.StatusBadRequest
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Internal error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(status, errorResponse{err.Error()}); e != nil {
		return e
	}

	return err
}

// requestActor identifies who performed the request for the audit
// trail. There is no authentication layer, the caller names itself.
func requestActor(c echo.Context) string {
	actor := strings.TrimSpace(c.Request().Header.Get(actorHeader))
	if actor == "" {
		return defaultActor
	}

	return actor
}

// requestIdempotencyKey prefers the header and falls back to the value
// bound from the body.
func requestIdempotencyKey(c echo.Context, bound string) string {
	key := strings.TrimSpace(c.Request().Header.Get(idempotencyKeyHeader))
	if key != "" {
		return key
	}

	return strings.TrimSpace(bound)
}

func getAllErrorMessages(err error) string {
	var builder strings.Builder
	for _, fe := range err.(validator.ValidationErrors) {
		message := fmt.Sprintf("'%s': %s\n", fe.Field(), getMessage(fe))
		builder.WriteString(message)
	}

	return builder.String()
}

func getMessage(fe validator.FieldError) string {
	if fe.Type() == reflect.TypeOf("") {
		return getMessageForString(fe)
	}

	switch fe.Type().Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
		return getMessageForNumber(fe)
	}

	return "incorrect value passed"
}

func getMessageForNumber(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "should be less or equal than " + fe.Param()
	case "gte", "min":
		return "should be greater or equal than " + fe.Param()
	case "gt":
		return "should be greater than " + fe.Param()
	}

	return "incorrect value passed"
}

func getMessageForString(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "lte", "max":
		return "length should be less or equal than " + fe.Param()
	case "gte", "min":
		return "length should be greater or equal than " + fe.Param()
	case "oneof":
		return "should have value in: " + fe.Param()
	case "uuid":
		return "should be a valid uuid"
	}

	return "incorrect value passed"
}
