package controller

import (
	"context"
	"net/http"
	"strings"

	"proposal-management-api/internal/common"
	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/service"
	"proposal-management-api/internal/state"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

type proposalRoutesHandler struct {
	proposalService service.Proposal
	auditService    service.Audit
	validate        *validator.Validate
}

func newProposalRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *proposalRoutesHandler {
	h := &proposalRoutesHandler{
		proposalService: services.Proposal,
		auditService:    services.Audit,
		validate:        v,
	}

	outer.POST("/proposals", h.PostProposal)
	outer.GET("/proposals", h.GetProposals)
	outer.GET("/proposals/:proposalId", h.GetProposal)
	outer.PATCH("/proposals/:proposalId", h.PatchProposal)
	outer.POST("/proposals/:proposalId/submit", h.SubmitProposal)
	outer.POST("/proposals/:proposalId/approve", h.ApproveProposal)
	outer.POST("/proposals/:proposalId/reject", h.RejectProposal)
	outer.POST("/proposals/:proposalId/cancel", h.CancelProposal)
	outer.GET("/proposals/:proposalId/audit", h.GetProposalAudit)

	return h
}

type postProposalInput struct {
	CustomerId     string  `json:"customerId" validate:"required,uuid"`
	Value          float64 `json:"value" validate:"required,gt=0"`
	IdempotencyKey string  `json:"idempotencyKey" validate:"max=255"`
}

// /proposals
func (h *proposalRoutesHandler) PostProposal(c echo.Context) error {
	var input postProposalInput
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

	customerID, err := uuid.Parse(input.CustomerId)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Customer id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateProposalInput{
		CustomerID:     customerID,
		Value:          input.Value,
		IdempotencyKey: requestIdempotencyKey(c, input.IdempotencyKey),
		Actor:          requestActor(c),
		Origin:         c.RealIP(),
	}

	proposal, created, err := h.proposalService.CreateProposal(c.Request().Context(), model)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	if e := c.JSON(status, newProposalOutput(proposal)); e != nil {
		return e
	}

	return nil
}

type getProposalsInput struct {
	CustomerId string `query:"customerId" validate:"omitempty,uuid"`
	State      string `query:"state" validate:"omitempty,oneof=draft sent accepted rejected cancelled"`
	SortBy     string `query:"sortBy" validate:"omitempty,oneof=id value state created_at updated_at"`
	Direction  string `query:"direction" validate:"omitempty,oneof=ASC DESC asc desc"`
	Page       int    `query:"page" validate:"gte=0"`
	PerPage    int    `query:"perPage" validate:"gte=0,lte=100"`
}

// /proposals
func (h *proposalRoutesHandler) GetProposals(c echo.Context) error {
	var input getProposalsInput
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

	var customerID *uuid.UUID
	if input.CustomerId != "" {
		id, err := uuid.Parse(input.CustomerId)
		if err != nil {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Customer id is not a valid uuid"}); e != nil {
				return e
			}

			return err
		}
		customerID = &id
	}

	var stateFilter *state.State
	if input.State != "" {
		s, err := state.Parse(input.State)
		if err != nil {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"Unknown state filter"}); e != nil {
				return e
			}

			return err
		}
		stateFilter = &s
	}

	criteria := entity.NewProposalCriteria(customerID, stateFilter,
		input.SortBy, strings.ToUpper(input.Direction), input.Page, input.PerPage)

	proposals, total, err := h.proposalService.ListProposals(c.Request().Context(), criteria)
	if err != nil {
		return respondServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, newProposalPageOutput(proposals, criteria, total)); e != nil {
		return e
	}

	return nil
}

// /proposals/:proposalId
func (h *proposalRoutesHandler) GetProposal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Proposal id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	proposal, err := h.proposalService.GetProposalByID(c.Request().Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, newProposalOutput(proposal)); e != nil {
		return e
	}

	return nil
}

type patchProposalInput struct {
	ExpectedVersion int      `json:"expectedVersion" validate:"required,min=1"`
	Value           *float64 `json:"value" validate:"omitempty,gt=0"`
}

// /proposals/:proposalId
func (h *proposalRoutesHandler) PatchProposal(c echo.Context) error {
	id, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Proposal id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	var input patchProposalInput
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

	model := &entity.UpdateProposalInput{
		ProposalID:      id,
		ExpectedVersion: input.ExpectedVersion,
		Value:           input.Value,
		Actor:           requestActor(c),
		Origin:          c.RealIP(),
	}

	proposal, err := h.proposalService.UpdateProposal(c.Request().Context(), model)
	if err != nil {
		return respondServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, newProposalOutput(proposal)); e != nil {
		return e
	}

	return nil
}

// /proposals/:proposalId/submit
func (h *proposalRoutesHandler) SubmitProposal(c echo.Context) error {
	return h.handleAction(c, h.proposalService.SubmitProposal)
}

// /proposals/:proposalId/approve
func (h *proposalRoutesHandler) ApproveProposal(c echo.Context) error {
	return h.handleAction(c, h.proposalService.ApproveProposal)
}

// /proposals/:proposalId/reject
func (h *proposalRoutesHandler) RejectProposal(c echo.Context) error {
	return h.handleAction(c, h.proposalService.RejectProposal)
}

// /proposals/:proposalId/cancel
func (h *proposalRoutesHandler) CancelProposal(c echo.Context) error {
	return h.handleAction(c, h.proposalService.CancelProposal)
}

type proposalActionInput struct {
	ExpectedVersion int    `json:"expectedVersion" validate:"required,min=1"`
	IdempotencyKey  string `json:"idempotencyKey" validate:"max=255"`
}

type proposalAction func(ctx context.Context, input *entity.ProposalActionInput) (*entity.Proposal, error)

func (h *proposalRoutesHandler) handleAction(c echo.Context, action proposalAction) error {
	id, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Proposal id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	var input proposalActionInput
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

	model := &entity.ProposalActionInput{
		ProposalID:      id,
		ExpectedVersion: input.ExpectedVersion,
		IdempotencyKey:  requestIdempotencyKey(c, input.IdempotencyKey),
		Actor:           requestActor(c),
		Origin:          c.RealIP(),
	}

	proposal, err := action(c.Request().Context(), model)
	if err != nil {
		return respondServiceError(c, err)
	}

	if e := c.JSON(http.StatusOK, newProposalOutput(proposal)); e != nil {
		return e
	}

	return nil
}

// /proposals/:proposalId/audit
func (h *proposalRoutesHandler) GetProposalAudit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("proposalId"))
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Proposal id is not a valid uuid"}); e != nil {
			return e
		}

		return err
	}

	if _, err := h.proposalService.GetProposalByID(c.Request().Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	records, err := h.auditService.ListByEntity(c.Request().Context(), common.EntityTypeProposal, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	output := make([]auditRecordOutput, 0, len(records))
	for _, record := range records {
		output = append(output, newAuditOutput(record))
	}

	if e := c.JSON(http.StatusOK, output); e != nil {
		return e
	}

	return nil
}
