package controller

import (
	"time"

	"proposal-management-api/internal/audit"
	"proposal-management-api/internal/entity"
)

type customerSnapshotOutput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document,omitempty"`
}

type proposalOutput struct {
	Id             string                 `json:"id"`
	CustomerId     string                 `json:"customerId"`
	Customer       customerSnapshotOutput `json:"customer"`
	Value          float64                `json:"value"`
	State          string                 `json:"state"`
	Version        int                    `json:"version"`
	IdempotencyKey string                 `json:"idempotencyKey,omitempty"`
	CreatedAt      string                 `json:"createdAt"`
	UpdatedAt      *string                `json:"updatedAt"`
	SentAt         *string                `json:"sentAt"`
	RespondedAt    *string                `json:"respondedAt"`
}

func newProposalOutput(p *entity.Proposal) proposalOutput {
	return proposalOutput{
		Id:         p.ID.String(),
		CustomerId: p.CustomerID.String(),
		Customer: customerSnapshotOutput{
			Name:     p.Customer.Name,
			Email:    p.Customer.Email,
			Document: p.Customer.Document,
		},
		Value:          p.Value.Amount(),
		State:          p.State.String(),
		Version:        p.Version,
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      formatOptionalTime(p.UpdatedAt),
		SentAt:         formatOptionalTime(p.SentAt),
		RespondedAt:    formatOptionalTime(p.RespondedAt),
	}
}

type customerOutput struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Document  string `json:"document,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func newCustomerOutput(c *entity.Customer) customerOutput {
	return customerOutput{
		Id:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Document:  c.Document,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

type auditRecordOutput struct {
	Id         string         `json:"id"`
	EntityType string         `json:"entityType"`
	EntityId   string         `json:"entityId"`
	Event      string         `json:"event"`
	PriorState string         `json:"priorState,omitempty"`
	NewState   string         `json:"newState,omitempty"`
	Before     map[string]any `json:"before"`
	After      map[string]any `json:"after"`
	Actor      string         `json:"actor"`
	Origin     string         `json:"origin"`
	OccurredAt string         `json:"occurredAt"`
}

func newAuditOutput(r audit.Record) auditRecordOutput {
	return auditRecordOutput{
		Id:         r.ID.String(),
		EntityType: r.EntityType,
		EntityId:   r.EntityID.String(),
		Event:      string(r.Event),
		PriorState: r.PriorState,
		NewState:   r.NewState,
		Before:     r.Before,
		After:      r.After,
		Actor:      r.Actor,
		Origin:     r.Origin,
		OccurredAt: r.OccurredAt.Format(time.RFC3339),
	}
}

type paginationOutput struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type proposalPageOutput struct {
	Data       []proposalOutput `json:"data"`
	Pagination paginationOutput `json:"pagination"`
}

func newProposalPageOutput(proposals []entity.Proposal, criteria *entity.ProposalCriteria, total int) proposalPageOutput {
	data := make([]proposalOutput, 0, len(proposals))
	for i := range proposals {
		data = append(data, newProposalOutput(&proposals[i]))
	}

	totalPages := 0
	if criteria.PerPage > 0 {
		totalPages = (total + criteria.PerPage - 1) / criteria.PerPage
	}

	return proposalPageOutput{
		Data: data,
		Pagination: paginationOutput{
			Page:       criteria.Page,
			PerPage:    criteria.PerPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := t.Format(time.RFC3339)

	return &s
}
