// Package memory implements the repository contracts over in-process
// maps. It backs the service tests and the memory deployment mode; the
// mutex-guarded read-check-write path keeps saves linearizable per
// proposal, which is what the optimistic-lock protocol requires.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"proposal-management-api/internal/entity"
	"proposal-management-api/internal/repo/repo_errors"
	"proposal-management-api/internal/state"

	"github.com/google/uuid"
)

type ProposalRepo struct {
	mu         sync.RWMutex
	proposals  map[uuid.UUID]*entity.Proposal
	order      []uuid.UUID // insertion order, breaks sort ties
	byKey      map[string]uuid.UUID
	byCustomer map[uuid.UUID][]uuid.UUID
	byState    map[state.State][]uuid.UUID
}

func NewProposalRepo() *ProposalRepo {
	return &ProposalRepo{
		proposals:  make(map[uuid.UUID]*entity.Proposal),
		byKey:      make(map[string]uuid.UUID),
		byCustomer: make(map[uuid.UUID][]uuid.UUID),
		byState:    make(map[state.State][]uuid.UUID),
	}
}

func (r *ProposalRepo) Save(ctx context.Context, proposal *entity.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	} else if stored, exists := r.proposals[proposal.ID]; exists {
		// compare-and-swap: the caller mutated exactly one version ahead
		// of what is stored, otherwise a concurrent writer won.
		if stored.Version != proposal.Version-1 {
			return repo_errors.ErrVersionMismatch
		}
		r.removeFromIndexes(proposal.ID)
	}

	if _, exists := r.proposals[proposal.ID]; !exists {
		r.order = append(r.order, proposal.ID)
	}

	r.proposals[proposal.ID] = cloneProposal(proposal)

	if proposal.IdempotencyKey != "" {
		r.byKey[proposal.IdempotencyKey] = proposal.ID
	}
	r.byCustomer[proposal.CustomerID] = append(r.byCustomer[proposal.CustomerID], proposal.ID)
	r.byState[proposal.State] = append(r.byState[proposal.State], proposal.ID)

	return nil
}

func (r *ProposalRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	proposal, exists := r.proposals[id]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	return cloneProposal(proposal), nil
}

func (r *ProposalRepo) FindByIdempotencyKey(ctx context.Context, key string) (*entity.Proposal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byKey[key]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	proposal, exists := r.proposals[id]
	if !exists {
		return nil, repo_errors.ErrNotFound
	}

	return cloneProposal(proposal), nil
}

// Query filters via the per-field indexes (AND by set intersection),
// sorts the materialized result with insertion order as tie-break, and
// paginates last. The returned total counts all matches, not the page.
func (r *ProposalRepo) Query(ctx context.Context, criteria *entity.ProposalCriteria) ([]entity.Proposal, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids, empty := r.filter(criteria)
	if empty {
		return []entity.Proposal{}, 0, nil
	}

	matched := make([]entity.Proposal, 0, len(ids))
	for _, id := range ids {
		if proposal, exists := r.proposals[id]; exists {
			matched = append(matched, *cloneProposal(proposal))
		}
	}

	sortProposals(matched, criteria)

	total := len(matched)

	offset := criteria.Offset()
	if offset >= total {
		return []entity.Proposal{}, total, nil
	}

	end := offset + criteria.PerPage
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}

// filter returns candidate ids in insertion order. The index slices
// only decide membership; ordering always comes from r.order, since
// updates re-append ids to the index slices and would otherwise leak
// update order into the stable sort. The bool result is true when a
// filter matched nothing, which short-circuits the query.
func (r *ProposalRepo) filter(criteria *entity.ProposalCriteria) ([]uuid.UUID, bool) {
	if !criteria.HasFilters() {
		return r.order, false
	}

	var sets [][]uuid.UUID

	if criteria.CustomerID != nil {
		ids, exists := r.byCustomer[*criteria.CustomerID]
		if !exists || len(ids) == 0 {
			return nil, true
		}
		sets = append(sets, ids)
	}

	if criteria.State != nil {
		ids, exists := r.byState[*criteria.State]
		if !exists || len(ids) == 0 {
			return nil, true
		}
		sets = append(sets, ids)
	}

	members := toSet(sets[0])
	for _, ids := range sets[1:] {
		members = intersect(members, ids)
	}
	if len(members) == 0 {
		return nil, true
	}

	result := make([]uuid.UUID, 0, len(members))
	for _, id := range r.order {
		if _, ok := members[id]; ok {
			result = append(result, id)
		}
	}

	return result, false
}

func toSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}

func intersect(members map[uuid.UUID]struct{}, ids []uuid.UUID) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := members[id]; ok {
			out[id] = struct{}{}
		}
	}

	return out
}

func sortProposals(proposals []entity.Proposal, criteria *entity.ProposalCriteria) {
	asc := criteria.Direction == entity.SortAsc

	sort.SliceStable(proposals, func(i, j int) bool {
		less, equal := compareProposals(&proposals[i], &proposals[j], criteria.SortBy)
		if equal {
			return false
		}
		if asc {
			return less
		}

		return !less
	})
}

func compareProposals(a, b *entity.Proposal, field string) (less, equal bool) {
	switch field {
	case entity.SortByID:
		av, bv := a.ID.String(), b.ID.String()
		return av < bv, av == bv
	case entity.SortByValue:
		av, bv := a.Value.Amount(), b.Value.Amount()
		return av < bv, av == bv
	case entity.SortByState:
		av, bv := string(a.State), string(b.State)
		return av < bv, av == bv
	case entity.SortByUpdatedAt:
		av, bv := timeOrZero(a.UpdatedAt), timeOrZero(b.UpdatedAt)
		return av.Before(bv), av.Equal(bv)
	default:
		return a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}

func (r *ProposalRepo) removeFromIndexes(id uuid.UUID) {
	for customerID, ids := range r.byCustomer {
		r.byCustomer[customerID] = removeID(ids, id)
	}
	for st, ids := range r.byState {
		r.byState[st] = removeID(ids, id)
	}
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}

	return out
}

func cloneProposal(p *entity.Proposal) *entity.Proposal {
	clone := *p
	clone.UpdatedAt = cloneTime(p.UpdatedAt)
	clone.SentAt = cloneTime(p.SentAt)
	clone.RespondedAt = cloneTime(p.RespondedAt)

	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	copied := *t

	return &copied
}
