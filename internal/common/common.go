package common

// Entity type labels used in audit records.
const (
	EntityTypeProposal = "Proposal"
	EntityTypeCustomer = "Customer"
)

// Operation types scoping operation-level idempotency records.
// Each state-changing operation has its own namespace so the same raw
// key can never collide across operation kinds.
const (
	OpSubmitProposal  = "submit_proposal"
	OpApproveProposal = "approve_proposal"
	OpRejectProposal  = "reject_proposal"
	OpCancelProposal  = "cancel_proposal"
)
