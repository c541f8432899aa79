package domain

import "time"

// BudgetRequestStatus tracks the review state of a budget request.
type BudgetRequestStatus string

const (
	BudgetPending  BudgetRequestStatus = "pending"
	BudgetApproved BudgetRequestStatus = "approved"
	BudgetRejected BudgetRequestStatus = "rejected"
)

// BudgetRequest is a department spend request surfaced on the dashboard.
type BudgetRequest struct {
	ID          string              `json:"id"`
	Department  string              `json:"department"`
	Amount      float64             `json:"amount"`
	Reason      string              `json:"reason"`
	Status      BudgetRequestStatus `json:"status"`
	RequestedBy string              `json:"requestedBy"`
	CreatedAt   time.Time           `json:"createdAt"`
}
