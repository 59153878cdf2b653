package dto

import (
	"encoding/json"
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEncapsulationRequest is the envelope for POST /encapsulation/new/
// and PUT /encapsulation/. The kind-specific fields travel in Data and
// are decoded by the registry.
type CreateEncapsulationRequest struct {
	PusherKey string          `json:"pusher_key" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Name      string          `json:"name" binding:"required,max=15"`
	Data      json.RawMessage `json:"data" binding:"required"`
}

// EncapsulationQuery carries the query parameters for GET/DELETE
// /encapsulation/ and /encapsulation/value/.
type EncapsulationQuery struct {
	PusherKey string `form:"pusher_key" binding:"required"`
	Type      string `form:"type" binding:"required"`
	Name      string `form:"name"`
	Timestamp string `form:"timestamp"`
}

// BudgetData is the budget-specific creation payload.
type BudgetData struct {
	AllocAmt  decimal.Decimal `json:"alloc_amt" validate:"required"`
	Priority  *int            `json:"priority"`
	PayPeriod string          `json:"pay_period"`
	PayStart  string          `json:"pay_start" validate:"required,datetime=2006-01-02"`
	Category  string          `json:"category" validate:"max=15"`
}

// FundData is the fund-specific creation payload.
type FundData struct {
	GoalAmt  decimal.Decimal `json:"goal_amt" validate:"required"`
	Priority *int            `json:"priority"`
	Category string          `json:"category" validate:"max=15"`
}

// AccountData is the account-specific creation payload.
type AccountData struct {
	AcctNumber string `json:"acct_number" validate:"max=15"`
	RoutNumber string `json:"rout_number" validate:"max=15"`
	Priority   *int   `json:"priority"`
	Category   string `json:"category" validate:"max=15"`
}

// BudgetResponse is the wire form of a budget; the pusher reference is
// rendered as its display name.
type BudgetResponse struct {
	Pusher    string          `json:"pusher"`
	Name      string          `json:"name"`
	AllocAmt  decimal.Decimal `json:"alloc_amt"`
	Priority  int             `json:"priority"`
	PayPeriod string          `json:"pay_period"`
	PayStart  string          `json:"pay_start"`
	Category  string          `json:"category"`
}

// ToBudgetResponse converts a domain.Budget to its wire form.
func ToBudgetResponse(b *domain.Budget, pusherName string) BudgetResponse {
	return BudgetResponse{
		Pusher:    pusherName,
		Name:      b.Name,
		AllocAmt:  b.AllocAmt,
		Priority:  b.Priority,
		PayPeriod: b.PayPeriod,
		PayStart:  b.PayStart.Format(DateLayout),
		Category:  b.Category,
	}
}

// FundResponse is the wire form of a fund.
type FundResponse struct {
	Pusher   string          `json:"pusher"`
	Name     string          `json:"name"`
	GoalAmt  decimal.Decimal `json:"goal_amt"`
	Priority int             `json:"priority"`
	Category string          `json:"category"`
}

// ToFundResponse converts a domain.Fund to its wire form.
func ToFundResponse(f *domain.Fund, pusherName string) FundResponse {
	return FundResponse{
		Pusher:   pusherName,
		Name:     f.Name,
		GoalAmt:  f.GoalAmt,
		Priority: f.Priority,
		Category: f.Category,
	}
}

// AccountResponse is the wire form of an account.
type AccountResponse struct {
	Pusher       string          `json:"pusher"`
	Name         string          `json:"name"`
	AcctNumber   string          `json:"acct_number"`
	RoutNumber   string          `json:"rout_number"`
	CurrentValue decimal.Decimal `json:"current_value"`
	Priority     int             `json:"priority"`
	Category     string          `json:"category"`
}

// ToAccountResponse converts a domain.Account to its wire form.
func ToAccountResponse(a *domain.Account, pusherName string) AccountResponse {
	return AccountResponse{
		Pusher:       pusherName,
		Name:         a.Name,
		AcctNumber:   a.AcctNumber,
		RoutNumber:   a.RoutNumber,
		CurrentValue: a.CurrentValue,
		Priority:     a.Priority,
		Category:     a.Category,
	}
}

// CreateEncapsulationValueRequest is the payload for
// POST /encapsulation/value/new/.
type CreateEncapsulationValueRequest struct {
	PusherKey string          `json:"pusher_key" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Name      string          `json:"name" binding:"required"`
	Value     decimal.Decimal `json:"value" binding:"required"`
}

// EncapsulationValueResponse renders a value snapshot with its parent
// resolved to a name. NetWorth is set only on account snapshots, which
// recompute the pusher's net worth as a side effect.
type EncapsulationValueResponse struct {
	Name      string           `json:"name"`
	Value     decimal.Decimal  `json:"value"`
	Timestamp time.Time        `json:"timestamp"`
	NetWorth  *decimal.Decimal `json:"net_worth,omitempty"`
}

// ToEncapsulationValueResponse converts a snapshot to its wire form.
func ToEncapsulationValueResponse(v *domain.EncapsulationValue, parentName string) EncapsulationValueResponse {
	return EncapsulationValueResponse{
		Name:      parentName,
		Value:     v.Value,
		Timestamp: v.Timestamp,
	}
}

// ToEncapsulationValueResponses converts a page of snapshots.
func ToEncapsulationValueResponses(values []domain.EncapsulationValue, parentName string) []EncapsulationValueResponse {
	list := make([]EncapsulationValueResponse, len(values))
	for i, v := range values {
		list[i] = ToEncapsulationValueResponse(&v, parentName)
	}
	return list
}

// NetWorthResponse renders one net-worth snapshot.
type NetWorthResponse struct {
	Pusher    string          `json:"pusher"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToNetWorthResponses converts a page of net-worth snapshots.
func ToNetWorthResponses(rows []domain.NetWorth, pusherName string) []NetWorthResponse {
	list := make([]NetWorthResponse, len(rows))
	for i, n := range rows {
		list[i] = NetWorthResponse{
			Pusher:    pusherName,
			Amount:    n.Amount,
			Timestamp: n.Timestamp,
		}
	}
	return list
}
