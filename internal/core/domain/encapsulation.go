package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Encapsulation holds the fields shared by budgets, funds and accounts.
// Name is unique per (pusher, kind), enforced both at the application
// layer and by a unique index.
type Encapsulation struct {
	EncapsulationID string    `json:"encapsulationID" db:"encapsulation_id"`
	PusherID        string    `json:"pusherID" db:"pusher_id"`
	Name            string    `json:"name" db:"name"`
	Priority        int       `json:"priority" db:"priority"`
	Category        string    `json:"category" db:"category"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Budget groups expenses against a recurring allocation.
type Budget struct {
	Encapsulation
	AllocAmt  decimal.Decimal `json:"allocAmt" db:"alloc_amt"`
	PayPeriod string          `json:"payPeriod" db:"pay_period"`
	PayStart  time.Time       `json:"payStart" db:"pay_start"`
}

// Fund tracks savings toward a goal amount.
type Fund struct {
	Encapsulation
	GoalAmt decimal.Decimal `json:"goalAmt" db:"goal_amt"`
}

// Account mirrors an external financial account. CurrentValue caches the
// most recently recorded AccountValue and feeds net-worth snapshots.
type Account struct {
	Encapsulation
	AcctNumber   string          `json:"acctNumber" db:"acct_number"`
	RoutNumber   string          `json:"routNumber" db:"rout_number"`
	CurrentValue decimal.Decimal `json:"currentValue" db:"current_value"`
}

// EncapsulationValue is a timestamped monetary snapshot of one
// encapsulation. Rows are immutable; corrections are delete-and-recreate.
type EncapsulationValue struct {
	ValueID         string          `json:"valueID" db:"value_id"`
	EncapsulationID string          `json:"encapsulationID" db:"encapsulation_id"`
	Value           decimal.Decimal `json:"value" db:"value"`
	Timestamp       time.Time       `json:"timestamp" db:"timestamp"`
}

// NetWorth is a pusher-scoped snapshot of the summed account values,
// appended whenever an account value is recorded.
type NetWorth struct {
	NetWorthID string          `json:"netWorthID" db:"networth_id"`
	PusherID   string          `json:"pusherID" db:"pusher_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
}
