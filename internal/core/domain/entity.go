package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is a recorded inflow, keyed by (pusher, timestamp).
type Income struct {
	IncomeID  string          `json:"incomeID" db:"income_id"`
	PusherID  string          `json:"pusherID" db:"pusher_id"`
	UserID    string          `json:"userID" db:"user_id"`
	Item      string          `json:"item" db:"item"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Source    string          `json:"source" db:"source"`
	Category  string          `json:"category" db:"category"`
	Timestamp time.Time       `json:"timestamp" db:"timestamp"`
}

// Expense is a recorded outflow, keyed by (pusher, timestamp). At most
// one of BudgetID/FundID may be set; the BudgetName/FundName columns are
// populated by joins for wire rendering.
type Expense struct {
	ExpenseID  string          `json:"expenseID" db:"expense_id"`
	PusherID   string          `json:"pusherID" db:"pusher_id"`
	UserID     string          `json:"userID" db:"user_id"`
	Item       string          `json:"item" db:"item"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Party      string          `json:"party" db:"party"`
	Category   string          `json:"category" db:"category"`
	BudgetID   *string         `json:"budgetID" db:"budget_id"`
	FundID     *string         `json:"fundID" db:"fund_id"`
	BudgetName *string         `json:"budgetName" db:"budget_name"`
	FundName   *string         `json:"fundName" db:"fund_name"`
	Timestamp  time.Time       `json:"timestamp" db:"timestamp"`
}

// Paycheck is a pay-stub breakdown. Each paycheck owns exactly one Income
// row carrying its net amount; the two are created and deleted together.
// The canonical temporal key is (pusher, pay_date).
type Paycheck struct {
	PaycheckID   string           `json:"paycheckID" db:"paycheck_id"`
	PusherID     string           `json:"pusherID" db:"pusher_id"`
	UserID       string           `json:"userID" db:"user_id"`
	Source       string           `json:"source" db:"source"`
	Hours        decimal.Decimal  `json:"hours" db:"hours"`
	StartDate    time.Time        `json:"startDate" db:"start_date"`
	EndDate      time.Time        `json:"endDate" db:"end_date"`
	PayDate      time.Time        `json:"payDate" db:"pay_date"`
	GrossAmt     decimal.Decimal  `json:"grossAmt" db:"gross_amt"`
	PreTaxDeduc  *decimal.Decimal `json:"preTaxDeduc" db:"pre_tax_deduc"`
	PostTaxDeduc *decimal.Decimal `json:"postTaxDeduc" db:"post_tax_deduc"`
	FederalWith  *decimal.Decimal `json:"federalWith" db:"federal_with"`
	StateTax     *decimal.Decimal `json:"stateTax" db:"state_tax"`
	CityTax      *decimal.Decimal `json:"cityTax" db:"city_tax"`
	Medicare     *decimal.Decimal `json:"medicare" db:"medicare"`
	Oasdi        *decimal.Decimal `json:"oasdi" db:"oasdi"`
	NetAmt       decimal.Decimal  `json:"netAmt" db:"net_amt"`
	IncomeID     string           `json:"incomeID" db:"income_id"`
}

// Bill is an elective expense with a due date, keyed by
// (pusher, item, due_date).
type Bill struct {
	BillID     string          `json:"billID" db:"bill_id"`
	PusherID   string          `json:"pusherID" db:"pusher_id"`
	UserID     string          `json:"userID" db:"user_id"`
	Item       string          `json:"item" db:"item"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Party      string          `json:"party" db:"party"`
	Category   string          `json:"category" db:"category"`
	BudgetID   *string         `json:"budgetID" db:"budget_id"`
	FundID     *string         `json:"fundID" db:"fund_id"`
	BudgetName *string         `json:"budgetName" db:"budget_name"`
	FundName   *string         `json:"fundName" db:"fund_name"`
	Status     string          `json:"status" db:"status"`
	DueDate    time.Time       `json:"dueDate" db:"due_date"`
}

// Subscription is an elective recurring charge, keyed by (pusher, item).
type Subscription struct {
	SubscriptionID string          `json:"subscriptionID" db:"subscription_id"`
	PusherID       string          `json:"pusherID" db:"pusher_id"`
	Item           string          `json:"item" db:"item"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	PayPeriod      string          `json:"payPeriod" db:"pay_period"`
	StartDate      time.Time       `json:"startDate" db:"start_date"`
	Status         string          `json:"status" db:"status"`
}

// Trade is an elective buy/sell item, keyed by (pusher, item). TradeType
// distinguishes the for_sale and desired_purchase tags, which share this
// table.
type Trade struct {
	TradeID   string          `json:"tradeID" db:"trade_id"`
	PusherID  string          `json:"pusherID" db:"pusher_id"`
	Item      string          `json:"item" db:"item"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Status    string          `json:"status" db:"status"`
	TradeType string          `json:"tradeType" db:"trade_type"`
}
