package dto

import (
	"encoding/json"
	"time"

	"github.com/pennypusher/pennypusher/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntityRequest is the envelope for POST /entity/new/ and
// PUT /entity/. Kind-specific fields travel in Data.
type CreateEntityRequest struct {
	PusherKey string          `json:"pusher_key" binding:"required"`
	Type      string          `json:"type" binding:"required"`
	Data      json.RawMessage `json:"data" binding:"required"`
}

// EntityQuery carries the query parameters for GET/DELETE /entity/.
// Timestamp keys income/expense/paycheck deletes; item (plus due_date for
// bills) keys elective deletes.
type EntityQuery struct {
	PusherKey string `form:"pusher_key" binding:"required"`
	Type      string `form:"type" binding:"required"`
	Item      string `form:"item"`
	Timestamp string `form:"timestamp"`
	DueDate   string `form:"due_date"`
}

// IncomeData is the income creation payload.
type IncomeData struct {
	Item     string          `json:"item" validate:"required,max=20"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Source   string          `json:"source" validate:"required,max=20"`
	Category string          `json:"category" validate:"max=30"`
}

// ExpenseData is the expense creation payload. Budget and Fund arrive as
// display names and are resolved centrally; when both are named the
// budget link wins and the fund is dropped.
type ExpenseData struct {
	Item     string          `json:"item" validate:"required,max=20"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Party    string          `json:"party" validate:"max=20"`
	Category string          `json:"category" validate:"max=30"`
	Budget   *string         `json:"budget"`
	Fund     *string         `json:"fund"`
}

// PaycheckData is the paycheck creation payload. NetAmt seeds the owned
// income row.
type PaycheckData struct {
	Company      string           `json:"company_name" validate:"required,max=20"`
	Hours        decimal.Decimal  `json:"hours" validate:"required"`
	StartDate    string           `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate      string           `json:"end_date" validate:"required,datetime=2006-01-02"`
	PayDate      string           `json:"pay_date" validate:"required,datetime=2006-01-02"`
	GrossAmt     decimal.Decimal  `json:"gross_amt" validate:"required"`
	PreTaxDeduc  *decimal.Decimal `json:"pre_tax_deduc"`
	PostTaxDeduc *decimal.Decimal `json:"post_tax_deduc"`
	FederalWith  *decimal.Decimal `json:"federal_with"`
	StateTax     *decimal.Decimal `json:"state_tax"`
	CityTax      *decimal.Decimal `json:"city_tax"`
	Medicare     *decimal.Decimal `json:"medicare"`
	Oasdi        *decimal.Decimal `json:"oasdi"`
	NetAmt       decimal.Decimal  `json:"net_amt" validate:"required"`
}

// BillData is the bill creation payload.
type BillData struct {
	Item     string          `json:"item" validate:"required,max=20"`
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Party    string          `json:"party" validate:"max=20"`
	Category string          `json:"category" validate:"max=30"`
	Budget   *string         `json:"budget"`
	Fund     *string         `json:"fund"`
	Status   string          `json:"status" validate:"required,max=20"`
	DueDate  string          `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// SubscriptionData is the subscription creation payload.
type SubscriptionData struct {
	Item      string          `json:"item" validate:"required,max=20"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	PayPeriod string          `json:"pay_period" validate:"required,max=20"`
	StartDate string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	Status    string          `json:"status" validate:"required,max=20"`
}

// TradeData is the trade creation payload shared by the for_sale and
// desired_purchase tags.
type TradeData struct {
	Item   string          `json:"item" validate:"required,max=20"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
	Status string          `json:"status" validate:"required,max=20"`
}

// IncomeResponse is the wire form of an income row.
type IncomeResponse struct {
	Pusher    string          `json:"pusher"`
	Item      string          `json:"item"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source"`
	Category  string          `json:"category"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToIncomeResponse converts a domain.Income to its wire form.
func ToIncomeResponse(in *domain.Income, pusherName string) IncomeResponse {
	return IncomeResponse{
		Pusher:    pusherName,
		Item:      in.Item,
		Amount:    in.Amount,
		Source:    in.Source,
		Category:  in.Category,
		Timestamp: in.Timestamp,
	}
}

// ExpenseResponse is the wire form of an expense row; budget and fund
// references render as names.
type ExpenseResponse struct {
	Pusher    string          `json:"pusher"`
	Item      string          `json:"item"`
	Amount    decimal.Decimal `json:"amount"`
	Party     string          `json:"party"`
	Category  string          `json:"category"`
	Budget    *string         `json:"budget"`
	Fund      *string         `json:"fund"`
	Timestamp time.Time       `json:"timestamp"`
}

// ToExpenseResponse converts a domain.Expense to its wire form.
func ToExpenseResponse(e *domain.Expense, pusherName string) ExpenseResponse {
	return ExpenseResponse{
		Pusher:    pusherName,
		Item:      e.Item,
		Amount:    e.Amount,
		Party:     e.Party,
		Category:  e.Category,
		Budget:    e.BudgetName,
		Fund:      e.FundName,
		Timestamp: e.Timestamp,
	}
}

// PaycheckResponse is the wire form of a paycheck row.
type PaycheckResponse struct {
	Pusher       string           `json:"pusher"`
	Company      string           `json:"company_name"`
	Hours        decimal.Decimal  `json:"hours"`
	StartDate    string           `json:"start_date"`
	EndDate      string           `json:"end_date"`
	PayDate      string           `json:"pay_date"`
	GrossAmt     decimal.Decimal  `json:"gross_amt"`
	PreTaxDeduc  *decimal.Decimal `json:"pre_tax_deduc"`
	PostTaxDeduc *decimal.Decimal `json:"post_tax_deduc"`
	FederalWith  *decimal.Decimal `json:"federal_with"`
	StateTax     *decimal.Decimal `json:"state_tax"`
	CityTax      *decimal.Decimal `json:"city_tax"`
	Medicare     *decimal.Decimal `json:"medicare"`
	Oasdi        *decimal.Decimal `json:"oasdi"`
	NetAmt       decimal.Decimal  `json:"net_amt"`
}

// ToPaycheckResponse converts a domain.Paycheck to its wire form.
func ToPaycheckResponse(p *domain.Paycheck, pusherName string) PaycheckResponse {
	return PaycheckResponse{
		Pusher:       pusherName,
		Company:      p.Source,
		Hours:        p.Hours,
		StartDate:    p.StartDate.Format(DateLayout),
		EndDate:      p.EndDate.Format(DateLayout),
		PayDate:      p.PayDate.Format(DateLayout),
		GrossAmt:     p.GrossAmt,
		PreTaxDeduc:  p.PreTaxDeduc,
		PostTaxDeduc: p.PostTaxDeduc,
		FederalWith:  p.FederalWith,
		StateTax:     p.StateTax,
		CityTax:      p.CityTax,
		Medicare:     p.Medicare,
		Oasdi:        p.Oasdi,
		NetAmt:       p.NetAmt,
	}
}

// BillResponse is the wire form of a bill row.
type BillResponse struct {
	Pusher   string          `json:"pusher"`
	Item     string          `json:"item"`
	Amount   decimal.Decimal `json:"amount"`
	Party    string          `json:"party"`
	Category string          `json:"category"`
	Budget   *string         `json:"budget"`
	Fund     *string         `json:"fund"`
	Status   string          `json:"status"`
	DueDate  string          `json:"due_date"`
}

// ToBillResponse converts a domain.Bill to its wire form.
func ToBillResponse(b *domain.Bill, pusherName string) BillResponse {
	return BillResponse{
		Pusher:   pusherName,
		Item:     b.Item,
		Amount:   b.Amount,
		Party:    b.Party,
		Category: b.Category,
		Budget:   b.BudgetName,
		Fund:     b.FundName,
		Status:   b.Status,
		DueDate:  b.DueDate.Format(DateLayout),
	}
}

// SubscriptionResponse is the wire form of a subscription row.
type SubscriptionResponse struct {
	Pusher    string          `json:"pusher"`
	Item      string          `json:"item"`
	Amount    decimal.Decimal `json:"amount"`
	PayPeriod string          `json:"pay_period"`
	StartDate string          `json:"start_date"`
	Status    string          `json:"status"`
}

// ToSubscriptionResponse converts a domain.Subscription to its wire form.
func ToSubscriptionResponse(s *domain.Subscription, pusherName string) SubscriptionResponse {
	return SubscriptionResponse{
		Pusher:    pusherName,
		Item:      s.Item,
		Amount:    s.Amount,
		PayPeriod: s.PayPeriod,
		StartDate: s.StartDate.Format(DateLayout),
		Status:    s.Status,
	}
}

// TradeResponse is the wire form of a trade row; Type echoes the tag the
// row was created under.
type TradeResponse struct {
	Pusher string          `json:"pusher"`
	Item   string          `json:"item"`
	Amount decimal.Decimal `json:"amount"`
	Status string          `json:"status"`
	Type   string          `json:"type"`
}

// ToTradeResponse converts a domain.Trade to its wire form.
func ToTradeResponse(t *domain.Trade, pusherName string) TradeResponse {
	return TradeResponse{
		Pusher: pusherName,
		Item:   t.Item,
		Amount: t.Amount,
		Status: t.Status,
		Type:   t.TradeType,
	}
}
