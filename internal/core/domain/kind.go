package domain

// EntityKind is the type tag selecting a financial entity family on the
// /entity endpoints.
type EntityKind string

const (
	KindIncome          EntityKind = "income"
	KindExpense         EntityKind = "expense"
	KindPaycheck        EntityKind = "paycheck"
	KindBill            EntityKind = "bill"
	KindSubscription    EntityKind = "subscription"
	KindForSale         EntityKind = "for_sale"
	KindDesiredPurchase EntityKind = "desired_purchase"
)

// EncapsulationKind is the type tag selecting a bucket family on the
// /encapsulation endpoints. The entity and encapsulation sets are
// disjoint: budget/fund/account are never valid entity tags.
type EncapsulationKind string

const (
	KindBudget  EncapsulationKind = "budget"
	KindFund    EncapsulationKind = "fund"
	KindAccount EncapsulationKind = "account"
)

var entityKinds = map[EntityKind]struct{}{
	KindIncome:          {},
	KindExpense:         {},
	KindPaycheck:        {},
	KindBill:            {},
	KindSubscription:    {},
	KindForSale:         {},
	KindDesiredPurchase: {},
}

var encapsulationKinds = map[EncapsulationKind]struct{}{
	KindBudget:  {},
	KindFund:    {},
	KindAccount: {},
}

// ParseEntityKind validates a raw type tag against the entity kind set.
func ParseEntityKind(s string) (EntityKind, bool) {
	k := EntityKind(s)
	_, ok := entityKinds[k]
	return k, ok
}

// ParseEncapsulationKind validates a raw type tag against the
// encapsulation kind set.
func ParseEncapsulationKind(s string) (EncapsulationKind, bool) {
	k := EncapsulationKind(s)
	_, ok := encapsulationKinds[k]
	return k, ok
}

// IsElective reports whether the kind is keyed by item name rather than
// by timestamp. Elective rows are the only entities that may be updated.
func (k EntityKind) IsElective() bool {
	switch k {
	case KindBill, KindSubscription, KindForSale, KindDesiredPurchase:
		return true
	}
	return false
}
