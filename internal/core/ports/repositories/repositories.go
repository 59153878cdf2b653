package repositories

// RepositoryProvider bundles every repository the service layer needs,
// so wiring happens once at startup.
type RepositoryProvider struct {
	User         UserRepository
	Pusher       PusherRepository
	Budget       BudgetRepository
	Fund         FundRepository
	Account      AccountRepository
	NetWorth     NetWorthRepository
	Income       IncomeRepository
	Expense      ExpenseRepository
	Paycheck     PaycheckRepository
	Bill         BillRepository
	Subscription SubscriptionRepository
	Trade        TradeRepository
}
