package event_bus

const TransactionsMaterializedType EventType = "transaction.materialized"

// TransactionsMaterialized is published after recurring templates of a user produced
// new transactions.
type TransactionsMaterialized struct {
	UserId   int
	Inserted int
}
