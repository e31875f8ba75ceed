package forecast

import "fmt"

// Error types for analysis failures

// MissingBalanceError is returned when an account listed for analysis has
// no entry in the current balances. Defaulting to zero would mask a real
// upstream inconsistency, so the analyzer fails instead.
type MissingBalanceError struct {
	AccountID int64
	Name      string
}

func (e *MissingBalanceError) Error() string {
	return fmt.Sprintf("no current balance for account %d (%s)", e.AccountID, e.Name)
}

// GetAccountID returns the account the balance was missing for.
func (e *MissingBalanceError) GetAccountID() int64 {
	return e.AccountID
}

// InvalidTransactionError is returned when the projector cannot apply a
// transaction. Skipping it silently would corrupt the running balance of
// every subsequent day, so projection fails fast instead.
type InvalidTransactionError struct {
	Transaction *Transaction
	Reason      string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction %d on account %d: %s",
		e.Transaction.ID, e.Transaction.AccountID, e.Reason)
}

// GetTransaction returns the offending transaction.
func (e *InvalidTransactionError) GetTransaction() *Transaction {
	return e.Transaction
}
