package entity

import (
	"fmt"
	"maps"
	"math"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/apperror"
)

// Payout records a completed escrow transfer to a winner.
type Payout struct {
	Winner Identity `json:"winner"`
	Amount int64    `json:"amount"`
}

// Ledger tracks deposited, unspent balances per identity.
// It only bookkeeps: the caller guarantees the value was received before Deposit.
type Ledger struct {
	balances map[Identity]int64
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[Identity]int64)}
}

// NewLedgerFromBalances restores a ledger, dropping empty entries.
func NewLedgerFromBalances(balances map[Identity]int64) *Ledger {
	ledger := NewLedger()
	for id, amount := range balances {
		if amount > 0 {
			ledger.balances[id] = amount
		}
	}

	return ledger
}

func (that *Ledger) Deposit(id Identity, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", apperror.ErrNonPositiveDeposit, amount)
	}

	if that.Total() > math.MaxInt64-amount {
		return fmt.Errorf("%w: %d", apperror.ErrDepositOverflow, amount)
	}

	that.balances[id] += amount

	return nil
}

// Payout moves the winner's and loser's balances to the winner in one step.
// Both balances are zero afterwards and the combined sum leaves the ledger.
func (that *Ledger) Payout(winner, loser Identity) Payout {
	amount := that.balances[winner] + that.balances[loser]

	delete(that.balances, winner)
	delete(that.balances, loser)

	return Payout{Winner: winner, Amount: amount}
}

func (that *Ledger) BalanceOf(id Identity) int64 {
	return that.balances[id]
}

// Total returns the value currently held across all identities.
func (that *Ledger) Total() int64 {
	var total int64
	for _, amount := range that.balances {
		total += amount
	}

	return total
}

func (that *Ledger) Balances() map[Identity]int64 {
	return maps.Clone(that.balances)
}
