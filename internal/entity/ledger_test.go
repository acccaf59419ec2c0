package entity

import (
	"math"
	"testing"

	"github.com/rocketscienceinc/tictactoe-escrow/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Deposit(t *testing.T) {
	t.Run("Balance equals the sum of deposits", func(t *testing.T) {
		// Given: an empty ledger
		ledger := NewLedger()

		// When: two players deposit
		require.NoError(t, ledger.Deposit("alice", 1))
		require.NoError(t, ledger.Deposit("bob", 1))
		require.NoError(t, ledger.Deposit("alice", 5))

		// Then: totals and per-identity balances add up
		assert.Equal(t, int64(7), ledger.Total())
		assert.Equal(t, int64(6), ledger.BalanceOf("alice"))
		assert.Equal(t, int64(1), ledger.BalanceOf("bob"))
	})

	t.Run("Rejects non-positive amounts", func(t *testing.T) {
		// Given: a ledger with a deposit
		ledger := NewLedger()
		require.NoError(t, ledger.Deposit("alice", 3))

		// When: depositing zero or a negative amount
		errZero := ledger.Deposit("alice", 0)
		errNegative := ledger.Deposit("alice", -1)

		// Then: both fail and the balance is unchanged
		require.ErrorIs(t, errZero, apperror.ErrNonPositiveDeposit)
		require.ErrorIs(t, errNegative, apperror.ErrNonPositiveDeposit)
		assert.Equal(t, int64(3), ledger.Total())
	})

	t.Run("Rejects overflow", func(t *testing.T) {
		// Given: a ledger close to the limit
		ledger := NewLedger()
		require.NoError(t, ledger.Deposit("alice", math.MaxInt64-1))

		// When: depositing past it
		err := ledger.Deposit("bob", 2)

		// Then: it fails and nothing changes
		require.ErrorIs(t, err, apperror.ErrDepositOverflow)
		assert.Equal(t, int64(math.MaxInt64-1), ledger.Total())
		assert.Zero(t, ledger.BalanceOf("bob"))
	})
}

func TestLedger_Payout(t *testing.T) {
	t.Run("Moves both balances to the winner", func(t *testing.T) {
		// Given: both players deposited
		ledger := NewLedger()
		require.NoError(t, ledger.Deposit("alice", 1))
		require.NoError(t, ledger.Deposit("bob", 1))

		// When: paying out to alice
		payout := ledger.Payout("alice", "bob")

		// Then: the pot leaves the ledger in full
		assert.Equal(t, Payout{Winner: "alice", Amount: 2}, payout)
		assert.Zero(t, ledger.BalanceOf("alice"))
		assert.Zero(t, ledger.BalanceOf("bob"))
		assert.Zero(t, ledger.Total())
	})

	t.Run("Leaves outsiders untouched", func(t *testing.T) {
		// Given: a deposit from someone not playing
		ledger := NewLedger()
		require.NoError(t, ledger.Deposit("alice", 2))
		require.NoError(t, ledger.Deposit("carol", 4))

		// When: paying out alice against bob
		payout := ledger.Payout("alice", "bob")

		// Then: only the participants' balances move
		assert.Equal(t, int64(2), payout.Amount)
		assert.Equal(t, int64(4), ledger.Total())
	})

	t.Run("Restores from balances", func(t *testing.T) {
		// Given: stored balances with an empty entry
		ledger := NewLedgerFromBalances(map[Identity]int64{"alice": 3, "bob": 0})

		// Then: the empty entry is dropped
		assert.Equal(t, map[Identity]int64{"alice": 3}, ledger.Balances())
	})
}
