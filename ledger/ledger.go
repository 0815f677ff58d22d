// Package ledger reconstructs a display ledger from the account-service
// transaction feed. The feed carries no authoritative per-entry balance, so
// running balances are computed backward from the current known balance: the
// newest entry shows the anchor, each older entry shows the anchor with the
// newer entries' signed effects undone.
//
// This is a heuristic, not a ledger guarantee. It diverges from the true
// history if the feed window is incomplete, entries share identical
// timestamps in the wrong order, or the anchor balance already reflects
// transactions outside the window.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"bankportal/models"
)

// Build sorts txs newest-first and annotates each entry with the running
// balance at its point in time, anchored on currentBalance. accountNo decides
// the sign of transfers: outgoing subtracts, incoming adds, and a transfer
// that names this account on neither side leaves the balance untouched.
func Build(txs []models.Transaction, currentBalance decimal.Decimal, accountNo string) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	running := currentBalance
	for i := range out {
		out[i].Balance = running
		running = running.Sub(signedDelta(out[i], accountNo))
	}
	return out
}

func signedDelta(tx models.Transaction, accountNo string) decimal.Decimal {
	switch tx.Type {
	case models.TxDeposit:
		return tx.Amount
	case models.TxWithdraw:
		return tx.Amount.Neg()
	case models.TxTransfer:
		if tx.FromAccount != "" && tx.FromAccount == accountNo {
			return tx.Amount.Neg()
		}
		if tx.ToAccountNo != "" && tx.ToAccountNo == accountNo {
			return tx.Amount
		}
	}
	return decimal.Zero
}
