package mapper

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bankportal/backend"
	"bankportal/models"
)

// ToUITransaction maps a feed entry to the UI shape. The feed's type
// descriptor is free-form across service versions, so classification is by
// substring: anything containing "with" withdraws, "trans" transfers, and
// everything else deposits.
func ToUITransaction(rec backend.TransactionRecord) models.Transaction {
	typeRaw := strings.ToLower(rec.Type)
	txType := models.TxDeposit
	if strings.Contains(typeRaw, "with") {
		txType = models.TxWithdraw
	} else if strings.Contains(typeRaw, "trans") {
		txType = models.TxTransfer
	}

	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	desc := rec.Description
	if desc == "" {
		desc = strings.ToUpper(txType) + " transaction"
	}

	return models.Transaction{
		ID:          id,
		AccountNo:   rec.AccountNo,
		Type:        txType,
		Amount:      rec.Amount,
		Balance:     rec.Balance,
		Description: desc,
		Timestamp:   ts,
		ToAccountNo: rec.ToAccountNo,
		FromAccount: rec.FromAccount,
	}
}
