package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankportal/backend"
	"bankportal/models"
)

func TestToUITransactionClassification(t *testing.T) {
	cases := map[string]string{
		"WITHDRAWAL":    models.TxWithdraw,
		"cash-withdraw": models.TxWithdraw,
		"NEFT_TRANSFER": models.TxTransfer,
		"transfer":      models.TxTransfer,
		"DEPOSIT":       models.TxDeposit,
		"credit":        models.TxDeposit,
		"":              models.TxDeposit,
	}
	for raw, want := range cases {
		tx := ToUITransaction(backend.TransactionRecord{Type: raw})
		assert.Equal(t, want, tx.Type, "type descriptor %q", raw)
	}
}

func TestToUITransactionFallbacks(t *testing.T) {
	tx := ToUITransaction(backend.TransactionRecord{})
	assert.NotEmpty(t, tx.ID)
	assert.False(t, tx.Timestamp.IsZero())
	assert.Equal(t, "DEPOSIT transaction", tx.Description)

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tx = ToUITransaction(backend.TransactionRecord{ID: "tx-1", Timestamp: ts, Description: "salary"})
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, ts, tx.Timestamp)
	assert.Equal(t, "salary", tx.Description)
}

func TestTransactionRecordAlternateKeys(t *testing.T) {
	raw := []byte(`{
		"transactionId": 991,
		"transactionType": "TRANSFER",
		"amount": 250,
		"currentBalance": 1250,
		"sourceAccount": "ACC1001",
		"destinationAccount": "ACC2002",
		"note": "rent"
	}`)
	var rec backend.TransactionRecord
	require.NoError(t, json.Unmarshal(raw, &rec))

	assert.Equal(t, "991", rec.ID)
	assert.Equal(t, "TRANSFER", rec.Type)
	assert.Equal(t, "ACC1001", rec.AccountNo)
	assert.Equal(t, "ACC1001", rec.FromAccount)
	assert.Equal(t, "ACC2002", rec.ToAccountNo)
	assert.Equal(t, "rent", rec.Description)
	assert.True(t, rec.Balance.Equal(dec("1250")))

	tx := ToUITransaction(rec)
	assert.Equal(t, models.TxTransfer, tx.Type)
}

func TestCustomerRecordAlternateKeys(t *testing.T) {
	raw := []byte(`{
		"id": "SSN009",
		"accountNo": "ACC9",
		"aadhaarNo": "123456789012",
		"panNo": "ABCDE1234F",
		"contactNo": "9876543210",
		"customerName": "Asha Rao"
	}`)
	var rec backend.CustomerRecord
	require.NoError(t, json.Unmarshal(raw, &rec))

	assert.Equal(t, "SSN009", rec.SSNID)
	assert.Equal(t, "ACC9", rec.AccountNumber)
	assert.Equal(t, "123456789012", rec.AadharNumber)
	assert.Equal(t, "ABCDE1234F", rec.PanNumber)
	assert.Equal(t, "9876543210", rec.ContactNumber)
}
