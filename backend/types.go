package backend

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRecord is the customer-service wire shape. The service and older
// snapshots of it disagree on several key spellings (id vs ssnId, accountNo
// vs accountNumber, aadhaarNo vs aadharNumber), so decoding tolerates the
// alternates and fills the primary field from whichever key was present.
type CustomerRecord struct {
	SSNID          string           `json:"ssnId,omitempty"`
	CustomerName   string           `json:"customerName,omitempty"`
	Email          string           `json:"email,omitempty"`
	ContactNumber  string           `json:"contactNumber,omitempty"`
	AadharNumber   string           `json:"aadharNumber,omitempty"`
	PanNumber      string           `json:"panNumber,omitempty"`
	DateOfBirth    string           `json:"dateOfBirth,omitempty"`
	Gender         string           `json:"gender,omitempty"`
	Address        string           `json:"address,omitempty"`
	City           string           `json:"city,omitempty"`
	Age            int              `json:"age,omitempty"`
	AccountNumber  string           `json:"accountNumber,omitempty"`
	AccountType    string           `json:"accountType,omitempty"`
	Balance        *decimal.Decimal `json:"balance,omitempty"`
	InitialDeposit *decimal.Decimal `json:"initialDeposit,omitempty"`
	IFSCCode       string           `json:"ifscCode,omitempty"`
}

func (r *CustomerRecord) UnmarshalJSON(data []byte) error {
	type plain CustomerRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var alt struct {
		ID        string `json:"id"`
		AccountNo string `json:"accountNo"`
		AadhaarNo string `json:"aadhaarNo"`
		PanNo     string `json:"panNo"`
		ContactNo string `json:"contactNo"`
	}
	if err := json.Unmarshal(data, &alt); err != nil {
		return err
	}
	if p.SSNID == "" {
		p.SSNID = alt.ID
	}
	if p.AccountNumber == "" {
		p.AccountNumber = alt.AccountNo
	}
	if p.AadharNumber == "" {
		p.AadharNumber = alt.AadhaarNo
	}
	if p.PanNumber == "" {
		p.PanNumber = alt.PanNo
	}
	if p.ContactNumber == "" {
		p.ContactNumber = alt.ContactNo
	}
	*r = CustomerRecord(p)
	return nil
}

// TransactionRecord is one entry of the account-service transaction feed.
// The feed's key names drifted across service versions as well; sourceAccount
// doubles as both the owning account and the transfer origin.
type TransactionRecord struct {
	ID          string          `json:"id,omitempty"`
	AccountNo   string          `json:"accountNo,omitempty"`
	Type        string          `json:"type,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	Timestamp   time.Time       `json:"timestamp,omitempty"`
	ToAccountNo string          `json:"toAccountNo,omitempty"`
	FromAccount string          `json:"fromAccountNo,omitempty"`
}

func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	type plain TransactionRecord
	var p plain
	aux := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: &p}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var alt struct {
		TransactionID      json.RawMessage  `json:"transactionId"`
		AccountNumber      string           `json:"accountNumber"`
		TransactionType    string           `json:"transactionType"`
		CurrentBalance     *decimal.Decimal `json:"currentBalance"`
		Note               string           `json:"note"`
		SourceAccount      string           `json:"sourceAccount"`
		DestinationAccount string           `json:"destinationAccount"`
	}
	if err := json.Unmarshal(data, &alt); err != nil {
		return err
	}
	// Ids arrive as strings or numbers depending on the service version.
	p.ID = rawID(aux.ID)
	if p.ID == "" {
		p.ID = rawID(alt.TransactionID)
	}
	if p.AccountNo == "" {
		p.AccountNo = alt.AccountNumber
	}
	if p.AccountNo == "" {
		p.AccountNo = alt.SourceAccount
	}
	if p.Type == "" {
		p.Type = alt.TransactionType
	}
	if p.Balance.IsZero() && alt.CurrentBalance != nil {
		p.Balance = *alt.CurrentBalance
	}
	if p.Description == "" {
		p.Description = alt.Note
	}
	if p.ToAccountNo == "" {
		p.ToAccountNo = alt.DestinationAccount
	}
	if p.FromAccount == "" {
		p.FromAccount = alt.SourceAccount
	}
	*r = TransactionRecord(p)
	return nil
}

// rawID normalizes an id token that may be a JSON string or number.
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" || s == "0" {
		return ""
	}
	return s
}

// EmployeeRecord is the employee-service wire shape.
type EmployeeRecord struct {
	EmployeeID    string `json:"employeeId,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	Designation   string `json:"designation,omitempty"`
	Address       string `json:"address,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	IsActive      *bool  `json:"isActive,omitempty"`
}

// UserRecord is the identity the auth-service returns on login and register.
type UserRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type loginResponse struct {
	User *UserRecord `json:"user"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferRequest struct {
	SourceAccount      string          `json:"sourceAccount"`
	DestinationAccount string          `json:"destinationAccount"`
	Amount             decimal.Decimal `json:"amount"`
}

// AccountCreateRequest provisions an account in the account-service for a
// customer whose record predates it.
type AccountCreateRequest struct {
	AccountType       string          `json:"accountType"`
	AccountNumber     string          `json:"accountNumber"`
	AccountHolderName string          `json:"accountHolderName"`
	InitialBalance    decimal.Decimal `json:"initialBalance"`
	CustomerSSN       string          `json:"customerSsn"`
}
