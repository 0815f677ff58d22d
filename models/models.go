package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The account-service speaks plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// Roles as the auth-service spells them.
const (
	RoleCustomer = "CUSTOMER"
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
)

// Account types after normalization.
const (
	AccountSavings = "savings"
	AccountCurrent = "current"
)

// Transaction types after classification.
const (
	TxDeposit  = "deposit"
	TxWithdraw = "withdraw"
	TxTransfer = "transfer"
)

// User is the authenticated identity shared by all roles.
type User struct {
	ID        string    `json:"id"`
	SSN       string    `json:"ssn,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`

	// Customer enrichment, populated only for customer-role identities.
	AccountNo   string          `json:"accountNo,omitempty"`
	AccountType string          `json:"accountType,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	Address     string          `json:"address,omitempty"`
	ContactNo   string          `json:"contactNo,omitempty"`
	City        string          `json:"city,omitempty"`
}

// Customer is the UI-facing customer record. Balance is overwritten by
// hydration whenever an account number is present; the value carried on the
// customer record itself is not trusted.
type Customer struct {
	ID            string          `json:"id"`
	SSN           string          `json:"ssn"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	Role          string          `json:"role"`
	IsActive      bool            `json:"isActive"`
	AccountNo     string          `json:"accountNo"`
	IFSCCode      string          `json:"ifscCode"`
	Balance       decimal.Decimal `json:"balance"`
	AadhaarNo     string          `json:"aadhaarNo"`
	PanNo         string          `json:"panNo"`
	DateOfBirth   string          `json:"dateOfBirth,omitempty"`
	Gender        string          `json:"gender"`
	MaritalStatus string          `json:"maritalStatus"`
	Address       string          `json:"address"`
	ContactNo     string          `json:"contactNo"`
	AccountType   string          `json:"accountType"`
	City          string          `json:"city"`
	Age           int             `json:"age"`

	// InitialDeposit is only meaningful on creation payloads.
	InitialDeposit decimal.Decimal `json:"initialDeposit,omitempty"`
}

// Employee is the UI-facing employee record.
type Employee struct {
	ID          string `json:"id"`
	EmpID       string `json:"empId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Department  string `json:"department"`
	Address     string `json:"address"`
	ContactNo   string `json:"contactNo"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// Transaction is one rendered ledger entry. Balance is the account balance
// immediately after this transaction as displayed, reconstructed backward
// from the current known balance.
type Transaction struct {
	ID          string          `json:"id"`
	AccountNo   string          `json:"accountNo"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
	ToAccountNo string          `json:"toAccountNo,omitempty"`
	FromAccount string          `json:"fromAccountNo,omitempty"`
}

// LoginRequest carries the identifier (SSN for customers, user id for
// employees and managers), password and role.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
}

// Registration is a self-service customer signup.
type Registration struct {
	SSN       string `json:"ssn" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}
