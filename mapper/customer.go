// Package mapper translates between the backends' wire shapes and the
// UI-facing records. Every normalization rule (digit stripping, casing,
// name splitting) lives here and nowhere else.
package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bankportal/backend"
	"bankportal/models"
)

// Mode selects which payload rules apply when deriving a backend record.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// ValidationError reports required fields missing after normalization. It is
// raised before any network call.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// SplitName splits a full name on the first space; everything after it
// becomes the last name.
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeContact keeps the trailing 10 digits of a phone number.
func NormalizeContact(s string) string {
	d := digitsOnly(s)
	if len(d) > 10 {
		return d[len(d)-10:]
	}
	return d
}

// NormalizeAadhaar strips non-digits and fixes the length at 12, truncating
// long values and left-padding short non-empty ones with zeros.
func NormalizeAadhaar(s string) string {
	d := digitsOnly(s)
	if d == "" {
		return ""
	}
	if len(d) > 12 {
		return d[:12]
	}
	return strings.Repeat("0", 12-len(d)) + d
}

// NormalizePAN uppercases, trims and caps a PAN at 10 characters.
func NormalizePAN(s string) string {
	p := strings.ToUpper(strings.TrimSpace(s))
	if len(p) > 10 {
		return p[:10]
	}
	return p
}

// normalizeDOB reduces any ISO-ish timestamp to yyyy-MM-dd.
func normalizeDOB(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// ageFromDOB derives age as current year minus birth year, the same coarse
// arithmetic the dashboards display.
func ageFromDOB(dob string) int {
	if len(dob) < 4 {
		return 0
	}
	t, err := time.Parse("2006-01-02", normalizeDOB(dob))
	if err != nil {
		return 0
	}
	return time.Now().Year() - t.Year()
}

// ToUICustomer maps a customer-service record to the UI shape. The balance it
// carries is kept only as a fallback; hydration overwrites it whenever an
// account number is present.
func ToUICustomer(rec backend.CustomerRecord) models.Customer {
	first, last := SplitName(rec.CustomerName)

	gender := "other"
	switch rec.Gender {
	case "M":
		gender = "male"
	case "F":
		gender = "female"
	}

	accountType := models.AccountSavings
	if strings.ToLower(rec.AccountType) == models.AccountCurrent {
		accountType = models.AccountCurrent
	}

	balance := decimal.Zero
	if rec.Balance != nil {
		balance = *rec.Balance
	}

	age := rec.Age
	if age == 0 {
		age = ageFromDOB(rec.DateOfBirth)
	}

	return models.Customer{
		ID:            rec.SSNID,
		SSN:           rec.SSNID,
		FirstName:     first,
		LastName:      last,
		Email:         rec.Email,
		Role:          models.RoleCustomer,
		IsActive:      true,
		AccountNo:     rec.AccountNumber,
		IFSCCode:      rec.IFSCCode,
		Balance:       balance,
		AadhaarNo:     rec.AadharNumber,
		PanNo:         rec.PanNumber,
		DateOfBirth:   normalizeDOB(rec.DateOfBirth),
		Gender:        gender,
		MaritalStatus: "single",
		Address:       rec.Address,
		ContactNo:     rec.ContactNumber,
		AccountType:   accountType,
		City:          rec.City,
		Age:           age,
	}
}

// CustomerPayload derives the customer-service wire record from a UI record.
// In create mode it pre-flight-validates the required fields and names every
// one that is missing after normalization; update mode additionally carries
// the balance and backfills initialDeposit so the service's validation of a
// full replacement passes.
func CustomerPayload(c models.Customer, mode Mode) (backend.CustomerRecord, error) {
	ssn := c.SSN
	if ssn == "" {
		ssn = c.ID
	}

	fullName := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))

	var gender string
	switch c.Gender {
	case "male":
		gender = "M"
	case "female":
		gender = "F"
	}

	var accountType string
	switch c.AccountType {
	case models.AccountCurrent:
		accountType = "Current"
	case models.AccountSavings:
		accountType = "Savings"
	}

	rec := backend.CustomerRecord{
		SSNID:         ssn,
		CustomerName:  fullName,
		Email:         strings.TrimSpace(c.Email),
		ContactNumber: NormalizeContact(c.ContactNo),
		AadharNumber:  NormalizeAadhaar(c.AadhaarNo),
		PanNumber:     NormalizePAN(c.PanNo),
		DateOfBirth:   normalizeDOB(c.DateOfBirth),
		Gender:        gender,
		Address:       strings.TrimSpace(c.Address),
		City:          c.City,
		Age:           c.Age,
		AccountNumber: strings.TrimSpace(c.AccountNo),
		AccountType:   accountType,
	}

	deposit := c.InitialDeposit
	if !deposit.IsPositive() && c.Balance.IsPositive() {
		deposit = c.Balance
	}

	switch mode {
	case ModeCreate:
		if deposit.IsPositive() {
			d := deposit
			rec.InitialDeposit = &d
		}
		if missing := missingCreateFields(rec); len(missing) > 0 {
			return backend.CustomerRecord{}, &ValidationError{Missing: missing}
		}
	case ModeUpdate:
		b := c.Balance
		rec.Balance = &b
		if !deposit.IsPositive() {
			deposit = decimal.NewFromInt(1)
		}
		d := deposit
		rec.InitialDeposit = &d
	}
	return rec, nil
}

// missingCreateFields lists the creation-required fields absent from rec.
func missingCreateFields(rec backend.CustomerRecord) []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("ssnId", rec.SSNID)
	check("customerName", rec.CustomerName)
	check("email", rec.Email)
	check("address", rec.Address)
	check("contactNumber", rec.ContactNumber)
	check("aadharNumber", rec.AadharNumber)
	check("panNumber", rec.PanNumber)
	check("accountNumber", rec.AccountNumber)
	if rec.InitialDeposit == nil || !rec.InitialDeposit.IsPositive() {
		missing = append(missing, "initialDeposit")
	}
	return missing
}
