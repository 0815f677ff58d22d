// Package service orchestrates the backend calls behind each dashboard
// operation: mapping wire records, hydrating balances, keeping the local
// cache patched and building transaction ledgers.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"bankportal/backend"
	"bankportal/ledger"
	"bankportal/mapper"
	"bankportal/models"
	"bankportal/store"
)

// CustomerService fronts the customer- and account-services.
type CustomerService struct {
	client *backend.Client
	cache  *store.Cache
}

func NewCustomerService(client *backend.Client, cache *store.Cache) *CustomerService {
	return &CustomerService{client: client, cache: cache}
}

// Cache exposes the service's customer cache.
func (s *CustomerService) Cache() *store.Cache {
	return s.cache
}

// List fetches all customers, hydrates their balances, replaces the cache
// wholesale and returns the requested page plus the total count.
func (s *CustomerService) List(ctx context.Context, page, pageSize int) ([]models.Customer, int, error) {
	recs, err := s.client.Customers(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing customers: %w", err)
	}
	customers := make([]models.Customer, len(recs))
	for i, rec := range recs {
		customers[i] = mapper.ToUICustomer(rec)
	}
	customers = s.HydrateBalances(ctx, customers)
	s.cache.Replace(customers)
	return store.Page(customers, page, pageSize), len(customers), nil
}

// Get fetches one customer by SSN and always hydrates the balance when an
// account number is present. The customer record's own balance field is not
// trusted.
func (s *CustomerService) Get(ctx context.Context, ssn string) (models.Customer, error) {
	rec, err := s.client.Customer(ctx, ssn)
	if err != nil {
		return models.Customer{}, err
	}
	return s.HydrateOne(ctx, mapper.ToUICustomer(rec)), nil
}

// SearchBySSN is the fail-soft lookup the search boxes use: any failure
// reads as "not found".
func (s *CustomerService) SearchBySSN(ctx context.Context, ssn string) (models.Customer, bool) {
	rec, err := s.client.Customer(ctx, ssn)
	if err != nil {
		return models.Customer{}, false
	}
	return mapper.ToUICustomer(rec), true
}

// AccountExists probes the customer-service. Errors read as false so a
// failing probe never blocks creation; the backend still rejects duplicates.
func (s *CustomerService) AccountExists(ctx context.Context, accountNo string) bool {
	if accountNo == "" {
		return false
	}
	exists, err := s.client.AccountExists(ctx, accountNo)
	if err != nil {
		return false
	}
	return exists
}

// Create validates the required fields client-side, posts the customer and
// returns the freshly fetched, mapped record.
func (s *CustomerService) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	payload, err := mapper.CustomerPayload(c, mapper.ModeCreate)
	if err != nil {
		return models.Customer{}, err
	}
	if err := s.client.CreateCustomer(ctx, payload); err != nil {
		return models.Customer{}, fmt.Errorf("creating customer: %w", err)
	}
	created, err := s.client.Customer(ctx, payload.SSNID)
	if err != nil {
		return models.Customer{}, fmt.Errorf("fetching created customer: %w", err)
	}
	return mapper.ToUICustomer(created), nil
}

// Update re-fetches the existing record, shallow-merges the UI changes onto
// it and derives a full replacement payload, so fields absent from the edit
// form are not wiped by a partial update. A failed PUT is retried as a POST
// when the merged record carries everything creation requires (the customer
// may not be provisioned in this service yet); otherwise the PUT error
// propagates.
func (s *CustomerService) Update(ctx context.Context, ssn string, updates models.Customer) (models.Customer, error) {
	current := models.Customer{SSN: ssn, ID: ssn}
	if existing, err := s.client.Customer(ctx, ssn); err == nil {
		current = mapper.ToUICustomer(existing)
	}
	merged := mergeCustomer(current, updates)
	merged.SSN, merged.ID = ssn, ssn

	payload, err := mapper.CustomerPayload(merged, mapper.ModeUpdate)
	if err != nil {
		return models.Customer{}, err
	}
	if putErr := s.client.UpdateCustomer(ctx, ssn, payload); putErr != nil {
		createInput := merged
		if !createInput.InitialDeposit.IsPositive() && !createInput.Balance.IsPositive() {
			createInput.InitialDeposit = decimal.NewFromInt(1)
		}
		createPayload, verr := mapper.CustomerPayload(createInput, mapper.ModeCreate)
		if verr != nil {
			return models.Customer{}, putErr
		}
		if err := s.client.CreateCustomer(ctx, createPayload); err != nil {
			return models.Customer{}, putErr
		}
		log.Printf("customer %s not updatable, created instead", ssn)
	}
	updated, err := s.client.Customer(ctx, ssn)
	if err != nil {
		return models.Customer{}, fmt.Errorf("fetching updated customer: %w", err)
	}
	return mapper.ToUICustomer(updated), nil
}

func (s *CustomerService) Delete(ctx context.Context, ssn string) error {
	return s.client.DeleteCustomer(ctx, ssn)
}

// mergeCustomer overlays the non-zero fields of updates onto base.
func mergeCustomer(base, updates models.Customer) models.Customer {
	merged := base
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&merged.FirstName, updates.FirstName)
	setStr(&merged.LastName, updates.LastName)
	setStr(&merged.Email, updates.Email)
	setStr(&merged.AccountNo, updates.AccountNo)
	setStr(&merged.IFSCCode, updates.IFSCCode)
	setStr(&merged.AadhaarNo, updates.AadhaarNo)
	setStr(&merged.PanNo, updates.PanNo)
	setStr(&merged.DateOfBirth, updates.DateOfBirth)
	setStr(&merged.Gender, updates.Gender)
	setStr(&merged.MaritalStatus, updates.MaritalStatus)
	setStr(&merged.Address, updates.Address)
	setStr(&merged.ContactNo, updates.ContactNo)
	setStr(&merged.AccountType, updates.AccountType)
	setStr(&merged.City, updates.City)
	if updates.Age > 0 {
		merged.Age = updates.Age
	}
	if updates.Balance.IsPositive() {
		merged.Balance = updates.Balance
	}
	if updates.InitialDeposit.IsPositive() {
		merged.InitialDeposit = updates.InitialDeposit
	}
	return merged
}

// HydrateBalances overlays live account-service balances onto every customer
// that has an account number. Lookups for the batch run concurrently and the
// result is produced only once all of them settle. A failed lookup retains
// that customer's prior balance; one bad account never fails the batch.
func (s *CustomerService) HydrateBalances(ctx context.Context, customers []models.Customer) []models.Customer {
	if len(customers) == 0 {
		return customers
	}
	hydrated := make([]models.Customer, len(customers))
	copy(hydrated, customers)

	var wg sync.WaitGroup
	for i := range hydrated {
		if hydrated[i].AccountNo == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			balance, err := s.client.Balance(ctx, hydrated[i].AccountNo)
			if err != nil {
				return
			}
			hydrated[i].Balance = balance
		}(i)
	}
	wg.Wait()
	return hydrated
}

// HydrateOne is the single-customer form of HydrateBalances.
func (s *CustomerService) HydrateOne(ctx context.Context, c models.Customer) models.Customer {
	if c.AccountNo == "" {
		return c
	}
	balance, err := s.client.Balance(ctx, c.AccountNo)
	if err != nil {
		return c
	}
	c.Balance = balance
	return c
}

// ensureAccount provisions the account in the account-service when it only
// exists on the customer record (legacy customers predate the service).
func (s *CustomerService) ensureAccount(ctx context.Context, c models.Customer) error {
	if err := s.client.Account(ctx, c.AccountNo); err == nil {
		return nil
	}
	holder := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if holder == "" {
		holder = "Customer"
	}
	accountType := "Savings"
	if c.AccountType == models.AccountCurrent {
		accountType = "Current"
	}
	return s.client.CreateAccount(ctx, backend.AccountCreateRequest{
		AccountType:       accountType,
		AccountNumber:     c.AccountNo,
		AccountHolderName: holder,
		InitialBalance:    c.Balance,
		CustomerSSN:       c.SSN,
	})
}

// resolveForOperation fetches the customer and makes sure an account exists
// before any money moves.
func (s *CustomerService) resolveForOperation(ctx context.Context, ssn string) (models.Customer, error) {
	cust, err := s.Get(ctx, ssn)
	if err != nil {
		return models.Customer{}, fmt.Errorf("customer %s not found: %w", ssn, err)
	}
	if cust.AccountNo == "" {
		return models.Customer{}, fmt.Errorf("customer %s has no account number", ssn)
	}
	if err := s.ensureAccount(ctx, cust); err != nil {
		return models.Customer{}, fmt.Errorf("provisioning account %s: %w", cust.AccountNo, err)
	}
	return cust, nil
}

// Deposit posts a deposit, re-fetches the authoritative balance (falling
// back to local arithmetic when that fetch fails) and patches the cache.
// Nothing local changes until the backend confirms the deposit.
func (s *CustomerService) Deposit(ctx context.Context, ssn string, amount decimal.Decimal) (models.Customer, models.Transaction, error) {
	cust, err := s.resolveForOperation(ctx, ssn)
	if err != nil {
		return models.Customer{}, models.Transaction{}, err
	}
	rec, err := s.client.Deposit(ctx, cust.AccountNo, amount)
	if err != nil {
		return models.Customer{}, models.Transaction{}, err
	}
	return s.settle(ctx, cust, rec, cust.Balance.Add(amount))
}

// Withdraw is the mirror of Deposit.
func (s *CustomerService) Withdraw(ctx context.Context, ssn string, amount decimal.Decimal) (models.Customer, models.Transaction, error) {
	cust, err := s.resolveForOperation(ctx, ssn)
	if err != nil {
		return models.Customer{}, models.Transaction{}, err
	}
	rec, err := s.client.Withdraw(ctx, cust.AccountNo, amount)
	if err != nil {
		return models.Customer{}, models.Transaction{}, err
	}
	return s.settle(ctx, cust, rec, cust.Balance.Sub(amount))
}

// Transfer moves money from the customer's account to any destination
// account, local or foreign.
func (s *CustomerService) Transfer(ctx context.Context, fromSSN, toAccountNo string, amount decimal.Decimal) (models.Customer, models.Transaction, error) {
	cust, err := s.resolveForOperation(ctx, fromSSN)
	if err != nil {
		return models.Customer{}, models.Transaction{}, err
	}
	rec, err := s.client.Transfer(ctx, cust.AccountNo, toAccountNo, amount)
	if err != nil {
		return models.Customer{}, models.Transaction{}, err
	}
	return s.settle(ctx, cust, rec, cust.Balance.Sub(amount))
}

// settle maps the returned transaction, overlays the latest balance and
// patches the cache so dashboards holding the list see it without a refetch.
func (s *CustomerService) settle(ctx context.Context, cust models.Customer, rec backend.TransactionRecord, fallback decimal.Decimal) (models.Customer, models.Transaction, error) {
	tx := mapper.ToUITransaction(rec)
	if tx.AccountNo == "" {
		tx.AccountNo = cust.AccountNo
	}
	latest, err := s.client.Balance(ctx, cust.AccountNo)
	if err != nil {
		latest = fallback
	}
	updated := cust
	updated.Balance = latest
	s.cache.Patch(updated)
	return updated, tx, nil
}

// Transactions builds the reverse-chronological ledger for a customer's
// account. The feed and the anchor balance are fetched concurrently and each
// fails soft: a missing feed renders an empty ledger, a missing anchor
// renders from zero. Ledger unavailability never fails the dashboard.
func (s *CustomerService) Transactions(ctx context.Context, ssn string, page, pageSize int) ([]models.Transaction, int) {
	cust, err := s.Get(ctx, ssn)
	if err != nil || cust.AccountNo == "" {
		return []models.Transaction{}, 0
	}

	var (
		wg      sync.WaitGroup
		recs    []backend.TransactionRecord
		balance decimal.Decimal
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		fetched, err := s.client.Transactions(ctx, cust.AccountNo)
		if err != nil {
			log.Printf("transaction feed for %s unavailable: %v", cust.AccountNo, err)
			return
		}
		recs = fetched
	}()
	go func() {
		defer wg.Done()
		fetched, err := s.client.Balance(ctx, cust.AccountNo)
		if err != nil {
			return
		}
		balance = fetched
	}()
	wg.Wait()

	txs := make([]models.Transaction, len(recs))
	for i, rec := range recs {
		txs[i] = mapper.ToUITransaction(rec)
	}
	built := ledger.Build(txs, balance, cust.AccountNo)
	return store.Page(built, page, pageSize), len(built)
}

// RefreshBalance re-hydrates one customer and patches the cache.
func (s *CustomerService) RefreshBalance(ctx context.Context, ssn string) (models.Customer, error) {
	cust, err := s.Get(ctx, ssn)
	if err != nil {
		return models.Customer{}, err
	}
	s.cache.Patch(cust)
	return cust, nil
}
