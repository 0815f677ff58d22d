// Package backend is the HTTP client for the customer, account, employee and
// auth microservices the portal fronts. All business logic lives on the other
// side of these calls; this side only shapes requests and decodes responses.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Client talks to the backend services through a single configured base URL
// (the deployment proxies each resource to the right microservice).
type Client struct {
	base string
	hc   *http.Client
}

// NewClient returns a client for the given base URL. Requests carry a
// deadline so a stuck backend call cannot hang an operation forever.
func NewClient(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// readErrorMessage pulls a human message out of an error body, whichever key
// the failing service used.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

// --- customer-service ---

func (c *Client) Customers(ctx context.Context) ([]CustomerRecord, error) {
	var out []CustomerRecord
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Customer(ctx context.Context, ssn string) (CustomerRecord, error) {
	var out CustomerRecord
	err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(ssn), nil, &out)
	return out, err
}

func (c *Client) CreateCustomer(ctx context.Context, rec CustomerRecord) error {
	return c.do(ctx, http.MethodPost, "/customers", rec, nil)
}

func (c *Client) UpdateCustomer(ctx context.Context, ssn string, rec CustomerRecord) error {
	return c.do(ctx, http.MethodPut, "/customers/"+url.PathEscape(ssn), rec, nil)
}

func (c *Client) DeleteCustomer(ctx context.Context, ssn string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+url.PathEscape(ssn), nil, nil)
}

func (c *Client) AccountExists(ctx context.Context, accountNo string) (bool, error) {
	var out bool
	err := c.do(ctx, http.MethodGet, "/customers/exists/account/"+url.PathEscape(accountNo), nil, &out)
	return out, err
}

// --- account-service ---

func (c *Client) Balance(ctx context.Context, accountNo string) (decimal.Decimal, error) {
	var out balanceResponse
	err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountNo)+"/balance", nil, &out)
	return out.Balance, err
}

// Account probes whether the account-service knows the account.
func (c *Client) Account(ctx context.Context, accountNo string) error {
	return c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountNo), nil, nil)
}

func (c *Client) CreateAccount(ctx context.Context, req AccountCreateRequest) error {
	return c.do(ctx, http.MethodPost, "/accounts", req, nil)
}

func (c *Client) Deposit(ctx context.Context, accountNo string, amount decimal.Decimal) (TransactionRecord, error) {
	var out TransactionRecord
	err := c.do(ctx, http.MethodPost, "/accounts/"+url.PathEscape(accountNo)+"/deposit", amountRequest{Amount: amount}, &out)
	return out, err
}

func (c *Client) Withdraw(ctx context.Context, accountNo string, amount decimal.Decimal) (TransactionRecord, error) {
	var out TransactionRecord
	err := c.do(ctx, http.MethodPost, "/accounts/"+url.PathEscape(accountNo)+"/withdraw", amountRequest{Amount: amount}, &out)
	return out, err
}

func (c *Client) Transfer(ctx context.Context, fromAccountNo, toAccountNo string, amount decimal.Decimal) (TransactionRecord, error) {
	var out TransactionRecord
	req := transferRequest{SourceAccount: fromAccountNo, DestinationAccount: toAccountNo, Amount: amount}
	err := c.do(ctx, http.MethodPost, "/accounts/transfer", req, &out)
	return out, err
}

func (c *Client) Transactions(ctx context.Context, accountNo string) ([]TransactionRecord, error) {
	var out []TransactionRecord
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(accountNo)+"/transactions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- employee-service ---

func (c *Client) Employees(ctx context.Context) ([]EmployeeRecord, error) {
	var out []EmployeeRecord
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Employee(ctx context.Context, id string) (EmployeeRecord, error) {
	var out EmployeeRecord
	err := c.do(ctx, http.MethodGet, "/employees/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateEmployee(ctx context.Context, rec EmployeeRecord) error {
	return c.do(ctx, http.MethodPost, "/employees", rec, nil)
}

func (c *Client) UpdateEmployee(ctx context.Context, id string, rec EmployeeRecord) error {
	return c.do(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), rec, nil)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil, nil)
}

// --- auth-service ---

func (c *Client) Login(ctx context.Context, identifier, password, role string) (UserRecord, error) {
	var out loginResponse
	req := loginRequest{Username: identifier, Password: password, Role: role}
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out); err != nil {
		return UserRecord{}, err
	}
	if out.User == nil {
		return UserRecord{}, errors.New("login response carried no user")
	}
	return *out.User, nil
}

func (c *Client) Register(ctx context.Context, username, password, firstName, lastName, email string) (UserRecord, error) {
	var out loginResponse
	req := registerRequest{
		Username:  username,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Role:      "CUSTOMER",
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return UserRecord{}, err
	}
	if out.User == nil {
		return UserRecord{}, errors.New("register response carried no user")
	}
	return *out.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil)
}
