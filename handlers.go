package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"bankportal/backend"
	"bankportal/mapper"
	"bankportal/models"
	"bankportal/service"
	"bankportal/session"
)

type server struct {
	customers *service.CustomerService
	employees *service.EmployeeService
	auth      *service.AuthService
	sessions  *session.Store
}

func (s *server) register(r *gin.Engine) {
	api := r.Group("/api")

	api.POST("/auth/login", s.login)
	api.POST("/auth/register", s.registerCustomer)
	api.POST("/auth/logout", s.logout)
	api.GET("/auth/session", s.sessionInfo)

	api.GET("/customers", s.listCustomers)
	api.GET("/customers/search", s.searchCustomer)
	api.GET("/customers/exists/account/:accountNo", s.checkAccount)
	api.GET("/customers/:ssn", s.getCustomer)
	api.POST("/customers", s.createCustomer)
	api.PUT("/customers/:ssn", s.updateCustomer)
	api.DELETE("/customers/:ssn", s.deleteCustomer)

	api.POST("/customers/:ssn/deposit", s.deposit)
	api.POST("/customers/:ssn/withdraw", s.withdraw)
	api.POST("/customers/:ssn/transfer", s.transfer)
	api.GET("/customers/:ssn/transactions", s.transactions)
	api.POST("/customers/:ssn/refresh-balance", s.refreshBalance)

	api.GET("/employees", s.listEmployees)
	api.GET("/employees/:id", s.getEmployee)
	api.POST("/employees", s.createEmployee)
	api.PUT("/employees/:id", s.updateEmployee)
	api.DELETE("/employees/:id", s.deleteEmployee)
}

// pageParams reads one-based pagination from the query string.
func pageParams(c *gin.Context, defaultSize int) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	return page, pageSize
}

// backendFailure maps a backend error onto a role-appropriate generic
// message; validation problems never reach this path.
func backendFailure(c *gin.Context, err error, message string) {
	if backend.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": message})
}

// --- auth ---

func (s *server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	user, err := s.auth.Login(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *server) registerCustomer(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	user, err := s.auth.Register(c.Request.Context(), reg)
	if err != nil {
		backendFailure(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (s *server) logout(c *gin.Context) {
	s.auth.Logout()
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (s *server) sessionInfo(c *gin.Context) {
	user, ok := s.sessions.Current()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "enriched": s.sessions.Enriched()})
}

// --- customers ---

func (s *server) listCustomers(c *gin.Context) {
	page, pageSize := pageParams(c, 8)
	customers, total, err := s.customers.List(c.Request.Context(), page, pageSize)
	if err != nil {
		backendFailure(c, err, "Unable to load customers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": total})
}

func (s *server) getCustomer(c *gin.Context) {
	cust, err := s.customers.Get(c.Request.Context(), c.Param("ssn"))
	if err != nil {
		backendFailure(c, err, "Customer not found")
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (s *server) searchCustomer(c *gin.Context) {
	ssn := c.Query("ssn")
	if ssn == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"SSN cannot be empty"}})
		return
	}
	cust, found := s.customers.SearchBySSN(c.Request.Context(), ssn)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, cust)
}

func (s *server) checkAccount(c *gin.Context) {
	exists := s.customers.AccountExists(c.Request.Context(), c.Param("accountNo"))
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (s *server) createCustomer(c *gin.Context) {
	var cust models.Customer
	if err := c.ShouldBindJSON(&cust); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	created, err := s.customers.Create(c.Request.Context(), cust)
	if err != nil {
		var verr *mapper.ValidationError
		if errors.As(err, &verr) {
			messages := make([]string, len(verr.Missing))
			for i, field := range verr.Missing {
				messages[i] = "Missing required field: " + field
			}
			c.JSON(http.StatusBadRequest, gin.H{"errors": messages})
			return
		}
		backendFailure(c, err, "Unable to create customer")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *server) updateCustomer(c *gin.Context) {
	var updates models.Customer
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	updated, err := s.customers.Update(c.Request.Context(), c.Param("ssn"), updates)
	if err != nil {
		backendFailure(c, err, "Unable to update customer")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *server) deleteCustomer(c *gin.Context) {
	if err := s.customers.Delete(c.Request.Context(), c.Param("ssn")); err != nil {
		backendFailure(c, err, "Unable to delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- banking operations ---

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type transferBody struct {
	ToAccountNo string          `json:"toAccountNo"`
	Amount      decimal.Decimal `json:"amount"`
}

func (s *server) deposit(c *gin.Context) {
	s.moneyOperation(c, s.customers.Deposit)
}

func (s *server) withdraw(c *gin.Context) {
	s.moneyOperation(c, s.customers.Withdraw)
}

func (s *server) moneyOperation(c *gin.Context, op func(ctx context.Context, ssn string, amount decimal.Decimal) (models.Customer, models.Transaction, error)) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Amount must be positive"}})
		return
	}
	cust, tx, err := op(c.Request.Context(), c.Param("ssn"), req.Amount)
	if err != nil {
		backendFailure(c, err, "Transaction failed")
		return
	}
	s.propagateBalance(cust)
	c.JSON(http.StatusOK, gin.H{"customer": cust, "transaction": tx})
}

func (s *server) transfer(c *gin.Context) {
	ssn := c.Param("ssn")
	var req transferBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	var errs []string
	if req.ToAccountNo == "" {
		errs = append(errs, "Destination account cannot be empty")
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, "Amount must be positive")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}
	cust, tx, err := s.customers.Transfer(c.Request.Context(), ssn, req.ToAccountNo, req.Amount)
	if err != nil {
		backendFailure(c, err, "Transfer failed")
		return
	}
	s.propagateBalance(cust)
	c.JSON(http.StatusOK, gin.H{"customer": cust, "transaction": tx})
}

// propagateBalance pushes a moved balance into the session identity. The
// cache and the session each own their copy; nothing syncs them implicitly.
func (s *server) propagateBalance(cust models.Customer) {
	s.sessions.Update(func(u *models.User) {
		if u.Role == models.RoleCustomer && (u.SSN == cust.SSN || u.ID == cust.ID) {
			u.Balance = cust.Balance
		}
	})
}

func (s *server) transactions(c *gin.Context) {
	page, pageSize := pageParams(c, 10)
	txs, total := s.customers.Transactions(c.Request.Context(), c.Param("ssn"), page, pageSize)
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "total": total})
}

func (s *server) refreshBalance(c *gin.Context) {
	cust, err := s.customers.RefreshBalance(c.Request.Context(), c.Param("ssn"))
	if err != nil {
		backendFailure(c, err, "Unable to refresh balance")
		return
	}
	s.propagateBalance(cust)
	c.JSON(http.StatusOK, cust)
}

// --- employees ---

func (s *server) listEmployees(c *gin.Context) {
	page, pageSize := pageParams(c, 8)
	employees, total, err := s.employees.List(c.Request.Context(), page, pageSize)
	if err != nil {
		backendFailure(c, err, "Unable to load employees")
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees, "total": total})
}

func (s *server) getEmployee(c *gin.Context) {
	emp, err := s.employees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		backendFailure(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, emp)
}

func (s *server) createEmployee(c *gin.Context) {
	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	created, err := s.employees.Create(c.Request.Context(), emp)
	if err != nil {
		backendFailure(c, err, "Unable to create employee")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *server) updateEmployee(c *gin.Context) {
	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []string{"Invalid request body"}})
		return
	}
	updated, err := s.employees.Update(c.Request.Context(), c.Param("id"), emp)
	if err != nil {
		backendFailure(c, err, "Unable to update employee")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *server) deleteEmployee(c *gin.Context) {
	if err := s.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		backendFailure(c, err, "Unable to delete employee")
		return
	}
	c.Status(http.StatusNoContent)
}
