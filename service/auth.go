package service

import (
	"context"
	"log"
	"strings"
	"time"

	"bankportal/backend"
	"bankportal/mapper"
	"bankportal/models"
	"bankportal/session"
)

// AuthService drives login, registration, logout and the customer
// enrichment that upgrades a basic login identity to a full profile.
type AuthService struct {
	client   *backend.Client
	sessions *session.Store
}

func NewAuthService(client *backend.Client, sessions *session.Store) *AuthService {
	return &AuthService{client: client, sessions: sessions}
}

// Login authenticates against the auth-service. Customer identities are
// enriched from the customer-service by SSN and balance-hydrated; enrichment
// failure falls back to the raw login identity and never blocks the login.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	role := strings.ToUpper(req.Role)
	rec, err := s.client.Login(ctx, req.Identifier, req.Password, role)
	if err != nil {
		return models.User{}, err
	}
	user := userFromRecord(rec)
	user.Role = role

	if role != models.RoleCustomer {
		s.sessions.SetBasic(user)
		return user, nil
	}

	// Dashboards look customers up by SSN, which is the login identifier.
	user.ID = req.Identifier
	user.SSN = req.Identifier
	enriched, ok := s.enrich(ctx, user)
	if !ok {
		s.sessions.SetBasic(user)
		return user, nil
	}
	s.sessions.SetEnriched(enriched)
	return enriched, nil
}

// Register signs up a customer with the auth-service. The session is not
// touched; the caller still logs in.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (models.User, error) {
	rec, err := s.client.Register(ctx, reg.SSN, reg.Password, reg.FirstName, reg.LastName, reg.Email)
	if err != nil {
		return models.User{}, err
	}
	user := userFromRecord(rec)
	user.SSN = reg.SSN
	return user, nil
}

// Logout notifies the backend best-effort and clears the local session
// unconditionally; the notification's outcome is irrelevant to correctness.
func (s *AuthService) Logout() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.client.Logout(ctx); err != nil {
			log.Printf("logout notification failed: %v", err)
		}
	}()
	s.sessions.Clear()
}

// Restore loads a persisted identity at startup without re-validating it,
// then re-attempts enrichment opportunistically for customer roles.
func (s *AuthService) Restore(ctx context.Context) {
	s.sessions.Load()
	user, ok := s.sessions.Current()
	if !ok || user.Role != models.RoleCustomer {
		return
	}
	if enriched, ok := s.enrich(ctx, user); ok {
		s.sessions.SetEnriched(enriched)
	}
}

// enrich merges the customer record onto the identity and hydrates the
// balance, both fail-soft.
func (s *AuthService) enrich(ctx context.Context, user models.User) (models.User, bool) {
	ssn := user.SSN
	if ssn == "" {
		ssn = user.ID
	}
	if ssn == "" {
		return models.User{}, false
	}
	rec, err := s.client.Customer(ctx, ssn)
	if err != nil {
		return models.User{}, false
	}
	cust := mapper.ToUICustomer(rec)

	merged := user
	merged.ID = ssn
	merged.SSN = ssn
	if cust.FirstName != "" {
		merged.FirstName = cust.FirstName
	}
	if cust.LastName != "" {
		merged.LastName = cust.LastName
	}
	if cust.Email != "" {
		merged.Email = cust.Email
	}
	merged.Address = cust.Address
	merged.ContactNo = cust.ContactNo
	merged.AccountNo = cust.AccountNo
	merged.Balance = cust.Balance
	merged.AccountType = cust.AccountType
	merged.City = cust.City
	merged.Role = models.RoleCustomer

	if merged.AccountNo != "" {
		if balance, err := s.client.Balance(ctx, merged.AccountNo); err == nil {
			merged.Balance = balance
		}
	}
	return merged, true
}

func userFromRecord(rec backend.UserRecord) models.User {
	return models.User{
		ID:        rec.ID,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Role:      rec.Role,
		IsActive:  rec.IsActive,
		CreatedAt: rec.CreatedAt,
	}
}
