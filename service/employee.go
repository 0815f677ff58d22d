package service

import (
	"context"
	"fmt"

	"bankportal/backend"
	"bankportal/mapper"
	"bankportal/models"
	"bankportal/store"
)

// EmployeeService fronts the employee-service.
type EmployeeService struct {
	client *backend.Client
}

func NewEmployeeService(client *backend.Client) *EmployeeService {
	return &EmployeeService{client: client}
}

func (s *EmployeeService) List(ctx context.Context, page, pageSize int) ([]models.Employee, int, error) {
	recs, err := s.client.Employees(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing employees: %w", err)
	}
	employees := make([]models.Employee, len(recs))
	for i, rec := range recs {
		employees[i] = mapper.ToUIEmployee(rec)
	}
	return store.Page(employees, page, pageSize), len(employees), nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (models.Employee, error) {
	rec, err := s.client.Employee(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}
	return mapper.ToUIEmployee(rec), nil
}

func (s *EmployeeService) Create(ctx context.Context, e models.Employee) (models.Employee, error) {
	payload := mapper.EmployeePayload(e)
	if payload.EmployeeID == "" {
		return models.Employee{}, fmt.Errorf("employee id is required")
	}
	if err := s.client.CreateEmployee(ctx, payload); err != nil {
		return models.Employee{}, fmt.Errorf("creating employee: %w", err)
	}
	return s.Get(ctx, payload.EmployeeID)
}

// Update sends a full record but never lets the payload rename the identity:
// the id travels in the path only.
func (s *EmployeeService) Update(ctx context.Context, id string, e models.Employee) (models.Employee, error) {
	payload := mapper.EmployeePayload(e)
	payload.EmployeeID = ""
	if err := s.client.UpdateEmployee(ctx, id, payload); err != nil {
		return models.Employee{}, fmt.Errorf("updating employee %s: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	return s.client.DeleteEmployee(ctx, id)
}
