package mapper

import (
	"strings"

	"bankportal/backend"
	"bankportal/models"
)

// ToUIEmployee maps an employee-service record to the UI shape.
// employeeId feeds both id and empId; designation becomes department.
func ToUIEmployee(rec backend.EmployeeRecord) models.Employee {
	active := true
	if rec.IsActive != nil {
		active = *rec.IsActive
	}
	return models.Employee{
		ID:          rec.EmployeeID,
		EmpID:       rec.EmployeeID,
		FirstName:   rec.FirstName,
		LastName:    rec.LastName,
		Email:       rec.Email,
		Department:  rec.Designation,
		Address:     rec.Address,
		ContactNo:   rec.ContactNumber,
		DateOfBirth: normalizeDOB(rec.DateOfBirth),
		IsActive:    active,
	}
}

// EmployeePayload derives the employee-service wire record from a UI record.
func EmployeePayload(e models.Employee) backend.EmployeeRecord {
	id := e.EmpID
	if id == "" {
		id = e.ID
	}
	active := e.IsActive
	return backend.EmployeeRecord{
		EmployeeID:    id,
		FirstName:     strings.TrimSpace(e.FirstName),
		LastName:      strings.TrimSpace(e.LastName),
		Email:         strings.TrimSpace(e.Email),
		Designation:   e.Department,
		Address:       e.Address,
		ContactNumber: NormalizeContact(e.ContactNo),
		DateOfBirth:   normalizeDOB(e.DateOfBirth),
		IsActive:      &active,
	}
}
