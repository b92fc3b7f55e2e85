package core

import (
	"context"
	"strings"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.Store.ListEmployees(ctx)
}

func (s *Service) SearchEmployees(ctx context.Context, filter SearchFilter) ([]Employee, error) {
	if strings.TrimSpace(filter.Query) == "" && strings.TrimSpace(filter.Department) == "" {
		return s.Store.ListEmployees(ctx)
	}
	return s.Store.SearchEmployees(ctx, filter)
}

func (s *Service) CreateEmployee(ctx context.Context, fields map[string]any) (*Employee, error) {
	emp, err := BuildEmployee(fields)
	if err != nil {
		return nil, err
	}
	return s.Store.CreateEmployee(ctx, emp)
}

// UpdateEmployee applies the updatable keys of fields to the stored record.
// An employee_id in the body must match the path id; ids never change.
func (s *Service) UpdateEmployee(ctx context.Context, employeeID int64, fields map[string]any) (*EmployeeChange, error) {
	existing, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if raw, ok := fields["employee_id"]; ok {
		id, err := CoerceEmployeeID(raw)
		if err != nil {
			return nil, err
		}
		if id != employeeID {
			return nil, Invalid("employee_id", "cannot be changed")
		}
	}

	patch, err := ParseEmployeePatch(fields)
	if err != nil {
		return nil, err
	}
	next := *existing
	patch.Apply(&next)
	if strings.TrimSpace(next.FullName) == "" {
		return nil, Invalid("full_name", "is required")
	}

	updated, err := s.Store.UpdateEmployee(ctx, next)
	if err != nil {
		return nil, err
	}
	return &EmployeeChange{Before: existing, After: updated}, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	existing, err := s.Store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if err := s.Store.DeleteEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *Service) EmployeesByDepartment(ctx context.Context, department string) ([]EmployeeSummary, error) {
	return s.Store.EmployeesByDepartment(ctx, department)
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) DepartmentNames(ctx context.Context) ([]string, error) {
	return s.Store.DepartmentNames(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, dep Department) (*Department, error) {
	dep.Name = strings.TrimSpace(dep.Name)
	if dep.Name == "" {
		return nil, Invalid("name", "is required")
	}
	if dep.ManagerID != nil && *dep.ManagerID <= 0 {
		return nil, Invalid("manager_id", "must be a positive integer")
	}
	return s.Store.CreateDepartment(ctx, dep)
}
