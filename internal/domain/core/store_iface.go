package core

import "context"

type StoreAPI interface {
	GetEmployee(ctx context.Context, employeeID int64) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	SearchEmployees(ctx context.Context, filter SearchFilter) ([]Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (*Employee, error)
	UpdateEmployee(ctx context.Context, emp Employee) (*Employee, error)
	DeleteEmployee(ctx context.Context, employeeID int64) error
	EmployeesByDepartment(ctx context.Context, department string) ([]EmployeeSummary, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	DepartmentNames(ctx context.Context) ([]string, error)
	CreateDepartment(ctx context.Context, dep Department) (*Department, error)
}

var _ StoreAPI = (*Store)(nil)
