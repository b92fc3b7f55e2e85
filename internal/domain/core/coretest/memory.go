// Package coretest provides an in-memory core.StoreAPI for tests that do not
// need a database.
package coretest

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"hrrecords/internal/domain/core"
)

type Memory struct {
	mu          sync.Mutex
	order       []int64
	employees   map[int64]core.Employee
	departments []core.Department
	now         func() time.Time

	// Deleted records every employee id passed to a successful DeleteEmployee.
	Deleted []int64
}

func NewMemory(seed ...core.Employee) *Memory {
	m := &Memory{employees: make(map[int64]core.Employee), now: time.Now}
	for _, emp := range seed {
		if _, err := m.CreateEmployee(context.Background(), emp); err != nil {
			panic(err)
		}
	}
	return m
}

func (m *Memory) GetEmployee(_ context.Context, employeeID int64) (*core.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	emp, ok := m.employees[employeeID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]core.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Employee, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.employees[id])
	}
	return out, nil
}

func (m *Memory) SearchEmployees(ctx context.Context, filter core.SearchFilter) ([]core.Employee, error) {
	all, _ := m.ListEmployees(ctx)
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	dep := strings.TrimSpace(filter.Department)
	out := make([]core.Employee, 0)
	for _, emp := range all {
		if q != "" && !strings.Contains(strings.ToLower(emp.FullName), q) && !strings.Contains(strconv.FormatInt(emp.EmployeeID, 10), q) {
			continue
		}
		if dep != "" && emp.Department != dep {
			continue
		}
		out = append(out, emp)
	}
	return out, nil
}

func (m *Memory) CreateEmployee(_ context.Context, emp core.Employee) (*core.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.employees[emp.EmployeeID]; exists {
		return nil, core.Invalid("employee_id", "already exists")
	}
	if err := m.checkUnique(emp); err != nil {
		return nil, err
	}
	now := m.now()
	emp.CreatedAt, emp.UpdatedAt = now, now
	m.employees[emp.EmployeeID] = emp
	m.order = append(m.order, emp.EmployeeID)
	return &emp, nil
}

func (m *Memory) UpdateEmployee(_ context.Context, emp core.Employee) (*core.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.employees[emp.EmployeeID]
	if !ok {
		return nil, core.ErrNotFound
	}
	if err := m.checkUnique(emp); err != nil {
		return nil, err
	}
	emp.CreatedAt = existing.CreatedAt
	emp.UpdatedAt = m.now()
	m.employees[emp.EmployeeID] = emp
	return &emp, nil
}

func (m *Memory) checkUnique(emp core.Employee) error {
	for id, other := range m.employees {
		if id == emp.EmployeeID {
			continue
		}
		if emp.NationalID != "" && other.NationalID == emp.NationalID {
			return core.Invalid("national_id", "already exists")
		}
		if emp.IDNumber != "" && other.IDNumber == emp.IDNumber {
			return core.Invalid("id_number", "already exists")
		}
	}
	return nil
}

func (m *Memory) DeleteEmployee(_ context.Context, employeeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[employeeID]; !ok {
		return core.ErrNotFound
	}
	delete(m.employees, employeeID)
	for i, id := range m.order {
		if id == employeeID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.Deleted = append(m.Deleted, employeeID)
	return nil
}

func (m *Memory) EmployeesByDepartment(ctx context.Context, department string) ([]core.EmployeeSummary, error) {
	all, _ := m.ListEmployees(ctx)
	out := make([]core.EmployeeSummary, 0)
	for _, emp := range all {
		if emp.Department == department {
			out = append(out, core.EmployeeSummary{EmployeeID: emp.EmployeeID, FullName: emp.FullName})
		}
	}
	return out, nil
}

func (m *Memory) ListDepartments(_ context.Context) ([]core.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Department, len(m.departments))
	copy(out, m.departments)
	return out, nil
}

func (m *Memory) DepartmentNames(ctx context.Context) ([]string, error) {
	deps, _ := m.ListDepartments(ctx)
	out := make([]string, 0, len(deps))
	for _, dep := range deps {
		out = append(out, dep.Name)
	}
	return out, nil
}

func (m *Memory) CreateDepartment(_ context.Context, dep core.Department) (*core.Department, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.departments {
		if existing.Name == dep.Name {
			return nil, core.Invalid("name", "already exists")
		}
	}
	dep.ID = int64(len(m.departments) + 1)
	dep.CreatedAt = m.now()
	m.departments = append(m.departments, dep)
	return &dep, nil
}

var _ core.StoreAPI = (*Memory)(nil)
