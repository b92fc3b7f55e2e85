package core

import (
	"encoding/json"
	"strings"
	"time"
)

// Employee is the root HR record. EmployeeID is assigned outside the system
// and never changes after insert.
type Employee struct {
	EmployeeID        int64
	FullName          string
	HouseNumber       string
	NationalID        string
	JobTitle          string
	Qualification     string
	HireDate          *time.Time
	PointsCount       int
	YearsOfExperience int
	SalaryFromSystem  *float64
	ActualSalary      *float64
	DepartmentCode    string
	Department        string
	Email             string
	Phone             string
	BirthDate         *time.Time
	Nationality       string
	IDNumber          string
	Address           string
	MaritalStatus     string
	ChildrenCount     int
	EducationLevel    string
	Specialization    string
	ContractEndDate   *time.Time
	BasicSalary       *float64
	Allowances        *float64
	TotalSalary       *float64
	BankAccount       string
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ToMap projects the employee onto its wire field names. Empty text and
// missing numbers or dates become nil; dates render as YYYY-MM-DD.
func (e Employee) ToMap() map[string]any {
	out := make(map[string]any, len(employeeFields)+2)
	for _, field := range employeeFields {
		out[field.Name] = field.Value(&e)
	}
	if !e.CreatedAt.IsZero() {
		out["created_at"] = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !e.UpdatedAt.IsZero() {
		out["updated_at"] = e.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

// AuditMap is ToMap with bank_account masked, for copies kept outside the
// encrypted column.
func (e Employee) AuditMap() map[string]any {
	out := e.ToMap()
	if e.BankAccount != "" {
		out["bank_account"] = MaskAccount(e.BankAccount)
	}
	return out
}

// MaskAccount hides all but the last four characters of an account number.
func MaskAccount(account string) string {
	runes := []rune(account)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

func (e Employee) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

type EmployeeSummary struct {
	EmployeeID int64  `json:"employee_id"`
	FullName   string `json:"full_name"`
}

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ManagerID   *int64    `json:"manager_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchFilter narrows an employee listing. Query matches the full name or the
// employee id as text; Department is an exact match. Both compose with AND.
type SearchFilter struct {
	Query      string
	Department string
}

// EmployeeChange carries both sides of an update for the audit trail.
type EmployeeChange struct {
	Before *Employee
	After  *Employee
}
