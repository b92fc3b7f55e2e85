package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	cryptoutil "hrrecords/internal/platform/crypto"
	"hrrecords/internal/platform/querier"
)

type Store struct {
	DB     querier.Querier
	Crypto *cryptoutil.Service
}

func NewStore(db querier.Querier, crypto *cryptoutil.Service) *Store {
	return &Store{DB: db, Crypto: crypto}
}

// WithDB returns a store bound to db, typically a transaction or savepoint.
func (s *Store) WithDB(db querier.Querier) *Store {
	return &Store{DB: db, Crypto: s.Crypto}
}

const employeeColumns = `employee_id, full_name,
           COALESCE(house_number, ''), COALESCE(national_id, ''),
           COALESCE(job_title, ''), COALESCE(qualification, ''),
           hire_date, points_count, years_of_experience,
           salary_from_system, actual_salary,
           COALESCE(department_code, ''), COALESCE(department, ''),
           COALESCE(email, ''), COALESCE(phone, ''),
           birth_date, COALESCE(nationality, ''), COALESCE(id_number, ''),
           COALESCE(address, ''), COALESCE(marital_status, ''), children_count,
           COALESCE(education_level, ''), COALESCE(specialization, ''),
           contract_end_date, basic_salary, allowances, total_salary,
           COALESCE(bank_account, ''), bank_account_enc,
           COALESCE(notes, ''), created_at, updated_at`

func (s *Store) scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	var bankPlain string
	var bankSealed []byte
	err := row.Scan(
		&emp.EmployeeID, &emp.FullName,
		&emp.HouseNumber, &emp.NationalID,
		&emp.JobTitle, &emp.Qualification,
		&emp.HireDate, &emp.PointsCount, &emp.YearsOfExperience,
		&emp.SalaryFromSystem, &emp.ActualSalary,
		&emp.DepartmentCode, &emp.Department,
		&emp.Email, &emp.Phone,
		&emp.BirthDate, &emp.Nationality, &emp.IDNumber,
		&emp.Address, &emp.MaritalStatus, &emp.ChildrenCount,
		&emp.EducationLevel, &emp.Specialization,
		&emp.ContractEndDate, &emp.BasicSalary, &emp.Allowances, &emp.TotalSalary,
		&bankPlain, &bankSealed,
		&emp.Notes, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	emp.BankAccount = s.Crypto.Open(bankSealed, bankPlain)
	return &emp, nil
}

func (s *Store) queryEmployees(ctx context.Context, op, query string, args ...any) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, TranslateStoreError(op, err)
	}
	defer rows.Close()

	out := make([]Employee, 0)
	for rows.Next() {
		emp, err := s.scanEmployee(rows)
		if err != nil {
			return nil, TranslateStoreError(op, err)
		}
		out = append(out, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, TranslateStoreError(op, err)
	}
	return out, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID int64) (*Employee, error) {
	emp, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE employee_id = $1
  `, employeeID))
	if err != nil {
		return nil, TranslateStoreError("get employee", err)
	}
	return emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.queryEmployees(ctx, "list employees", `
    SELECT `+employeeColumns+`
    FROM employees
    ORDER BY created_at, employee_id
  `)
}

func (s *Store) SearchEmployees(ctx context.Context, filter SearchFilter) ([]Employee, error) {
	where, args := buildSearchClause(filter)
	return s.queryEmployees(ctx, "search employees", `
    SELECT `+employeeColumns+`
    FROM employees`+where+`
    ORDER BY created_at, employee_id
  `, args...)
}

// buildSearchClause renders the WHERE clause for a search. The text token is
// matched against the name and the id within one OR group; the department
// filter is ANDed on top.
func buildSearchClause(filter SearchFilter) (string, []any) {
	var clauses []string
	var args []any
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		clauses = append(clauses, fmt.Sprintf("(full_name ILIKE $%d OR employee_id::text LIKE $%d)", len(args), len(args)))
	}
	if dep := strings.TrimSpace(filter.Department); dep != "" {
		args = append(args, dep)
		clauses = append(clauses, fmt.Sprintf("department = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "\n    WHERE " + strings.Join(clauses, " AND "), args
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}

func (s *Store) employeeArgs(emp Employee) ([]any, error) {
	bankPlain, bankSealed, err := s.Crypto.Seal(emp.BankAccount)
	if err != nil {
		return nil, err
	}
	return []any{
		emp.EmployeeID, emp.FullName, nullIfEmpty(emp.HouseNumber), nullIfEmpty(emp.NationalID),
		nullIfEmpty(emp.JobTitle), nullIfEmpty(emp.Qualification), emp.HireDate,
		emp.PointsCount, emp.YearsOfExperience, emp.SalaryFromSystem, emp.ActualSalary,
		nullIfEmpty(emp.DepartmentCode), nullIfEmpty(emp.Department), nullIfEmpty(emp.Email), nullIfEmpty(emp.Phone),
		emp.BirthDate, nullIfEmpty(emp.Nationality), nullIfEmpty(emp.IDNumber), nullIfEmpty(emp.Address),
		nullIfEmpty(emp.MaritalStatus), emp.ChildrenCount, nullIfEmpty(emp.EducationLevel), nullIfEmpty(emp.Specialization),
		emp.ContractEndDate, emp.BasicSalary, emp.Allowances, emp.TotalSalary,
		bankPlain, bankSealed, nullIfEmpty(emp.Notes),
	}, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (*Employee, error) {
	args, err := s.employeeArgs(emp)
	if err != nil {
		return nil, &StoreError{Op: "seal employee", Err: err}
	}
	created, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    INSERT INTO employees (employee_id, full_name, house_number, national_id, job_title, qualification, hire_date,
      points_count, years_of_experience, salary_from_system, actual_salary, department_code, department, email, phone,
      birth_date, nationality, id_number, address, marital_status, children_count, education_level, specialization,
      contract_end_date, basic_salary, allowances, total_salary, bank_account, bank_account_enc, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
    RETURNING `+employeeColumns,
		args...,
	))
	if err != nil {
		return nil, TranslateStoreError("create employee", err)
	}
	return created, nil
}

// UpdateEmployee writes every attribute of emp except its id and creation
// time, refreshing updated_at.
func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) (*Employee, error) {
	args, err := s.employeeArgs(emp)
	if err != nil {
		return nil, &StoreError{Op: "seal employee", Err: err}
	}
	updated, err := s.scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET full_name = $2,
        house_number = $3,
        national_id = $4,
        job_title = $5,
        qualification = $6,
        hire_date = $7,
        points_count = $8,
        years_of_experience = $9,
        salary_from_system = $10,
        actual_salary = $11,
        department_code = $12,
        department = $13,
        email = $14,
        phone = $15,
        birth_date = $16,
        nationality = $17,
        id_number = $18,
        address = $19,
        marital_status = $20,
        children_count = $21,
        education_level = $22,
        specialization = $23,
        contract_end_date = $24,
        basic_salary = $25,
        allowances = $26,
        total_salary = $27,
        bank_account = $28,
        bank_account_enc = $29,
        notes = $30,
        updated_at = now()
    WHERE employee_id = $1
    RETURNING `+employeeColumns,
		args...,
	))
	if err != nil {
		return nil, TranslateStoreError("update employee", err)
	}
	return updated, nil
}

// DeleteEmployee removes the employee together with its leave balances, leave
// requests and attendance rows in one transaction.
func (s *Store) DeleteEmployee(ctx context.Context, employeeID int64) error {
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		for _, stmt := range []string{
			"DELETE FROM leave_management WHERE employee_id = $1",
			"DELETE FROM leave_requests WHERE employee_id = $1",
			"DELETE FROM attendance WHERE employee_id = $1",
		} {
			if _, err := tx.Exec(ctx, stmt, employeeID); err != nil {
				return err
			}
		}
		cmd, err := tx.Exec(ctx, "DELETE FROM employees WHERE employee_id = $1", employeeID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return TranslateStoreError("delete employee", err)
}

func (s *Store) EmployeesByDepartment(ctx context.Context, department string) ([]EmployeeSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, full_name
    FROM employees
    WHERE department = $1
    ORDER BY created_at, employee_id
  `, department)
	if err != nil {
		return nil, TranslateStoreError("employees by department", err)
	}
	defer rows.Close()

	out := make([]EmployeeSummary, 0)
	for rows.Next() {
		var item EmployeeSummary
		if err := rows.Scan(&item.EmployeeID, &item.FullName); err != nil {
			return nil, TranslateStoreError("employees by department", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), manager_id, created_at
    FROM departments
    ORDER BY id
  `)
	if err != nil {
		return nil, TranslateStoreError("list departments", err)
	}
	defer rows.Close()

	out := make([]Department, 0)
	for rows.Next() {
		var dep Department
		if err := rows.Scan(&dep.ID, &dep.Name, &dep.Description, &dep.ManagerID, &dep.CreatedAt); err != nil {
			return nil, TranslateStoreError("list departments", err)
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentNames(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT name FROM departments ORDER BY id")
	if err != nil {
		return nil, TranslateStoreError("department names", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, TranslateStoreError("department names", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, dep Department) (*Department, error) {
	var out Department
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, manager_id)
    VALUES ($1, $2, $3)
    RETURNING id, name, COALESCE(description, ''), manager_id, created_at
  `, dep.Name, nullIfEmpty(dep.Description), dep.ManagerID).Scan(&out.ID, &out.Name, &out.Description, &out.ManagerID, &out.CreatedAt)
	if err != nil {
		return nil, TranslateStoreError("create department", err)
	}
	return &out, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
