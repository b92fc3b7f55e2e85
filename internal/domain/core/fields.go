package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// Field describes one Employee attribute: its wire name, its type and whether
// the generic update path may write it.
type Field struct {
	Name      string
	Kind      Kind
	Updatable bool

	get func(*Employee) any
	set func(*Employee, any)
}

// Value reads the field from emp in wire form.
func (f Field) Value(emp *Employee) any {
	switch v := f.get(emp).(type) {
	case string:
		if v == "" {
			return nil
		}
		return v
	case *float64:
		if v == nil {
			return nil
		}
		return *v
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format(DateLayout)
	default:
		return v
	}
}

// Coerce converts raw into the field's Go type: string, int, *float64 or
// *time.Time. nil and blank text become the zero value for the kind.
func (f Field) Coerce(raw any) (any, error) {
	switch f.Kind {
	case KindInt:
		return coerceInt(f.Name, raw, 32)
	case KindFloat:
		return coerceFloat(f.Name, raw)
	case KindDate:
		return coerceDate(f.Name, raw)
	default:
		return coerceString(raw), nil
	}
}

// Zero is the value a field falls back to when coercion degrades.
func (f Field) Zero() any {
	switch f.Kind {
	case KindInt:
		return 0
	case KindFloat:
		return (*float64)(nil)
	case KindDate:
		return (*time.Time)(nil)
	default:
		return ""
	}
}

func (f Field) assign(emp *Employee, value any) {
	if f.set != nil {
		f.set(emp, value)
	}
}

func stringField(name string, ref func(*Employee) *string) Field {
	return Field{
		Name:      name,
		Kind:      KindString,
		Updatable: true,
		get:       func(e *Employee) any { return *ref(e) },
		set:       func(e *Employee, v any) { *ref(e) = v.(string) },
	}
}

func intField(name string, ref func(*Employee) *int) Field {
	return Field{
		Name:      name,
		Kind:      KindInt,
		Updatable: true,
		get:       func(e *Employee) any { return *ref(e) },
		set:       func(e *Employee, v any) { *ref(e) = v.(int) },
	}
}

func floatField(name string, ref func(*Employee) **float64) Field {
	return Field{
		Name:      name,
		Kind:      KindFloat,
		Updatable: true,
		get:       func(e *Employee) any { return *ref(e) },
		set:       func(e *Employee, v any) { *ref(e) = v.(*float64) },
	}
}

func dateField(name string, ref func(*Employee) **time.Time) Field {
	return Field{
		Name:      name,
		Kind:      KindDate,
		Updatable: true,
		get:       func(e *Employee) any { return *ref(e) },
		set:       func(e *Employee, v any) { *ref(e) = v.(*time.Time) },
	}
}

var employeeFields = []Field{
	{Name: "employee_id", Kind: KindInt, get: func(e *Employee) any { return e.EmployeeID }},
	stringField("full_name", func(e *Employee) *string { return &e.FullName }),
	stringField("house_number", func(e *Employee) *string { return &e.HouseNumber }),
	stringField("national_id", func(e *Employee) *string { return &e.NationalID }),
	stringField("job_title", func(e *Employee) *string { return &e.JobTitle }),
	stringField("qualification", func(e *Employee) *string { return &e.Qualification }),
	dateField("hire_date", func(e *Employee) **time.Time { return &e.HireDate }),
	intField("points_count", func(e *Employee) *int { return &e.PointsCount }),
	intField("years_of_experience", func(e *Employee) *int { return &e.YearsOfExperience }),
	floatField("salary_from_system", func(e *Employee) **float64 { return &e.SalaryFromSystem }),
	floatField("actual_salary", func(e *Employee) **float64 { return &e.ActualSalary }),
	stringField("department_code", func(e *Employee) *string { return &e.DepartmentCode }),
	stringField("department", func(e *Employee) *string { return &e.Department }),
	stringField("email", func(e *Employee) *string { return &e.Email }),
	stringField("phone", func(e *Employee) *string { return &e.Phone }),
	dateField("birth_date", func(e *Employee) **time.Time { return &e.BirthDate }),
	stringField("nationality", func(e *Employee) *string { return &e.Nationality }),
	stringField("id_number", func(e *Employee) *string { return &e.IDNumber }),
	stringField("address", func(e *Employee) *string { return &e.Address }),
	stringField("marital_status", func(e *Employee) *string { return &e.MaritalStatus }),
	intField("children_count", func(e *Employee) *int { return &e.ChildrenCount }),
	stringField("education_level", func(e *Employee) *string { return &e.EducationLevel }),
	stringField("specialization", func(e *Employee) *string { return &e.Specialization }),
	dateField("contract_end_date", func(e *Employee) **time.Time { return &e.ContractEndDate }),
	floatField("basic_salary", func(e *Employee) **float64 { return &e.BasicSalary }),
	floatField("allowances", func(e *Employee) **float64 { return &e.Allowances }),
	floatField("total_salary", func(e *Employee) **float64 { return &e.TotalSalary }),
	stringField("bank_account", func(e *Employee) *string { return &e.BankAccount }),
	stringField("notes", func(e *Employee) *string { return &e.Notes }),
}

var employeeFieldIndex = func() map[string]Field {
	out := make(map[string]Field, len(employeeFields))
	for _, field := range employeeFields {
		out[field.Name] = field
	}
	return out
}()

// EmployeeFields returns the attribute table in canonical order.
func EmployeeFields() []Field {
	out := make([]Field, len(employeeFields))
	copy(out, employeeFields)
	return out
}

func LookupEmployeeField(name string) (Field, bool) {
	field, ok := employeeFieldIndex[name]
	return field, ok
}

// EmployeePatch is a set of coerced values keyed by updatable field name.
type EmployeePatch struct {
	values map[string]any
	order  []string
}

func NewEmployeePatch() *EmployeePatch {
	return &EmployeePatch{values: make(map[string]any)}
}

// Set stores an already coerced value. Unknown or read-only fields are rejected.
func (p *EmployeePatch) Set(name string, value any) error {
	field, ok := employeeFieldIndex[name]
	if !ok || !field.Updatable {
		return Invalid(name, "is not an updatable field")
	}
	if _, seen := p.values[name]; !seen {
		p.order = append(p.order, name)
	}
	p.values[name] = value
	return nil
}

// Fields lists the patched field names in insertion order.
func (p *EmployeePatch) Fields() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

func (p *EmployeePatch) Len() int {
	return len(p.order)
}

func (p *EmployeePatch) Apply(emp *Employee) {
	for _, name := range p.order {
		employeeFieldIndex[name].assign(emp, p.values[name])
	}
}

// ParseEmployeePatch builds a patch from a decoded request body. Keys that are
// not updatable attributes are skipped; a value that cannot be coerced fails.
func ParseEmployeePatch(raw map[string]any) (*EmployeePatch, error) {
	patch := NewEmployeePatch()
	for _, field := range employeeFields {
		value, ok := raw[field.Name]
		if !ok || !field.Updatable {
			continue
		}
		coerced, err := field.Coerce(value)
		if err != nil {
			return nil, err
		}
		if err := patch.Set(field.Name, coerced); err != nil {
			return nil, err
		}
	}
	return patch, nil
}

// BuildEmployee constructs a new record from a decoded request body.
func BuildEmployee(raw map[string]any) (Employee, error) {
	id, err := CoerceEmployeeID(raw["employee_id"])
	if err != nil {
		return Employee{}, err
	}
	patch, err := ParseEmployeePatch(raw)
	if err != nil {
		return Employee{}, err
	}
	emp := Employee{EmployeeID: id}
	patch.Apply(&emp)
	if strings.TrimSpace(emp.FullName) == "" {
		return Employee{}, Invalid("full_name", "is required")
	}
	return emp, nil
}

// CoerceEmployeeID converts raw into a positive employee id.
func CoerceEmployeeID(raw any) (int64, error) {
	if raw == nil {
		return 0, Invalid("employee_id", "is required")
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return 0, Invalid("employee_id", "is required")
	}
	value, err := coerceInt("employee_id", raw, 64)
	if err != nil {
		return 0, err
	}
	id := int64(value.(int))
	if id <= 0 {
		return 0, Invalid("employee_id", "must be a positive integer")
	}
	return id, nil
}

func coerceString(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(DateLayout)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// coerceInt converts raw into an int that fits a signed integer of the given
// bit size. Values outside that range fail like any other bad input.
func coerceInt(field string, raw any, bits int) (any, error) {
	fail := &CoercionError{Field: field, Value: raw, Target: KindInt.String()}
	var n int64
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		whole, ok := wholeNumber(v, bits)
		if !ok {
			return nil, fail
		}
		n = whole
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return 0, nil
		}
		if parsed, err := strconv.ParseInt(text, 10, bits); err == nil {
			return int(parsed), nil
		}
		// Spreadsheet tools often hand integers back as "12.0".
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fail
		}
		whole, ok := wholeNumber(parsed, bits)
		if !ok {
			return nil, fail
		}
		n = whole
	default:
		return nil, fail
	}
	if bits < 64 {
		limit := int64(1) << (bits - 1)
		if n < -limit || n >= limit {
			return nil, fail
		}
	}
	return int(n), nil
}

func wholeNumber(v float64, bits int) (int64, bool) {
	limit := math.Ldexp(1, bits-1)
	if math.IsNaN(v) || v != math.Trunc(v) || v < -limit || v >= limit {
		return 0, false
	}
	return int64(v), true
}

func coerceFloat(field string, raw any) (any, error) {
	var value float64
	switch v := raw.(type) {
	case nil:
		return (*float64)(nil), nil
	case float64:
		value = v
	case int:
		value = float64(v)
	case int64:
		value = float64(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return (*float64)(nil), nil
		}
		parsed, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, &CoercionError{Field: field, Value: raw, Target: KindFloat.String()}
		}
		value = parsed
	default:
		return nil, &CoercionError{Field: field, Value: raw, Target: KindFloat.String()}
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, &CoercionError{Field: field, Value: raw, Target: KindFloat.String()}
	}
	return &value, nil
}

func coerceDate(field string, raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return (*time.Time)(nil), nil
	case time.Time:
		day := DateOf(v)
		return &day, nil
	case *time.Time:
		if v == nil {
			return (*time.Time)(nil), nil
		}
		day := DateOf(*v)
		return &day, nil
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return (*time.Time)(nil), nil
		}
		parsed, err := time.Parse(DateLayout, text)
		if err != nil {
			return nil, &CoercionError{Field: field, Value: raw, Target: KindDate.String()}
		}
		return &parsed, nil
	}
	return nil, &CoercionError{Field: field, Value: raw, Target: KindDate.String()}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
