// Package spreadsheet converts employee records to and from Excel workbooks.
package spreadsheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"hrrecords/internal/domain/core"
)

const SheetName = "بيانات الموظفين"

// Column pairs a header label with the employee attribute stored under it.
type Column struct {
	Label string
	Field core.Field
}

var columnLabels = []struct{ label, field string }{
	{"الرقم الوظيفي", "employee_id"},
	{"الاسم الكامل", "full_name"},
	{"الدار", "house_number"},
	{"الرقم القومي", "national_id"},
	{"الوظيفة", "job_title"},
	{"المؤهل", "qualification"},
	{"تاريخ التعيين", "hire_date"},
	{"عدد الابناط", "points_count"},
	{"سنوات الخبرة", "years_of_experience"},
	{"الراتب من المنظومة", "salary_from_system"},
	{"الراتب", "actual_salary"},
	{"كود القسم", "department_code"},
	{"القسم", "department"},
	{"البريد الإلكتروني", "email"},
	{"رقم الهاتف", "phone"},
	{"تاريخ الميلاد", "birth_date"},
	{"الجنسية", "nationality"},
	{"العنوان", "address"},
	{"الحالة الاجتماعية", "marital_status"},
	{"عدد الأطفال", "children_count"},
	{"المستوى التعليمي", "education_level"},
	{"التخصص", "specialization"},
	{"تاريخ انتهاء العقد", "contract_end_date"},
	{"الراتب الأساسي", "basic_salary"},
	{"البدلات", "allowances"},
	{"إجمالي الراتب", "total_salary"},
	{"رقم الحساب البنكي", "bank_account"},
	{"ملاحظات", "notes"},
}

var columns = func() []Column {
	out := make([]Column, 0, len(columnLabels))
	for _, entry := range columnLabels {
		field, ok := core.LookupEmployeeField(entry.field)
		if !ok {
			panic("spreadsheet: unknown employee field " + entry.field)
		}
		out = append(out, Column{Label: entry.label, Field: field})
	}
	return out
}()

// headerIndex resolves normalised labels, and raw attribute names, to fields.
var headerIndex = func() map[string]core.Field {
	out := make(map[string]core.Field, len(columns)*2)
	for _, field := range core.EmployeeFields() {
		out[normalizeHeader(field.Name)] = field
	}
	for _, col := range columns {
		out[normalizeHeader(col.Label)] = col.Field
	}
	return out
}()

// Columns returns the export layout in order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

func normalizeHeader(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

// MapHeaders resolves a header row positionally. Unknown headers yield nil and
// their column is ignored on import.
func MapHeaders(header []Cell) []*core.Field {
	out := make([]*core.Field, len(header))
	for i, cell := range header {
		if field, ok := headerIndex[normalizeHeader(cell.Text)]; ok {
			f := field
			out[i] = &f
		}
	}
	return out
}
