package corehandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/core"
	"hrrecords/internal/domain/core/coretest"
)

type fakeRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (f *fakeRecorder) Record(_ context.Context, entry audit.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func newRouter(t *testing.T, seed ...core.Employee) (http.Handler, *coretest.Memory, *fakeRecorder) {
	t.Helper()
	mem := coretest.NewMemory(seed...)
	recorder := &fakeRecorder{}
	router := chi.NewRouter()
	NewHandler(core.NewService(mem), recorder).RegisterRoutes(router)
	return router, mem, recorder
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestCreateAndGetEmployee(t *testing.T) {
	router, _, recorder := newRouter(t)

	rec := do(t, router, http.MethodPost, "/employees", `{"employee_id":7,"full_name":"Ali Hassan","hire_date":"2020-01-15","basic_salary":3500.5,"points_count":"3"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[map[string]any](t, rec)
	if created["employee_id"] != float64(7) || created["hire_date"] != "2020-01-15" || created["points_count"] != float64(3) {
		t.Fatalf("unexpected created body %+v", created)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != "employee.create" || recorder.entries[0].EntityID != "7" {
		t.Fatalf("unexpected audit entries %+v", recorder.entries)
	}

	rec = do(t, router, http.MethodGet, "/employees/7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := decode[map[string]any](t, rec)
	if got["full_name"] != "Ali Hassan" || got["basic_salary"] != 3500.5 {
		t.Fatalf("unexpected employee %+v", got)
	}
}

func TestAuditEntriesMaskBankAccount(t *testing.T) {
	router, _, recorder := newRouter(t)
	const account = "SA0380000000608010167519"

	rec := do(t, router, http.MethodPost, "/employees", `{"employee_id":12,"full_name":"Nour","bank_account":"`+account+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decode[map[string]any](t, rec); body["bank_account"] != account {
		t.Fatalf("expected full account in response, got %v", body["bank_account"])
	}
	rec = do(t, router, http.MethodPut, "/employees/12", `{"job_title":"Analyst"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodDelete, "/employees/12", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(recorder.entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(recorder.entries))
	}
	for _, entry := range recorder.entries {
		for _, payload := range []any{entry.Before, entry.After} {
			if payload == nil {
				continue
			}
			raw, err := json.Marshal(payload)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if strings.Contains(string(raw), account) {
				t.Fatalf("%s payload leaks bank account: %s", entry.Action, raw)
			}
			if !strings.Contains(string(raw), "7519") {
				t.Fatalf("%s payload lost masked account: %s", entry.Action, raw)
			}
		}
	}
}

func TestGetEmployeeErrors(t *testing.T) {
	router, _, _ := newRouter(t)

	rec := do(t, router, http.MethodGet, "/employees/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decode[map[string]any](t, rec); body["error"] == "" || body["code"] != "not_found" {
		t.Fatalf("unexpected error body %+v", body)
	}

	rec = do(t, router, http.MethodGet, "/employees/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestCreateEmployeeValidation(t *testing.T) {
	router, _, _ := newRouter(t, core.Employee{EmployeeID: 1, FullName: "Existing", NationalID: "123"})

	cases := map[string]string{
		"missing id":       `{"full_name":"No Id"}`,
		"missing name":     `{"employee_id":2}`,
		"duplicate id":     `{"employee_id":1,"full_name":"Again"}`,
		"duplicate nat id": `{"employee_id":3,"full_name":"Clash","national_id":"123"}`,
		"bad date":         `{"employee_id":4,"full_name":"Bad","hire_date":"15/01/2020"}`,
		"malformed":        `{"employee_id":`,
	}
	for name, body := range cases {
		rec := do(t, router, http.MethodPost, "/employees", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", name, rec.Code, rec.Body.String())
		}
	}
}

func TestUpdateEmployeeAppliesPartialPatch(t *testing.T) {
	router, mem, recorder := newRouter(t, core.Employee{EmployeeID: 5, FullName: "Sara", JobTitle: "Clerk", Department: "HR"})

	rec := do(t, router, http.MethodPut, "/employees/5", `{"job_title":"Manager","unknown":"ignored"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored, err := mem.GetEmployee(context.Background(), 5)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.JobTitle != "Manager" || stored.Department != "HR" || stored.FullName != "Sara" {
		t.Fatalf("unexpected stored employee %+v", stored)
	}
	last := recorder.entries[len(recorder.entries)-1]
	if last.Action != "employee.update" || last.Before == nil || last.After == nil {
		t.Fatalf("unexpected audit entry %+v", last)
	}

	rec = do(t, router, http.MethodPut, "/employees/5", `{"employee_id":6}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected id change to be rejected, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPut, "/employees/404", `{"job_title":"x"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing employee, got %d", rec.Code)
	}
}

func TestDeleteEmployee(t *testing.T) {
	router, mem, _ := newRouter(t, core.Employee{EmployeeID: 9, FullName: "Omar"})

	rec := do(t, router, http.MethodDelete, "/employees/9", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode[map[string]any](t, rec); body["full_name"] != "Omar" {
		t.Fatalf("expected deleted record in body, got %+v", body)
	}
	if len(mem.Deleted) != 1 || mem.Deleted[0] != 9 {
		t.Fatalf("unexpected deleted ids %v", mem.Deleted)
	}

	rec = do(t, router, http.MethodGet, "/employees/9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestSearchEmployees(t *testing.T) {
	router, _, _ := newRouter(t,
		core.Employee{EmployeeID: 11, FullName: "Ali Saleh", Department: "IT"},
		core.Employee{EmployeeID: 12, FullName: "Ali Kamal", Department: "HR"},
		core.Employee{EmployeeID: 13, FullName: "Mona", Department: "IT"},
	)

	rec := do(t, router, http.MethodGet, "/employees/search?q=Ali&department=IT", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	results := decode[[]map[string]any](t, rec)
	if len(results) != 1 || results[0]["employee_id"] != float64(11) {
		t.Fatalf("unexpected results %+v", results)
	}

	rec = do(t, router, http.MethodGet, "/employees/search?q=nobody", "")
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestDepartments(t *testing.T) {
	router, _, _ := newRouter(t,
		core.Employee{EmployeeID: 21, FullName: "Huda", Department: "Finance"},
		core.Employee{EmployeeID: 22, FullName: "Zaid", Department: "IT"},
	)

	rec := do(t, router, http.MethodPost, "/departments", `{"name":"Finance","description":"Money"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, router, http.MethodPost, "/departments", `{"name":"Finance"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate department to fail, got %d", rec.Code)
	}
	rec = do(t, router, http.MethodPost, "/departments", `{"name":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected blank name to fail, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/departments_list", "")
	names := decode[[]string](t, rec)
	if len(names) != 1 || names[0] != "Finance" {
		t.Fatalf("unexpected names %v", names)
	}

	rec = do(t, router, http.MethodGet, "/employees_by_department/IT", "")
	summaries := decode[[]map[string]any](t, rec)
	if len(summaries) != 1 || summaries[0]["full_name"] != "Zaid" || len(summaries[0]) != 2 {
		t.Fatalf("unexpected summaries %+v", summaries)
	}
}
