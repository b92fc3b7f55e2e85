package spreadsheethandler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/core"
	"hrrecords/internal/domain/core/coretest"
	"hrrecords/internal/domain/spreadsheet"
	"hrrecords/internal/platform/metrics"
)

type memoryBatches struct {
	mem *coretest.Memory
}

func (m memoryBatches) Begin(context.Context) (spreadsheet.Batch, error) {
	return memoryBatch{mem: m.mem}, nil
}

type memoryBatch struct {
	mem *coretest.Memory
}

func (b memoryBatch) Row(_ context.Context, fn func(repo spreadsheet.EmployeeRepo) error) error {
	return fn(b.mem)
}

func (memoryBatch) Commit(context.Context) error   { return nil }
func (memoryBatch) Rollback(context.Context) error { return nil }

type fakeRecorder struct {
	entries []audit.Entry
}

func (f *fakeRecorder) Record(_ context.Context, entry audit.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func setup(t *testing.T, seed ...core.Employee) (http.Handler, *coretest.Memory, *fakeRecorder, *metrics.Collector) {
	t.Helper()
	mem := coretest.NewMemory(seed...)
	recorder := &fakeRecorder{}
	collector := metrics.New()
	h := NewHandler(core.NewService(mem), spreadsheet.NewImporter(memoryBatches{mem: mem}, 10), recorder, collector, 1<<20)
	h.Now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return router, mem, recorder, collector
}

func upload(t *testing.T, router http.Handler, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestExportReturnsWorkbookAttachment(t *testing.T) {
	router, _, _, collector := setup(t, core.Employee{EmployeeID: 1, FullName: "Ali"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, spreadsheet.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=employees_data_20240506_070809.xlsx", rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip container")
	assert.Equal(t, uint64(1), collector.Snapshot()["exports_total"])
}

func TestExportThenImportUpdatesEveryRow(t *testing.T) {
	router, _, recorder, collector := setup(t,
		core.Employee{EmployeeID: 1, FullName: "Ali", Department: "IT"},
		core.Employee{EmployeeID: 2, FullName: "Mona", Department: "HR"},
	)

	exportRec := httptest.NewRecorder()
	router.ServeHTTP(exportRec, httptest.NewRequest(http.MethodGet, "/export_excel", nil))
	require.Equal(t, http.StatusOK, exportRec.Code)

	rec := upload(t, router, "/employees/import", "employees.xlsx", exportRec.Body.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result spreadsheet.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.UpdatedCount)
	assert.Equal(t, 0, result.ImportedCount)
	assert.Equal(t, 2, result.TotalProcessed)
	assert.Zero(t, result.ErrorsCount)

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, "employee.import", recorder.entries[0].Action)
	assert.Equal(t, "employees.xlsx", recorder.entries[0].EntityID)
	assert.Equal(t, uint64(2), collector.Snapshot()["import_rows_updated"])
}

func TestImportRejectsBadUploads(t *testing.T) {
	router, _, _, _ := setup(t)

	rec := upload(t, router, "/import_excel", "employees.csv", []byte("a,b\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be an Excel workbook")

	rec = upload(t, router, "/import_excel", "employees.xlsx", []byte("not a zip"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be read")

	req := httptest.NewRequest(http.MethodPost, "/import_excel", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	plain := httptest.NewRecorder()
	router.ServeHTTP(plain, req)
	assert.Equal(t, http.StatusBadRequest, plain.Code)
	assert.Contains(t, plain.Body.String(), "file is required")
}
