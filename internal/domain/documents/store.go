package documents

import (
	"context"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type StoreAPI interface {
	List(ctx context.Context) ([]Document, error)
	Get(ctx context.Context, id int64) (*Document, error)
	Create(ctx context.Context, doc Document) (*Document, error)
}

var _ StoreAPI = (*Store)(nil)

const documentColumns = `id, document_number, document_type, employee_id,
           COALESCE(subject, ''), COALESCE(content, ''), COALESCE(recipient, ''),
           created_at, created_by, COALESCE(file_path, '')`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	if err := row.Scan(
		&d.ID, &d.DocumentNumber, &d.DocumentType, &d.EmployeeID,
		&d.Subject, &d.Content, &d.Recipient,
		&d.CreatedAt, &d.CreatedBy, &d.FilePath,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+documentColumns+`
    FROM documents
    ORDER BY id
  `)
	if err != nil {
		return nil, core.TranslateStoreError("list documents", err)
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, core.TranslateStoreError("list documents", err)
		}
		out = append(out, *d)
	}
	return out, core.TranslateStoreError("list documents", rows.Err())
}

func (s *Store) Get(ctx context.Context, id int64) (*Document, error) {
	d, err := scanDocument(s.DB.QueryRow(ctx, `
    SELECT `+documentColumns+`
    FROM documents
    WHERE id = $1
  `, id))
	if err != nil {
		return nil, core.TranslateStoreError("get document", err)
	}
	return d, nil
}

func (s *Store) Create(ctx context.Context, doc Document) (*Document, error) {
	d, err := scanDocument(s.DB.QueryRow(ctx, `
    INSERT INTO documents (document_number, document_type, employee_id, subject, content, recipient, created_by, file_path)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+documentColumns,
		doc.DocumentNumber, doc.DocumentType, doc.EmployeeID,
		nullIfEmpty(doc.Subject), nullIfEmpty(doc.Content), nullIfEmpty(doc.Recipient),
		doc.CreatedBy, nullIfEmpty(doc.FilePath)))
	if err != nil {
		return nil, core.TranslateStoreError("create document", err)
	}
	return d, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
