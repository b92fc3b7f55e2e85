package documents

import "time"

type Document struct {
	ID             int64     `json:"id"`
	DocumentNumber string    `json:"document_number"`
	DocumentType   string    `json:"document_type"`
	EmployeeID     *int64    `json:"employee_id"`
	Subject        string    `json:"subject"`
	Content        string    `json:"content"`
	Recipient      string    `json:"recipient"`
	CreatedAt      time.Time `json:"created_at"`
	CreatedBy      *int64    `json:"created_by"`
	FilePath       string    `json:"file_path"`
}

type Input struct {
	DocumentNumber string `json:"document_number"`
	DocumentType   string `json:"document_type"`
	EmployeeID     *int64 `json:"employee_id"`
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	Recipient      string `json:"recipient"`
	CreatedBy      *int64 `json:"created_by"`
	FilePath       string `json:"file_path"`
}
