package audit

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBuildBaseQuery(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{})
	if query != "SELECT COUNT(1) FROM audit_events WHERE 1=1" || len(args) != 0 {
		t.Fatalf("unexpected query %q %v", query, args)
	}

	query, args = buildBaseQuery("SELECT id", Filter{Action: "employee.update", Actor: "ops@example.com"})
	if !strings.Contains(query, "action = $1") || !strings.Contains(query, "actor = $2") {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 2 || args[1] != "ops@example.com" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	events := []Event{{
		ID:         7,
		Actor:      "ops@example.com",
		Action:     "employee.delete",
		EntityType: "employee",
		EntityID:   "42",
		RequestID:  "req-1",
		IP:         "10.0.0.1",
		CreatedAt:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
	if err := WriteCSV(&buf, events); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if lines[0] != "id,actor,action,entity_type,entity_id,request_id,ip,created_at" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "7,ops@example.com,employee.delete,employee,42,req-1,10.0.0.1,2025-01-02T03:04:05Z" {
		t.Fatalf("unexpected row %q", lines[1])
	}
}
