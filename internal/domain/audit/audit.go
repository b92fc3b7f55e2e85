package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hrrecords/internal/domain/core"
	"hrrecords/internal/platform/querier"
)

type Event struct {
	ID         int64           `json:"id"`
	Actor      string          `json:"actor"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	RequestID  string          `json:"request_id"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"created_at"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

// Entry is an event waiting to be written. Before and After are marshalled
// to JSON when non-nil.
type Entry struct {
	Actor      string
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
	IP         string
	Before     any
	After      any
}

type Filter struct {
	Action     string
	EntityType string
	Actor      string
}

// Recorder is what mutating handlers depend on.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	var beforeJSON, afterJSON []byte
	if entry.Before != nil {
		payload, err := json.Marshal(entry.Before)
		if err != nil {
			return err
		}
		beforeJSON = payload
	}
	if entry.After != nil {
		payload, err := json.Marshal(entry.After)
		if err != nil {
			return err
		}
		afterJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor, action, entity_type, entity_id, before_json, after_json, request_id, ip)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, entry.Actor, entry.Action, entry.EntityType, entry.EntityID, beforeJSON, afterJSON, entry.RequestID, entry.IP)
	return core.TranslateStoreError("record audit event", err)
}

func (s *Service) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildBaseQuery("SELECT COUNT(1)", filter)
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, core.TranslateStoreError("count audit events", err)
	}
	return total, nil
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool, limit, offset int) ([]Event, error) {
	selectCols := "id, actor, action, entity_type, entity_id, request_id, ip, created_at"
	if includeDetails {
		selectCols += ", before_json, after_json"
	}
	query, args := buildBaseQuery("SELECT "+selectCols, filter)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, core.TranslateStoreError("list audit events", err)
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		var evt Event
		dest := []any{&evt.ID, &evt.Actor, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt}
		if includeDetails {
			dest = append(dest, &evt.Before, &evt.After)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, core.TranslateStoreError("list audit events", err)
		}
		out = append(out, evt)
	}
	return out, core.TranslateStoreError("list audit events", rows.Err())
}

func (s *Service) ListExport(ctx context.Context, filter Filter) ([]Event, error) {
	query, args := buildBaseQuery("SELECT id, actor, action, entity_type, entity_id, request_id, ip, created_at", filter)
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, core.TranslateStoreError("export audit events", err)
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.Actor, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &evt.IP, &evt.CreatedAt); err != nil {
			return nil, core.TranslateStoreError("export audit events", err)
		}
		out = append(out, evt)
	}
	return out, core.TranslateStoreError("export audit events", rows.Err())
}

func buildBaseQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM audit_events WHERE 1=1"
	var args []any
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		query += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if filter.Actor != "" {
		args = append(args, filter.Actor)
		query += fmt.Sprintf(" AND actor = $%d", len(args))
	}
	return query, args
}
