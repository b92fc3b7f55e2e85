package audit

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"id", "actor", "action", "entity_type", "entity_id", "request_id", "ip", "created_at"}

// WriteCSV streams events as CSV with a header row.
func WriteCSV(w io.Writer, events []Event) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, evt := range events {
		if err := writer.Write([]string{
			strconv.FormatInt(evt.ID, 10),
			evt.Actor,
			evt.Action,
			evt.EntityType,
			evt.EntityID,
			evt.RequestID,
			evt.IP,
			evt.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
