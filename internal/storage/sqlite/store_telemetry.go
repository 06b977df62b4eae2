package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/creatureevents/internal/storage"
)

const defaultListLimit = 50

// AppendTelemetryEvent records an operational telemetry event.
func (s *Store) AppendTelemetryEvent(ctx context.Context, evt storage.TelemetryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(evt.EventName) == "" {
		return fmt.Errorf("event name is required")
	}
	if strings.TrimSpace(evt.Severity) == "" {
		return fmt.Errorf("severity is required")
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(evt.AttributesJSON) == 0 && len(evt.Attributes) > 0 {
		payload, err := json.Marshal(evt.Attributes)
		if err != nil {
			return fmt.Errorf("marshal telemetry attributes: %w", err)
		}
		evt.AttributesJSON = payload
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO telemetry_events (
    timestamp, event_name, severity, invocation_id, category,
    hook_name, script_path, code, message, attributes_json
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		toMillis(evt.Timestamp),
		evt.EventName,
		evt.Severity,
		toNullString(evt.InvocationID),
		toNullString(evt.Category),
		toNullString(evt.HookName),
		toNullString(evt.ScriptPath),
		toNullString(evt.Code),
		toNullString(evt.Message),
		evt.AttributesJSON,
	)
	if err != nil {
		return fmt.Errorf("append telemetry event: %w", err)
	}
	return nil
}

// ListTelemetryEvents returns up to limit events, newest first.
func (s *Store) ListTelemetryEvents(ctx context.Context, limit int) ([]storage.TelemetryEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT timestamp, event_name, severity, invocation_id, category,
       hook_name, script_path, code, message, attributes_json
FROM telemetry_events
ORDER BY timestamp DESC, id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list telemetry events: %w", err)
	}
	defer rows.Close()

	var events []storage.TelemetryEvent
	for rows.Next() {
		var (
			ts                                                      int64
			invocationID, category, hookName, scriptPath, code, msg sql.NullString
			evt                                                     storage.TelemetryEvent
		)
		if err := rows.Scan(&ts, &evt.EventName, &evt.Severity, &invocationID, &category,
			&hookName, &scriptPath, &code, &msg, &evt.AttributesJSON); err != nil {
			return nil, fmt.Errorf("scan telemetry event: %w", err)
		}
		evt.Timestamp = fromMillis(ts)
		evt.InvocationID = invocationID.String
		evt.Category = category.String
		evt.HookName = hookName.String
		evt.ScriptPath = scriptPath.String
		evt.Code = code.String
		evt.Message = msg.String
		if len(evt.AttributesJSON) > 0 {
			if err := json.Unmarshal(evt.AttributesJSON, &evt.Attributes); err != nil {
				return nil, fmt.Errorf("decode telemetry attributes: %w", err)
			}
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate telemetry events: %w", err)
	}
	return events, nil
}
