package state

import (
	"database/sql"
	"fmt"
	"time"
)

// AuditEntry is one row of the append-only transition audit trail. Every
// Transition call lands here, accepted or rejected, so races and blocker
// chains can be reconstructed after the fact.
type AuditEntry struct {
	ID        int64     `json:"id"`
	TaskID    string    `json:"task_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Accepted  bool      `json:"accepted"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func insertAudit(tx *sql.Tx, taskID, oldStatus, newStatus string, accepted bool, note string) error {
	acceptedInt := 0
	if accepted {
		acceptedInt = 1
	}
	_, err := tx.Exec(`
		INSERT INTO transition_audit (task_id, old_status, new_status, accepted, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, taskID, oldStatus, newStatus, acceptedInt, note, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// RecordNote appends a non-transition event to the audit trail: high-risk
// flags, blocker hand-offs, registry changes. Old and new status both carry
// the task's current status.
func (db *DB) RecordNote(taskID, note string) error {
	return db.Transaction(func(tx *sql.Tx) error {
		status := ""
		if taskID != "" {
			row := tx.QueryRow("SELECT status FROM tasks WHERE id = ?", taskID)
			if err := row.Scan(&status); err != nil {
				if err == sql.ErrNoRows {
					return &TaskNotFoundError{TaskID: taskID}
				}
				return fmt.Errorf("read status: %w", err)
			}
		}
		return insertAudit(tx, taskID, status, status, true, note)
	})
}

// ListAuditByTask returns the audit trail for one task, oldest first.
func (db *DB) ListAuditByTask(taskID string) ([]AuditEntry, error) {
	rows, err := db.Query(`
		SELECT id, task_id, old_status, new_status, accepted, note, created_at
		FROM transition_audit WHERE task_id = ? ORDER BY id
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list audit by task: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// ListAuditSince returns all audit entries recorded at or after the cutoff,
// oldest first.
func (db *DB) ListAuditSince(cutoff time.Time) ([]AuditEntry, error) {
	rows, err := db.Query(`
		SELECT id, task_id, old_status, new_status, accepted, note, created_at
		FROM transition_audit WHERE created_at >= ? ORDER BY id
	`, formatTime(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list audit since: %w", err)
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

func scanAuditEntries(rows *sql.Rows) ([]AuditEntry, error) {
	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var accepted int
		var note sql.NullString
		var createdAt string
		if err := rows.Scan(&e.ID, &e.TaskID, &e.OldStatus, &e.NewStatus, &accepted, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Accepted = accepted != 0
		if note.Valid {
			e.Note = note.String
		}
		e.CreatedAt, _ = parseTime(createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
