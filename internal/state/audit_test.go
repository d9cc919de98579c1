package state

import (
	"testing"
	"time"

	"github.com/steward-sh/steward/pkg/models"
)

func TestAuditTrailRecordsTransitions(t *testing.T) {
	db := setupTestDB(t)
	task := newTestTask(t, db)

	mustTransition(t, db, task.ID, models.TaskStatusTodo, models.TaskStatusInProgress)

	// A rejected attempt must be recorded too.
	if ok, _, err := db.Transition(task.ID, models.TaskStatusTodo, models.TaskStatusInProgress); ok || err != nil {
		t.Fatalf("expected clean rejection, ok=%v err=%v", ok, err)
	}

	mustTransition(t, db, task.ID, models.TaskStatusInProgress, models.TaskStatusCompleted)

	entries, err := db.ListAuditByTask(task.ID)
	if err != nil {
		t.Fatalf("ListAuditByTask failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("audit has %d entries, want 3", len(entries))
	}

	if !entries[0].Accepted || entries[0].OldStatus != "todo" || entries[0].NewStatus != "in_progress" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Accepted {
		t.Errorf("entry 1 should be rejected: %+v", entries[1])
	}
	if !entries[2].Accepted || entries[2].NewStatus != "completed" {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestRecordNote(t *testing.T) {
	db := setupTestDB(t)
	task := newTestTask(t, db)

	if err := db.RecordNote(task.ID, "high-risk: complexity 8"); err != nil {
		t.Fatalf("RecordNote failed: %v", err)
	}

	entries, err := db.ListAuditByTask(task.ID)
	if err != nil {
		t.Fatalf("ListAuditByTask failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit has %d entries, want 1", len(entries))
	}
	if entries[0].Note != "high-risk: complexity 8" {
		t.Errorf("note = %q", entries[0].Note)
	}
	if entries[0].OldStatus != entries[0].NewStatus {
		t.Errorf("note entry should not describe a status change: %+v", entries[0])
	}

	if err := db.RecordNote("missing", "x"); err == nil {
		t.Error("expected error for unknown task")
	}
}

func TestRecordNoteWithoutTask(t *testing.T) {
	db := setupTestDB(t)

	// System-level events (e.g. registry changes) have no task.
	if err := db.RecordNote("", "registry file changed; restart required"); err != nil {
		t.Fatalf("RecordNote failed: %v", err)
	}

	entries, err := db.ListAuditSince(time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ListAuditSince failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit has %d entries, want 1", len(entries))
	}
	if entries[0].TaskID != "" {
		t.Errorf("task id = %q, want empty", entries[0].TaskID)
	}
}

func TestListAuditSince(t *testing.T) {
	db := setupTestDB(t)
	task := newTestTask(t, db)
	mustTransition(t, db, task.ID, models.TaskStatusTodo, models.TaskStatusInProgress)

	entries, err := db.ListAuditSince(time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ListAuditSince failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("recent entries = %d, want 1", len(entries))
	}

	entries, err = db.ListAuditSince(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListAuditSince failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("future cutoff returned %d entries, want 0", len(entries))
	}
}
