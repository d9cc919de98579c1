package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/steward-sh/steward/pkg/models"
)

// CreateTask inserts a new task. The task must carry a project id and a
// non-empty scope; a task without a bounded scope is never created. When the
// id is empty one is assigned. Status defaults to todo and may not be
// anything else at creation. A parent reference must name an existing task
// in the same project.
func (db *DB) CreateTask(t *models.Task) error {
	if t.ProjectID == "" {
		return fmt.Errorf("create task: project_id is required")
	}
	if t.Domain == "" {
		return fmt.Errorf("create task: domain is required")
	}
	if len(t.Scope) == 0 {
		return fmt.Errorf("create task: scope must not be empty")
	}
	for _, s := range t.Scope {
		if s == "" {
			return fmt.Errorf("create task: scope contains an empty prefix")
		}
	}
	if t.Status == "" {
		t.Status = models.TaskStatusTodo
	}
	if t.Status != models.TaskStatusTodo {
		return fmt.Errorf("create task: new tasks start as todo, got %s", t.Status)
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	if t.ParentTaskID != "" {
		parent, err := db.GetTask(t.ParentTaskID)
		if err != nil {
			return err
		}
		if parent == nil {
			return fmt.Errorf("create task: parent task %s does not exist", t.ParentTaskID)
		}
		if parent.ProjectID != t.ProjectID {
			return fmt.Errorf("create task: parent task %s belongs to project %s, not %s",
				t.ParentTaskID, parent.ProjectID, t.ProjectID)
		}
	}

	scopeJSON, _ := json.Marshal(t.Scope)

	_, err := db.Exec(`
		INSERT INTO tasks (id, project_id, parent_task_id, domain, scope, status, description, complexity_score, result_summary, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ProjectID, nullString(t.ParentTaskID), t.Domain, string(scopeJSON), string(t.Status), t.Description, t.ComplexityScore, t.ResultSummary, formatTime(t.CreatedAt), nil)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id. Returns nil without error when no task
// exists with that id.
func (db *DB) GetTask(id string) (*models.Task, error) {
	row := db.QueryRow(`
		SELECT id, project_id, parent_task_id, domain, scope, status, description, complexity_score, result_summary, created_at, completed_at
		FROM tasks WHERE id = ?
	`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Transition atomically moves a task from expected to next. It succeeds only
// when the stored status equals expected and the move follows the task state
// machine; otherwise nothing changes and the stored status is returned so
// callers can detect the race. Every attempt, accepted or rejected, lands in
// the audit trail.
func (db *DB) Transition(id string, expected, next models.TaskStatus) (bool, models.TaskStatus, error) {
	return db.TransitionWithSummary(id, expected, next, "")
}

// TransitionWithSummary is Transition carrying a result summary, which is
// stored only when the transition lands on a terminal status.
func (db *DB) TransitionWithSummary(id string, expected, next models.TaskStatus, summary string) (bool, models.TaskStatus, error) {
	if !next.Valid() {
		return false, "", fmt.Errorf("transition: unknown status %q", next)
	}

	var ok bool
	var current models.TaskStatus

	err := db.Transaction(func(tx *sql.Tx) error {
		var stored string
		row := tx.QueryRow("SELECT status FROM tasks WHERE id = ?", id)
		if err := row.Scan(&stored); err != nil {
			if err == sql.ErrNoRows {
				return &TaskNotFoundError{TaskID: id}
			}
			return fmt.Errorf("read status: %w", err)
		}
		current = models.TaskStatus(stored)

		accepted := current == expected && current.CanTransitionTo(next)
		if accepted {
			if next.Terminal() {
				var summaryArg any
				if summary != "" {
					summaryArg = summary
				}
				_, err := tx.Exec(`
					UPDATE tasks SET status = ?, completed_at = ?,
						result_summary = COALESCE(?, result_summary)
					WHERE id = ?
				`, string(next), formatTime(time.Now()), summaryArg, id)
				if err != nil {
					return fmt.Errorf("apply transition: %w", err)
				}
			} else {
				if _, err := tx.Exec("UPDATE tasks SET status = ? WHERE id = ?", string(next), id); err != nil {
					return fmt.Errorf("apply transition: %w", err)
				}
			}
			current = next
		}

		if err := insertAudit(tx, id, stored, string(next), accepted, ""); err != nil {
			return err
		}

		ok = accepted
		return nil
	})
	if err != nil {
		return false, current, err
	}
	return ok, current, nil
}

// SetComplexity records the complexity score computed during the Analyze
// phase. Only an in-progress task can receive a score, and only once.
func (db *DB) SetComplexity(id string, score int) error {
	result, err := db.Exec(`
		UPDATE tasks SET complexity_score = ?
		WHERE id = ? AND status = ? AND complexity_score IS NULL
	`, score, id, string(models.TaskStatusInProgress))
	if err != nil {
		return fmt.Errorf("set complexity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set complexity: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("set complexity: task %s is not in progress or already scored", id)
	}
	return nil
}

// AppendResultSummary appends a line to a task's result summary. Workers use
// this to record blocker hand-offs and skipped work before the terminal
// transition.
func (db *DB) AppendResultSummary(id, line string) error {
	result, err := db.Exec(`
		UPDATE tasks SET result_summary = CASE
			WHEN result_summary IS NULL OR result_summary = '' THEN ?
			ELSE result_summary || char(10) || ?
		END
		WHERE id = ?
	`, line, line, id)
	if err != nil {
		return fmt.Errorf("append result summary: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("append result summary: %w", err)
	}
	if n == 0 {
		return &TaskNotFoundError{TaskID: id}
	}
	return nil
}

// ListTasks lists all tasks, optionally filtered by status, oldest first.
func (db *DB) ListTasks(status *models.TaskStatus) ([]models.Task, error) {
	var rows *sql.Rows
	var err error

	if status != nil {
		rows, err = db.Query(`
			SELECT id, project_id, parent_task_id, domain, scope, status, description, complexity_score, result_summary, created_at, completed_at
			FROM tasks WHERE status = ? ORDER BY created_at
		`, string(*status))
	} else {
		rows, err = db.Query(`
			SELECT id, project_id, parent_task_id, domain, scope, status, description, complexity_score, result_summary, created_at, completed_at
			FROM tasks ORDER BY created_at
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListTasksByProject lists all tasks for a project, oldest first.
func (db *DB) ListTasksByProject(projectID string) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, project_id, parent_task_id, domain, scope, status, description, complexity_score, result_summary, created_at, completed_at
		FROM tasks WHERE project_id = ? ORDER BY created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by project: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

// ListTasksByParent lists the blocker tasks spawned by a given task.
func (db *DB) ListTasksByParent(parentID string) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, project_id, parent_task_id, domain, scope, status, description, complexity_score, result_summary, created_at, completed_at
		FROM tasks WHERE parent_task_id = ? ORDER BY created_at
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list tasks by parent: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var parentID, description, resultSummary sql.NullString
	var scopeJSON, createdAt string
	var completedAt sql.NullString
	var complexity sql.NullInt64

	err := row.Scan(&t.ID, &t.ProjectID, &parentID, &t.Domain, &scopeJSON, &t.Status,
		&description, &complexity, &resultSummary, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		t.ParentTaskID = parentID.String
	}
	if description.Valid {
		t.Description = description.String
	}
	if resultSummary.Valid {
		t.ResultSummary = resultSummary.String
	}
	if complexity.Valid {
		score := int(complexity.Int64)
		t.ComplexityScore = &score
	}
	if err := json.Unmarshal([]byte(scopeJSON), &t.Scope); err != nil {
		return nil, fmt.Errorf("decode scope for task %s: %w", t.ID, err)
	}
	t.CreatedAt, _ = parseTime(createdAt)
	t.CompletedAt = parseNullableTime(completedAt)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
