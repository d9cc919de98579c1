package models

import "testing"

func TestTaskStatusValid(t *testing.T) {
	valid := []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusBlocked, TaskStatusCompleted, TaskStatusRefused}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if TaskStatus("pending").Valid() {
		t.Error("status 'pending' should not be valid")
	}
	if TaskStatus("").Valid() {
		t.Error("empty status should not be valid")
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		terminal bool
	}{
		{TaskStatusTodo, false},
		{TaskStatusInProgress, false},
		{TaskStatusBlocked, true},
		{TaskStatusCompleted, true},
		{TaskStatusRefused, true},
	}
	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestTaskStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		ok       bool
	}{
		{TaskStatusTodo, TaskStatusInProgress, true},
		{TaskStatusTodo, TaskStatusRefused, true},
		{TaskStatusTodo, TaskStatusCompleted, false},
		{TaskStatusTodo, TaskStatusBlocked, false},
		{TaskStatusInProgress, TaskStatusCompleted, true},
		{TaskStatusInProgress, TaskStatusBlocked, true},
		{TaskStatusInProgress, TaskStatusRefused, true},
		{TaskStatusInProgress, TaskStatusTodo, false},
		{TaskStatusCompleted, TaskStatusInProgress, false},
		{TaskStatusCompleted, TaskStatusCompleted, false},
		{TaskStatusBlocked, TaskStatusCompleted, false},
		{TaskStatusRefused, TaskStatusTodo, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}
