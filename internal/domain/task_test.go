package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestNewTask(t *testing.T) {
	t.Parallel()

	desc := "wait for it to expire first"
	task, err := NewTask("buy milk", &desc)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "buy milk" {
		t.Errorf("Expected title %q, got %q", "buy milk", task.Title)
	}

	if task.Description == nil || *task.Description != desc {
		t.Errorf("Expected description %q, got %v", desc, task.Description)
	}

	if task.Completed {
		t.Error("Expected new task to not be completed")
	}

	// Description is optional and absent is distinct from empty
	task, err = NewTask("buy milk", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if task.Description != nil {
		t.Errorf("Expected nil description, got %v", *task.Description)
	}

	// Empty and whitespace-only titles are rejected
	if _, err = NewTask("", nil); err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}
	if _, err = NewTask("   ", nil); err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	validTask := Task{
		ID:        1,
		Title:     "write report",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := validTask.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalidTask := validTask
	invalidTask.ID = 0
	if err := invalidTask.Validate(); err != ErrInvalidTaskID {
		t.Errorf("Expected error %v, got %v", ErrInvalidTaskID, err)
	}

	invalidTask = validTask
	invalidTask.Title = ""
	if err := invalidTask.Validate(); err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}

	invalidTask = validTask
	invalidTask.UpdatedAt = now.Add(-time.Hour)
	if err := invalidTask.Validate(); err != ErrTimestampsSkewed {
		t.Errorf("Expected error %v, got %v", ErrTimestampsSkewed, err)
	}
}

func TestTaskPatchValidate(t *testing.T) {
	t.Parallel()

	// A patch with no title supplied never fails title validation
	if err := (TaskPatch{Completed: boolPtr(true)}).Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// A supplied-but-empty title is rejected
	if err := (TaskPatch{Title: strPtr("")}).Validate(); err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}

	if err := (TaskPatch{Title: strPtr("  ")}).Validate(); err != ErrEmptyTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyTitle, err)
	}
}

func TestTaskPatchApply(t *testing.T) {
	t.Parallel()

	desc := "original"
	task := Task{
		ID:          7,
		Title:       "original title",
		Description: &desc,
		Completed:   false,
	}

	// Only supplied fields change
	patch := TaskPatch{Completed: boolPtr(true)}
	patch.Apply(&task)

	if task.Title != "original title" {
		t.Errorf("Expected title unchanged, got %q", task.Title)
	}
	if task.Description == nil || *task.Description != "original" {
		t.Errorf("Expected description unchanged, got %v", task.Description)
	}
	if !task.Completed {
		t.Error("Expected completed to be set")
	}

	// A full patch replaces everything supplied
	patch = TaskPatch{
		Title:       strPtr("new title"),
		Description: strPtr(""),
		Completed:   boolPtr(false),
	}
	patch.Apply(&task)

	if task.Title != "new title" {
		t.Errorf("Expected title %q, got %q", "new title", task.Title)
	}
	if task.Description == nil || *task.Description != "" {
		t.Errorf("Expected empty description, got %v", task.Description)
	}
	if task.Completed {
		t.Error("Expected completed to be cleared")
	}
}

func TestTaskPatchIsEmpty(t *testing.T) {
	t.Parallel()

	if !(TaskPatch{}).IsEmpty() {
		t.Error("Expected empty patch to report IsEmpty")
	}
	if (TaskPatch{Completed: boolPtr(false)}).IsEmpty() {
		t.Error("Expected non-empty patch to not report IsEmpty")
	}
}
