package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/taskhive/hive/internal/task"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Load() on missing file = %d tasks, want 0", len(tasks))
	}
}

func TestLoadCorruptedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	s := New(path)
	if _, err := s.Load(); err == nil {
		t.Error("Load() on corrupted file returned nil error, want parse error")
	}
}

func TestAddUpdateGetDelete(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))

	tk := task.New("Add login", "Implement OAuth")
	if err := s.Add(tk); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := s.Get(tk.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil || got.ID != tk.ID {
		t.Fatalf("Get(%q) = %v, want matching task", tk.ID, got)
	}

	got.Title = "Add login (renamed)"
	if err := s.Update(got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	reloaded, _ := s.Get(tk.ID)
	if reloaded.Title != "Add login (renamed)" {
		t.Errorf("Update() did not persist, got title %q", reloaded.Title)
	}

	if err := s.Delete(tk.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	afterDelete, _ := s.Get(tk.ID)
	if afterDelete != nil {
		t.Error("Get() after Delete() returned a task, want nil")
	}
}

func TestUpdateAbsentIsNoOp(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))
	tk := task.New("ghost", "")
	if err := s.Update(tk); err != nil {
		t.Fatalf("Update() on empty store error = %v", err)
	}
	tasks, _ := s.Load()
	if len(tasks) != 0 {
		t.Errorf("Update() on absent task created %d tasks, want 0", len(tasks))
	}
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))
	if err := s.Add(task.New("keep", "")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("task-doesnotexist"); err != nil {
		t.Fatalf("Delete() on absent id error = %v", err)
	}
	tasks, _ := s.Load()
	if len(tasks) != 1 {
		t.Errorf("Delete() on absent id changed collection size to %d, want 1", len(tasks))
	}
}

func TestGetByStatus(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))

	a := task.New("a", "")
	b := task.New("b", "")
	b.SetStatus(task.StatusInProgress)

	if err := s.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(b); err != nil {
		t.Fatal(err)
	}

	inProgress, err := s.GetByStatus(task.StatusInProgress)
	if err != nil {
		t.Fatalf("GetByStatus() error = %v", err)
	}
	if len(inProgress) != 1 || inProgress[0].ID != b.ID {
		t.Errorf("GetByStatus(InProgress) = %v, want [%s]", inProgress, b.ID)
	}
}

func TestSaveLoadRoundTripPreservesOrder(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if err := s.Add(task.New(title, "")); err != nil {
			t.Fatal(err)
		}
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(tasks) != len(titles) {
		t.Fatalf("Load() = %d tasks, want %d", len(tasks), len(titles))
	}
	for i, title := range titles {
		if tasks[i].Title != title {
			t.Errorf("tasks[%d].Title = %q, want %q (order not preserved)", i, tasks[i].Title, title)
		}
	}
}

func TestUnicodeRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "tasks.json"))
	tk := task.New("日本語のタイトル", "emoji description 🎉 and ümlaut")
	if err := s.Add(tk); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(tk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != tk.Title || got.Description != tk.Description {
		t.Errorf("unicode round trip mismatch: got %+v, want %+v", got, tk)
	}
}
