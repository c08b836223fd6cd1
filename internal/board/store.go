// Package board persists the sprint kanban tasks to a flat JSON file
// shared with the web dashboard.
package board

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Task statuses. Column names match the persisted dashboard format.
const (
	StatusBacklog    = "backlog"
	StatusInProgress = "inprogress"
	StatusBlocked    = "blocked"
	StatusDone       = "done"
)

// ValidStatus reports whether s names a board column.
func ValidStatus(s string) bool {
	switch s {
	case StatusBacklog, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Task is one sprint board card.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee"`
	Status      string     `json:"status"`
	Created     string     `json:"created"`
	Log         []LogEntry `json:"log,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
}

// LogEntry is one work-log line on a task.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Comment is one discussion comment on a task.
type Comment struct {
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// TaskUpdate carries partial field updates; nil fields are left as-is.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Assignee    *string `json:"assignee"`
	Status      *string `json:"status"`
}

// Counts summarizes an assignee's tasks for scoring.
type Counts struct {
	Done       int
	InProgress int
	Blocked    int
	LogEntries int
	Comments   int
}

// ErrNotFound is returned when a task ID does not exist.
var ErrNotFound = fmt.Errorf("task not found")

// Store reads and writes the task file. Operations are whole-file
// read-modify-write; writes are atomic renames so concurrent readers
// never observe a torn file. There is no cross-process lock.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store over the given JSON file. The file does not
// need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// List returns all tasks. A missing file is an empty board.
func (s *Store) List() ([]Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Task{}, nil
		}
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// Create appends a new task with the next free ID.
func (s *Store) Create(title, description, assignee, status string) (Task, error) {
	tasks, err := s.List()
	if err != nil {
		return Task{}, err
	}

	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	if title == "" {
		title = "Untitled"
	}
	if status == "" {
		status = StatusBacklog
	}
	task := Task{
		ID:       maxID + 1,
		Title:    title,
		Assignee: assignee,
		Status:   status,
		Created:  s.now().UTC().Format(time.RFC3339),
	}
	task.Description = description

	tasks = append(tasks, task)
	if err := s.save(tasks); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Update applies a partial update to a task.
func (s *Store) Update(id int, upd TaskUpdate) (Task, error) {
	tasks, err := s.List()
	if err != nil {
		return Task{}, err
	}

	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		if upd.Title != nil {
			tasks[i].Title = *upd.Title
		}
		if upd.Description != nil {
			tasks[i].Description = *upd.Description
		}
		if upd.Assignee != nil {
			tasks[i].Assignee = *upd.Assignee
		}
		if upd.Status != nil {
			tasks[i].Status = *upd.Status
		}
		if err := s.save(tasks); err != nil {
			return Task{}, err
		}
		return tasks[i], nil
	}
	return Task{}, ErrNotFound
}

// Move changes only a task's status column.
func (s *Store) Move(id int, status string) (Task, error) {
	return s.Update(id, TaskUpdate{Status: &status})
}

// Delete removes a task. Deleting an unknown ID is not an error; the
// end state is the same.
func (s *Store) Delete(id int) error {
	tasks, err := s.List()
	if err != nil {
		return err
	}

	kept := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.save(kept)
}

// AddLog appends a work-log entry to a task.
func (s *Store) AddLog(id int, text string) (Task, error) {
	tasks, err := s.List()
	if err != nil {
		return Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Log = append(tasks[i].Log, LogEntry{
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Text:      text,
		})
		if err := s.save(tasks); err != nil {
			return Task{}, err
		}
		return tasks[i], nil
	}
	return Task{}, ErrNotFound
}

// AddComment appends a comment to a task.
func (s *Store) AddComment(id int, author, text string) (Task, error) {
	tasks, err := s.List()
	if err != nil {
		return Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Comments = append(tasks[i].Comments, Comment{
			Author:    author,
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Text:      text,
		})
		if err := s.save(tasks); err != nil {
			return Task{}, err
		}
		return tasks[i], nil
	}
	return Task{}, ErrNotFound
}

// CountsFor tallies an assignee's tasks by status plus their log and
// comment volume, for the leaderboard.
func (s *Store) CountsFor(assignee string) (Counts, error) {
	tasks, err := s.List()
	if err != nil {
		return Counts{}, err
	}
	return CountsIn(tasks, assignee), nil
}

// CountsIn tallies an already-loaded task list, for callers that read the
// board once and score many assignees.
func CountsIn(tasks []Task, assignee string) Counts {
	var c Counts
	for _, t := range tasks {
		if t.Assignee != assignee {
			continue
		}
		switch t.Status {
		case StatusDone:
			c.Done++
		case StatusInProgress:
			c.InProgress++
		case StatusBlocked:
			c.Blocked++
		}
		c.LogEntries += len(t.Log)
		c.Comments += len(t.Comments)
	}
	return c
}

// save writes the full task list atomically.
func (s *Store) save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sprints-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
