package model

// Task is the domain model for a tracked task.
// Title is fixed at creation; only Completed changes afterwards.
type Task struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}
