package domain

import "time"

// Task is the business entity. It carries no framework or storage concerns;
// the repo layer maps it to the tasks table and the dto layer to JSON.
//
// Description is a pointer because the column is nullable: a task created
// without a description serializes as null, not "".
type Task struct {
	ID          int64
	Title       string
	Description *string
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
