package domain

import "time"

// Task is a user-owned calendar entry occupying [StartTime, EndTime) on Date.
type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Desc      string    `json:"desc"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Range returns the half-open time range the task occupies.
func (t *Task) Range() TimeRange {
	if t == nil {
		return TimeRange{}
	}
	return TimeRange{Start: t.StartTime, End: t.EndTime}
}

// OwnedBy reports whether the task belongs to userID.
func (t *Task) OwnedBy(userID string) bool {
	return t != nil && userID != "" && t.UserID == userID
}

// Summary is the compact form reported alongside a scheduling conflict.
func (t *Task) Summary() TaskSummary {
	if t == nil {
		return TaskSummary{}
	}
	return TaskSummary{ID: t.ID, Title: t.Title, StartTime: t.StartTime, EndTime: t.EndTime}
}

// TaskSummary identifies a conflicting task without its full payload.
type TaskSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// TimeRange is a half-open [Start, End) interval of zero-padded HH:MM values.
// Fixed-width values order lexicographically the same way they order in time.
type TimeRange struct {
	Start string
	End   string
}

// Valid reports whether Start strictly precedes End.
func (r TimeRange) Valid() bool {
	return r.Start < r.End
}

// Overlaps reports whether r and other share any instant. Touching ranges
// such as [10:00,11:00) and [11:00,12:00) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}

// TaskInput is the canonicalized payload of a create request.
type TaskInput struct {
	Title     string
	Date      string
	StartTime string
	EndTime   string
	Desc      string
}

// Validate returns every violation found in the input; nil means valid.
func (in TaskInput) Validate() []string {
	return ValidateTaskInput(in)
}

// NewTask builds an unsaved task for userID from a validated input.
func (in TaskInput) NewTask(userID string) *Task {
	return &Task{
		UserID:    userID,
		Title:     in.Title,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Desc:      in.Desc,
	}
}

// TaskPatch carries the fields supplied on an update. Nil fields keep the
// stored value.
type TaskPatch struct {
	Title     *string
	Date      *string
	StartTime *string
	EndTime   *string
	Desc      *string
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Date == nil && p.StartTime == nil && p.EndTime == nil && p.Desc == nil
}

// Reschedules reports whether applying the patch may move the task in time.
func (p TaskPatch) Reschedules() bool {
	return p.Date != nil || p.StartTime != nil || p.EndTime != nil
}

// Apply returns a copy of t with the patch merged in. t is left untouched.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.StartTime != nil {
		t.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		t.EndTime = *p.EndTime
	}
	if p.Desc != nil {
		t.Desc = *p.Desc
	}
	return t
}
