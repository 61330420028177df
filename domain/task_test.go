package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeRange_Overlaps(t *testing.T) {
	t.Parallel()

	existing := TimeRange{Start: "10:00", End: "11:00"}

	tests := []struct {
		name     string
		proposed TimeRange
		want     bool
	}{
		{"contained", TimeRange{"10:30", "10:45"}, true},
		{"touching after", TimeRange{"11:00", "12:00"}, false},
		{"touching before", TimeRange{"09:00", "10:00"}, false},
		{"partial start", TimeRange{"09:30", "10:30"}, true},
		{"partial end", TimeRange{"10:59", "11:30"}, true},
		{"enclosing", TimeRange{"08:00", "12:00"}, true},
		{"identical", TimeRange{"10:00", "11:00"}, true},
		{"disjoint", TimeRange{"13:00", "14:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, existing.Overlaps(tt.proposed))
			assert.Equal(t, tt.want, tt.proposed.Overlaps(existing), "overlap must be symmetric")
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	t.Parallel()

	original := Task{
		ID:        "t1",
		UserID:    "u1",
		Title:     "review",
		Date:      "2025-12-27",
		StartTime: "10:00",
		EndTime:   "11:00",
		Desc:      "old",
	}
	desc := "x"

	patch := TaskPatch{Desc: &desc}
	merged := patch.Apply(original)

	assert.Equal(t, "x", merged.Desc)
	assert.Equal(t, original.Title, merged.Title)
	assert.Equal(t, original.Date, merged.Date)
	assert.Equal(t, original.StartTime, merged.StartTime)
	assert.Equal(t, original.EndTime, merged.EndTime)
	assert.Equal(t, "old", original.Desc)
	assert.False(t, patch.Reschedules())
	assert.False(t, patch.Empty())
}

func TestTaskPatch_Reschedules(t *testing.T) {
	t.Parallel()

	start := "09:00"
	assert.True(t, TaskPatch{StartTime: &start}.Reschedules())
	assert.True(t, TaskPatch{}.Empty())
}

func TestTask_OwnedBy(t *testing.T) {
	t.Parallel()

	task := &Task{UserID: "u1"}
	assert.True(t, task.OwnedBy("u1"))
	assert.False(t, task.OwnedBy("u2"))
	assert.False(t, task.OwnedBy(""))

	var nilTask *Task
	assert.False(t, nilTask.OwnedBy("u1"))
}

func TestError_Classification(t *testing.T) {
	t.Parallel()

	err := WrapError(ErrCodeInternal, "save task", assert.AnError)
	assert.True(t, IsDomainError(err, ErrCodeInternal))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, "save task: "+assert.AnError.Error(), err.Error())

	conflict := NewConflictError(&Task{ID: "t9"})
	dErr, ok := AsError(conflict)
	assert.True(t, ok)
	assert.Equal(t, "t9", dErr.Conflict.ID)
}
