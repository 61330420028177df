package transport

import (
	"encoding/json"
	"sort"

	"github.com/fastygo/planner/domain"
)

// Envelope is the response body of every API call. Success is always
// present; failures carry Message and, for validation errors, Errors.
type Envelope struct {
	Success         bool                `json:"success"`
	Message         string              `json:"message,omitempty"`
	Errors          []string            `json:"errors,omitempty"`
	Token           string              `json:"token,omitempty"`
	User            *domain.PublicUser  `json:"user,omitempty"`
	Task            *domain.Task        `json:"task,omitempty"`
	Tasks           *[]domain.Task      `json:"tasks,omitempty"`
	DeletedTaskID   string              `json:"deleted_task_id,omitempty"`
	ConflictingTask *domain.TaskSummary `json:"conflicting_task,omitempty"`
}

// NewSuccess returns an empty success envelope.
func NewSuccess(message string) Envelope {
	return Envelope{Success: true, Message: message}
}

// NewError returns a failure envelope.
func NewError(message string, errs []string) Envelope {
	return Envelope{Success: false, Message: message, Errors: errs}
}

// NewSession is returned by register and login.
func NewSession(message, token string, user *domain.User) Envelope {
	env := NewSuccess(message)
	env.Token = token
	env.User = publicUser(user)
	return env
}

func NewUser(user *domain.User) Envelope {
	env := NewSuccess("")
	env.User = publicUser(user)
	return env
}

func NewTask(message string, task *domain.Task) Envelope {
	env := NewSuccess(message)
	env.Task = task
	return env
}

// NewTaskList always renders a tasks array, empty included.
func NewTaskList(tasks []domain.Task) Envelope {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	env := NewSuccess("")
	env.Tasks = &tasks
	return env
}

func NewDeleted(id string) Envelope {
	env := NewSuccess("task deleted")
	env.DeletedTaskID = id
	return env
}

// NewConflict reports the task already occupying the requested slot.
func NewConflict(message string, existing *domain.Task) Envelope {
	env := NewError(message, nil)
	if existing != nil {
		summary := existing.Summary()
		env.ConflictingTask = &summary
	}
	return env
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

func publicUser(user *domain.User) *domain.PublicUser {
	if user == nil {
		return nil
	}
	public := user.Public()
	return &public
}

func sortedDetails(details []string) []string {
	sort.Strings(details)
	return details
}
