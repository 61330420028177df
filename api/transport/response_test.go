package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
)

func decode(t *testing.T, env Envelope) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(env.String()), &out))
	return out
}

func TestEnvelope_TaskListIsAlwaysArray(t *testing.T) {
	t.Parallel()

	out := decode(t, NewTaskList(nil))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []interface{}{}, out["tasks"])
}

func TestEnvelope_SessionHidesPasswordHash(t *testing.T) {
	t.Parallel()

	user := &domain.User{ID: "u1", Username: "alice", Email: "a@example.com", PasswordHash: "$2a$secret"}
	env := NewSession("login successful", "tok", user)

	assert.NotContains(t, env.String(), "$2a$secret")
	out := decode(t, env)
	assert.Equal(t, "tok", out["token"])
	assert.Equal(t, map[string]interface{}{"id": "u1", "username": "alice", "email": "a@example.com"}, out["user"])
}

func TestEnvelope_Conflict(t *testing.T) {
	t.Parallel()

	existing := &domain.Task{ID: "t1", UserID: "u1", Title: "standup", StartTime: "10:00", EndTime: "11:00", Desc: "private"}
	out := decode(t, NewConflict("time slot is already taken by another task", existing))

	assert.Equal(t, false, out["success"])
	assert.Equal(t, map[string]interface{}{
		"id":         "t1",
		"title":      "standup",
		"start_time": "10:00",
		"end_time":   "11:00",
	}, out["conflicting_task"])
}

func TestEnvelope_ErrorOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	out := decode(t, NewError("task not found", nil))
	assert.Equal(t, map[string]interface{}{"success": false, "message": "task not found"}, out)
}
