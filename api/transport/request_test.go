package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/domain"
)

func TestCanonicalizeTaskFields(t *testing.T) {
	t.Parallel()

	raw := map[string]json.RawMessage{
		"title":       json.RawMessage(`"a"`),
		"startTime":   json.RawMessage(`"09:00"`),
		"start_time":  json.RawMessage(`"10:00"`),
		"end_time":    json.RawMessage(`"11:00"`),
		"description": json.RawMessage(`"notes"`),
		"priority":    json.RawMessage(`3`),
	}

	got := CanonicalizeTaskFields(raw)

	assert.Equal(t, json.RawMessage(`"09:00"`), got[FieldStartTime], "camelCase wins")
	assert.Equal(t, json.RawMessage(`"11:00"`), got[FieldEndTime])
	assert.Equal(t, json.RawMessage(`"notes"`), got[FieldDesc])
	assert.NotContains(t, got, "priority")
	assert.NotContains(t, got, "startTime")
	assert.Len(t, got, 4)
}

func TestCanonicalizeTaskFields_BlankAliasFallsBack(t *testing.T) {
	t.Parallel()

	got := CanonicalizeTaskFields(map[string]json.RawMessage{
		"startTime":  json.RawMessage(`null`),
		"start_time": json.RawMessage(`"10:00"`),
		"endTime":    json.RawMessage(`""`),
		"end_time":   json.RawMessage(`"11:00"`),
		"desc":       json.RawMessage(`""`),
	})

	assert.Equal(t, json.RawMessage(`"10:00"`), got[FieldStartTime])
	assert.Equal(t, json.RawMessage(`"11:00"`), got[FieldEndTime])
	assert.Equal(t, json.RawMessage(`""`), got[FieldDesc], "a lone blank value is kept")

	in, err := DecodeTaskInput([]byte(`{"title":"a","date":"2025-12-27","startTime":null,"start_time":"10:00","endTime":"","end_time":"11:00"}`))
	require.NoError(t, err)
	assert.Equal(t, "10:00", in.StartTime)
	assert.Equal(t, "11:00", in.EndTime)

	patch, err := DecodeTaskPatch([]byte(`{"startTime":"","start_time":"09:30"}`))
	require.NoError(t, err)
	require.NotNil(t, patch.StartTime)
	assert.Equal(t, "09:30", *patch.StartTime)

	empty, err := DecodeTaskPatch([]byte(`{"endTime":""}`))
	require.NoError(t, err)
	require.NotNil(t, empty.EndTime)
	assert.Equal(t, "", *empty.EndTime)
}

func TestDecodeTaskInput(t *testing.T) {
	t.Parallel()

	in, err := DecodeTaskInput([]byte(`{"title":"a","date":"2025-12-27","startTime":"10:00","endTime":"11:00","desc":"d"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInput{Title: "a", Date: "2025-12-27", StartTime: "10:00", EndTime: "11:00", Desc: "d"}, in)

	snake, err := DecodeTaskInput([]byte(`{"start_time":"10:00","end_time":"11:00"}`))
	require.NoError(t, err)
	assert.Equal(t, "10:00", snake.StartTime)
	assert.Equal(t, "11:00", snake.EndTime)
}

func TestDecodeTaskInput_Rejects(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`not json`, `[1,2]`, `null`, `"x"`} {
		_, err := DecodeTaskInput([]byte(body))
		assert.ErrorIs(t, err, domain.ErrInvalidPayload, body)
	}

	_, err := DecodeTaskInput([]byte(`{"title":5,"date":true}`))
	dErr, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrCodeInvalid, dErr.Code)
	assert.Equal(t, []string{"date must be a string", "title must be a string"}, dErr.Details)
}

func TestDecodeTaskPatch(t *testing.T) {
	t.Parallel()

	patch, err := DecodeTaskPatch([]byte(`{"desc":"x","title":null}`))
	require.NoError(t, err)
	require.NotNil(t, patch.Desc)
	assert.Equal(t, "x", *patch.Desc)
	assert.Nil(t, patch.Title)
	assert.False(t, patch.Reschedules())

	patch, err = DecodeTaskPatch([]byte(`{"endTime":"12:00","end_time":"13:00"}`))
	require.NoError(t, err)
	require.NotNil(t, patch.EndTime)
	assert.Equal(t, "12:00", *patch.EndTime)

	patch, err = DecodeTaskPatch(nil)
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}
