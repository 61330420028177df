package transport

import (
	"bytes"
	"encoding/json"

	"github.com/fastygo/planner/domain"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Canonical task field names.
const (
	FieldTitle     = "title"
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldDesc      = "desc"
)

// taskFieldAliases lists the accepted keys per canonical field, most
// preferred first.
var taskFieldAliases = []struct {
	canonical string
	keys      []string
}{
	{FieldTitle, []string{"title"}},
	{FieldDate, []string{"date"}},
	{FieldStartTime, []string{"startTime", "start_time"}},
	{FieldEndTime, []string{"endTime", "end_time"}},
	{FieldDesc, []string{"desc", "description"}},
}

// CanonicalizeTaskFields maps every accepted alias onto its canonical name.
// When several aliases of one field are present the camelCase key wins,
// unless its value is null or empty and a later alias carries one.
// Unknown keys are dropped.
func CanonicalizeTaskFields(raw map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(taskFieldAliases))
	for _, field := range taskFieldAliases {
		for _, key := range field.keys {
			value, ok := raw[key]
			if !ok {
				continue
			}
			if _, seen := out[field.canonical]; !seen || isBlank(out[field.canonical]) {
				out[field.canonical] = value
			}
			if !isBlank(value) {
				break
			}
		}
	}
	return out
}

func isBlank(value json.RawMessage) bool {
	value = bytes.TrimSpace(value)
	return len(value) == 0 || bytes.Equal(value, []byte("null")) || bytes.Equal(value, []byte(`""`))
}

// DecodeTaskInput parses a create payload.
func DecodeTaskInput(body []byte) (domain.TaskInput, error) {
	fields, err := decodeTaskFields(body)
	if err != nil {
		return domain.TaskInput{}, err
	}

	var in domain.TaskInput
	for name, value := range fields {
		if value == nil {
			continue
		}
		switch name {
		case FieldTitle:
			in.Title = *value
		case FieldDate:
			in.Date = *value
		case FieldStartTime:
			in.StartTime = *value
		case FieldEndTime:
			in.EndTime = *value
		case FieldDesc:
			in.Desc = *value
		}
	}
	return in, nil
}

// DecodeTaskPatch parses an update payload. Absent and null fields are left
// unset.
func DecodeTaskPatch(body []byte) (domain.TaskPatch, error) {
	fields, err := decodeTaskFields(body)
	if err != nil {
		return domain.TaskPatch{}, err
	}
	return domain.TaskPatch{
		Title:     fields[FieldTitle],
		Date:      fields[FieldDate],
		StartTime: fields[FieldStartTime],
		EndTime:   fields[FieldEndTime],
		Desc:      fields[FieldDesc],
	}, nil
}

func decodeTaskFields(body []byte) (map[string]*string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return map[string]*string{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, domain.ErrInvalidPayload
	}

	fields := make(map[string]*string)
	var details []string
	for name, value := range CanonicalizeTaskFields(raw) {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}

		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			details = append(details, name+" must be a string")
			continue
		}
		fields[name] = &s
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError("validation failed", sortedDetails(details))
	}
	return fields, nil
}
