package domain

import (
	"regexp"
	"strings"
)

var (
	timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	// Shape only: 2025-02-30 is accepted.
	datePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
)

// Validation messages shared by create and update paths.
const (
	MsgStartTimeFormat = "start_time must be in HH:MM format"
	MsgEndTimeFormat   = "end_time must be in HH:MM format"
	MsgDateFormat      = "date must be in YYYY-MM-DD format"
	MsgTimeOrder       = "end_time must be later than start_time"
	MsgTitleEmpty      = "title must not be empty"
)

// ValidateTime reports whether s is a zero-padded 24h HH:MM value.
func ValidateTime(s string) bool {
	return timePattern.MatchString(s)
}

// ValidateDate reports whether s has the YYYY-MM-DD shape.
func ValidateDate(s string) bool {
	return datePattern.MatchString(s)
}

func missing(field string) string {
	return "missing required field: " + field
}

// ValidateTaskInput checks a create payload and returns all violations.
func ValidateTaskInput(in TaskInput) []string {
	var errs []string

	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"date", in.Date},
		{"start_time", in.StartTime},
		{"end_time", in.EndTime},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, missing(f.name))
		}
	}

	startOK := in.StartTime != "" && ValidateTime(in.StartTime)
	endOK := in.EndTime != "" && ValidateTime(in.EndTime)

	if in.StartTime != "" && !startOK {
		errs = append(errs, MsgStartTimeFormat)
	}
	if in.EndTime != "" && !endOK {
		errs = append(errs, MsgEndTimeFormat)
	}
	if in.Date != "" && !ValidateDate(in.Date) {
		errs = append(errs, MsgDateFormat)
	}
	if startOK && endOK && !(TimeRange{Start: in.StartTime, End: in.EndTime}).Valid() {
		errs = append(errs, MsgTimeOrder)
	}

	return errs
}

// Validate checks the supplied fields of the patch. Ordering is checked
// separately against the merged record by ValidateMerged.
func (p TaskPatch) Validate() []string {
	var errs []string
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs = append(errs, MsgTitleEmpty)
	}
	if p.Date != nil && !ValidateDate(*p.Date) {
		errs = append(errs, MsgDateFormat)
	}
	if p.StartTime != nil && !ValidateTime(*p.StartTime) {
		errs = append(errs, MsgStartTimeFormat)
	}
	if p.EndTime != nil && !ValidateTime(*p.EndTime) {
		errs = append(errs, MsgEndTimeFormat)
	}
	return errs
}

// ValidateMerged checks the ordering invariant on a task after a patch.
func ValidateMerged(t Task) []string {
	if !t.Range().Valid() {
		return []string{MsgTimeOrder}
	}
	return nil
}
