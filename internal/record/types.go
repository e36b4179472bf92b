// Package record holds each owner's attendance record for the current day.
//
// The Store is the single owner of every DailyRecord. Callers receive value
// copies; the only way to change a record is through Store methods, which
// serialize per owner id so two events from the same user cannot interleave
// their read-modify-write while different users proceed in parallel.
package record

import "fmt"

// Field names one of the four time stamps in a DailyRecord.
type Field string

const (
	// FieldIn is the start of the working day
	FieldIn Field = "in"

	// FieldLunch is the start of the lunch break
	FieldLunch Field = "lunch"

	// FieldResume is the end of the lunch break
	FieldResume Field = "resume"

	// FieldOut is the end of the working day; writing it locks the record
	FieldOut Field = "out"
)

// Fields lists the time fields in display order.
var Fields = []Field{FieldIn, FieldLunch, FieldResume, FieldOut}

// Validate checks if the Field is a valid enum value.
func (f Field) Validate() error {
	switch f {
	case FieldIn, FieldLunch, FieldResume, FieldOut:
		return nil
	default:
		return fmt.Errorf("unknown record field: %q", f)
	}
}

// DailyRecord is one owner's time log for one calendar day.
// An empty stamp means the field has not been logged.
type DailyRecord struct {
	OwnerID string `json:"owner_id"`
	DayKey  string `json:"day_key"`
	In      string `json:"in,omitempty"`
	Lunch   string `json:"lunch,omitempty"`
	Resume  string `json:"resume,omitempty"`
	Out     string `json:"out,omitempty"`
	Locked  bool   `json:"locked"`
}

// Get returns the stamp stored for f, or "" if unset.
func (r DailyRecord) Get(f Field) string {
	switch f {
	case FieldIn:
		return r.In
	case FieldLunch:
		return r.Lunch
	case FieldResume:
		return r.Resume
	case FieldOut:
		return r.Out
	}
	return ""
}

// IsSet reports whether f has been logged.
func (r DailyRecord) IsSet(f Field) bool {
	return r.Get(f) != ""
}

// IsEmpty reports whether no field has been logged yet.
func (r DailyRecord) IsEmpty() bool {
	return r.In == "" && r.Lunch == "" && r.Resume == "" && r.Out == ""
}

func (r *DailyRecord) set(f Field, value string) {
	switch f {
	case FieldIn:
		r.In = value
	case FieldLunch:
		r.Lunch = value
	case FieldResume:
		r.Resume = value
	case FieldOut:
		r.Out = value
	}
}
