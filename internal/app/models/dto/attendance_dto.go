package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// AttendanceForm is the attendance form as submitted.
// There is no percentage field: it is always derived from the day counts.
type AttendanceForm struct {
	Student     string `form:"student" validate:"required,integer"`
	DaysPresent string `form:"days_present" validate:"required,integer"`
	DaysAbsent  string `form:"days_absent" validate:"required,integer"`
}

// NewAttendanceForm returns the blank form with both day counts at 0
func NewAttendanceForm() AttendanceForm {
	return AttendanceForm{DaysPresent: "0", DaysAbsent: "0"}
}

// AttendanceInput is the validated attendance form
type AttendanceInput struct {
	StudentID   int64
	DaysPresent int
	DaysAbsent  int
}

// Validate checks the form; every field is required
func (f AttendanceForm) Validate() (*AttendanceInput, validation.Errors) {
	f.Student = strings.TrimSpace(f.Student)
	f.DaysPresent = strings.TrimSpace(f.DaysPresent)
	f.DaysAbsent = strings.TrimSpace(f.DaysAbsent)

	errs := validation.Struct(f)
	if errs.HasErrors() {
		return nil, errs
	}

	in := &AttendanceInput{}
	var err error
	if in.StudentID, err = strconv.ParseInt(f.Student, 10, 64); err != nil || in.StudentID <= 0 {
		errs.Add("student", "Select a valid choice. That choice is not one of the available choices.")
	}
	if in.DaysPresent, err = parseCount(f.DaysPresent); err != nil {
		errs.Add("days_present", "Enter a whole number.")
	}
	if in.DaysAbsent, err = parseCount(f.DaysAbsent); err != nil {
		errs.Add("days_absent", "Enter a whole number.")
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return in, nil
}

func parseCount(raw string) (int, error) {
	n, err := strconv.ParseInt(raw, 10, 32)
	return int(n), err
}
