package models

// Attendance defines one attendance record of a student ('attendance' table).
// AttendancePercentage is derived from the day counts and recomputed on every write.
type Attendance struct {
	ID                   int64   `json:"id" db:"id"`
	StudentID            int64   `json:"studentId" db:"student_id"` // students.id, not Student.StudentID
	DaysPresent          int     `json:"daysPresent" db:"days_present"`
	DaysAbsent           int     `json:"daysAbsent" db:"days_absent"`
	AttendancePercentage float64 `json:"attendancePercentage" db:"attendance_percentage"`

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
}

// NewAttendance builds a record with its percentage already derived
func NewAttendance(studentID int64, daysPresent, daysAbsent int) *Attendance {
	a := &Attendance{
		StudentID:   studentID,
		DaysPresent: daysPresent,
		DaysAbsent:  daysAbsent,
	}
	a.Recompute()
	return a
}

// Recompute overwrites AttendancePercentage from the day counts
func (a *Attendance) Recompute() {
	a.AttendancePercentage = AttendancePercentage(a.DaysPresent, a.DaysAbsent)
}

// TotalDays is present plus absent days
func (a *Attendance) TotalDays() int {
	return a.DaysPresent + a.DaysAbsent
}

// Precision of the attendance_percentage NUMERIC(5,2) column
const (
	percentageDigits = 5
	percentagePlaces = 2
)

// AttendancePercentage returns present/(present+absent)*100 as the percentage
// column stores it, or 0 when there are no days at all. Ties round half to even,
// so 17 of 32 days is 53.12. Negative counts are not rejected.
func AttendancePercentage(daysPresent, daysAbsent int) float64 {
	total := daysPresent + daysAbsent
	if total <= 0 {
		return 0
	}
	pct := float64(daysPresent) / float64(total) * 100
	return quantizeDecimal(pct, percentageDigits, percentagePlaces)
}
