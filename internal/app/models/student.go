package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64   `json:"id" db:"id"`
	FirstName     string  `json:"firstName" db:"first_name"`
	LastName      string  `json:"lastName" db:"last_name"`
	Age           int     `json:"age" db:"age"`
	Gender        Gender  `json:"gender" db:"gender"`
	Course        string  `json:"course" db:"course"`
	Semester      string  `json:"semester" db:"semester"`
	StudentID     string  `json:"studentId" db:"student_id"` // externally meaningful, unique
	ContactNumber *string `json:"contactNumber,omitempty" db:"contact_number"`
	Percentage    float64 `json:"percentage" db:"percentage"`
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// GenderLabel returns Male/Female/Other
func (s *Student) GenderLabel() string {
	return Label(GenderChoices, string(s.Gender))
}

// CourseLabel returns the program name for the course code
func (s *Student) CourseLabel() string {
	return Label(CourseChoices, s.Course)
}

// Contact returns the contact number or an empty string
func (s *Student) Contact() string {
	if s.ContactNumber == nil {
		return ""
	}
	return *s.ContactNumber
}
