package dto

import (
	"strconv"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentForm is the add/update student form as submitted. Values stay raw strings so a
// rejected form can be redisplayed exactly as typed.
type StudentForm struct {
	FirstName     string `form:"first_name" validate:"required,max=100"`
	LastName      string `form:"last_name" validate:"required,max=100"`
	Age           string `form:"age" validate:"required,integer"`
	Gender        string `form:"gender" validate:"required,oneof=M F O"`
	Course        string `form:"course" validate:"required,oneof=CE IT CSD AIML AIDS RAI CSE CST CSIT CEA"`
	Semester      string `form:"semester" validate:"required,oneof=1 2 3 4 5 6 7 8"`
	StudentID     string `form:"student_id" validate:"required,max=20"`
	ContactNumber string `form:"contact_number" validate:"max=15"`
	Percentage    string `form:"percentage" validate:"required,percentage"`
}

// Normalize trims surrounding whitespace from every field
func (f *StudentForm) Normalize() {
	for _, p := range []*string{
		&f.FirstName, &f.LastName, &f.Age, &f.Gender, &f.Course,
		&f.Semester, &f.StudentID, &f.ContactNumber, &f.Percentage,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// Validate checks the form and converts it into a Student (without ID)
func (f StudentForm) Validate() (*models.Student, validation.Errors) {
	f.Normalize()
	errs := validation.Struct(f)

	age, err := strconv.ParseInt(f.Age, 10, 32)
	if err != nil && !errs.Has("age") {
		errs.Add("age", "Enter a whole number.")
	}

	percentage, err := strconv.ParseFloat(f.Percentage, 64)
	if err != nil && !errs.Has("percentage") {
		errs.Add("percentage", "Enter a number.")
	}

	if errs.HasErrors() {
		return nil, errs
	}

	student := &models.Student{
		FirstName:  f.FirstName,
		LastName:   f.LastName,
		Age:        int(age),
		Gender:     models.Gender(f.Gender),
		Course:     f.Course,
		Semester:   f.Semester,
		StudentID:  f.StudentID,
		Percentage: percentage,
	}
	if f.ContactNumber != "" {
		contact := f.ContactNumber
		student.ContactNumber = &contact
	}
	return student, nil
}

// NewStudentForm prefills a form from a stored student
func NewStudentForm(s *models.Student) StudentForm {
	return StudentForm{
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Age:           strconv.Itoa(s.Age),
		Gender:        string(s.Gender),
		Course:        s.Course,
		Semester:      s.Semester,
		StudentID:     s.StudentID,
		ContactNumber: s.Contact(),
		Percentage:    strconv.FormatFloat(s.Percentage, 'f', 2, 64),
	}
}

// Sort directions accepted by the student log
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// StudentLogQuery holds the optional student log filters
type StudentLogQuery struct {
	Course string `form:"course"`
	Query  string `form:"q"`
	Sort   string `form:"sort"`
	Page   int    `form:"-"`
}

// Normalize trims the filters and folds unknown sort values into ascending order
func (q *StudentLogQuery) Normalize() {
	q.Course = strings.TrimSpace(q.Course)
	q.Query = strings.TrimSpace(q.Query)
	if strings.ToLower(strings.TrimSpace(q.Sort)) == SortDesc {
		q.Sort = SortDesc
	} else {
		q.Sort = SortAsc
	}
}

// StudentFilter is what the repository needs to select log rows
type StudentFilter struct {
	Course     string
	NameSearch string
	Descending bool
}

// Filter converts the query into a repository filter
func (q StudentLogQuery) Filter() StudentFilter {
	return StudentFilter{
		Course:     q.Course,
		NameSearch: q.Query,
		Descending: q.Sort == SortDesc,
	}
}

// StudentLog is one rendered page of the student log
type StudentLog struct {
	Students   []*models.Student
	Pagination PaginationInfo
	Courses    []string
	Query      StudentLogQuery
}
