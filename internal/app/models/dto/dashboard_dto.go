package dto

import "github.com/yigit/studentrecords/internal/app/models"

// TopStudentsLimit is the size of the per-course ranking
const TopStudentsLimit = 10

// CourseCount is the number of students enrolled in a course
type CourseCount struct {
	Course string `json:"course"`
	Count  int64  `json:"count"`
}

// GenderBreakdown counts a course's students per gender; every key is always present
type GenderBreakdown struct {
	Male   int64 `json:"Male"`
	Female int64 `json:"Female"`
	Other  int64 `json:"Other"`
}

// CourseStats is one course row of the dashboard aggregation
type CourseStats struct {
	Course string
	Total  int64
	GenderBreakdown
}

// Dashboard is the computed dashboard context
type Dashboard struct {
	TotalStudents     int64
	TotalCourses      int
	HasData           bool
	Courses           []string
	StudentsPerCourse []CourseCount
	GenderPerCourse   map[string]GenderBreakdown
	SelectedCourse    string
	TopStudents       []*models.Student
}
