package services

import (
	"context"
	"strings"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// DashboardService computes the dashboard aggregates
type DashboardService interface {
	Summary(ctx context.Context, course string) (*dto.Dashboard, error)
}

type dashboardServiceImpl struct {
	studentRepo repositories.IStudentRepository
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(studentRepo repositories.IStudentRepository) DashboardService {
	return &dashboardServiceImpl{studentRepo: studentRepo}
}

// Summary aggregates every student. With an empty course the first course
// in code order is selected for the top students ranking.
func (s *dashboardServiceImpl) Summary(ctx context.Context, course string) (*dto.Dashboard, error) {
	stats, err := s.studentRepo.CourseStats(ctx)
	if err != nil {
		return nil, err
	}

	d := &dto.Dashboard{
		Courses:           make([]string, 0, len(stats)),
		StudentsPerCourse: make([]dto.CourseCount, 0, len(stats)),
		GenderPerCourse:   make(map[string]dto.GenderBreakdown, len(stats)),
		TopStudents:       []*models.Student{},
	}

	for _, cs := range stats {
		d.TotalStudents += cs.Total
		d.Courses = append(d.Courses, cs.Course)
		d.StudentsPerCourse = append(d.StudentsPerCourse, dto.CourseCount{Course: cs.Course, Count: cs.Total})
		d.GenderPerCourse[cs.Course] = cs.GenderBreakdown
	}
	d.TotalCourses = len(d.Courses)
	d.HasData = d.TotalStudents > 0

	if !d.HasData {
		return d, nil
	}

	d.SelectedCourse = strings.TrimSpace(course)
	if d.SelectedCourse == "" {
		d.SelectedCourse = d.Courses[0]
	}

	top, err := s.studentRepo.TopByPercentage(ctx, d.SelectedCourse, dto.TopStudentsLimit)
	if err != nil {
		return nil, err
	}
	d.TopStudents = top

	return d, nil
}
