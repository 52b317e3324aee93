package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// DuplicateStudentIDMessage is the field error shown for a taken student ID
const DuplicateStudentIDMessage = "Student with this Student id already exists."

// StudentService defines the operations on student records
type StudentService interface {
	Create(ctx context.Context, form dto.StudentForm) (*models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, id int64, form dto.StudentForm) (*models.Student, error)
	Delete(ctx context.Context, id int64) error
	Log(ctx context.Context, query dto.StudentLogQuery) (*dto.StudentLog, error)
}

type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo repositories.IStudentRepository, logger zerolog.Logger) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// validate checks the form and the student ID uniqueness, ignoring excludeID
func (s *studentServiceImpl) validate(ctx context.Context, form dto.StudentForm, excludeID int64) (*models.Student, error) {
	student, errs := form.Validate()

	if !errs.Has("student_id") {
		exists, err := s.studentRepo.StudentIDExists(ctx, strings.TrimSpace(form.StudentID), excludeID)
		if err != nil {
			return nil, fmt.Errorf("failed to check student ID: %w", err)
		}
		if exists {
			errs.Add("student_id", DuplicateStudentIDMessage)
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}
	return student, nil
}

func duplicateStudentIDError() validation.Errors {
	var errs validation.Errors
	errs.Add("student_id", DuplicateStudentIDMessage)
	return errs
}

// Create validates the form and stores a new student
func (s *studentServiceImpl) Create(ctx context.Context, form dto.StudentForm) (*models.Student, error) {
	student, err := s.validate(ctx, form, 0)
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return nil, duplicateStudentIDError()
		}
		return nil, err
	}

	s.logger.Info().Int64("id", student.ID).Str("studentID", student.StudentID).
		Int64("actorID", auth.IdentityFromContext(ctx).UserID).Msg("Student created")
	return student, nil
}

// Get returns a student or apperrors.ErrStudentNotFound
func (s *studentServiceImpl) Get(ctx context.Context, id int64) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// Update replaces every field of an existing student
func (s *studentServiceImpl) Update(ctx context.Context, id int64, form dto.StudentForm) (*models.Student, error) {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	student, err := s.validate(ctx, form, id)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if err := s.studentRepo.Update(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
			return nil, duplicateStudentIDError()
		}
		return nil, err
	}

	s.logger.Info().Int64("id", id).Int64("actorID", auth.IdentityFromContext(ctx).UserID).Msg("Student updated")
	return student, nil
}

// Delete removes a student together with its attendance records
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("id", id).Int64("actorID", auth.IdentityFromContext(ctx).UserID).Msg("Student deleted")
	return nil
}

// Log returns one page of the filtered, sorted student log
func (s *studentServiceImpl) Log(ctx context.Context, query dto.StudentLogQuery) (*dto.StudentLog, error) {
	query.Normalize()
	filter := query.Filter()

	total, err := s.studentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	pagination := helpers.NewPaginationInfo(total, query.Page, helpers.DefaultPageSize)
	query.Page = pagination.CurrentPage

	students := []*models.Student{}
	if total > 0 {
		offset, limit := helpers.CalculateOffsetLimit(pagination.CurrentPage, pagination.PageSize)
		if students, err = s.studentRepo.List(ctx, filter, offset, limit); err != nil {
			return nil, err
		}
	}

	courses, err := s.studentRepo.DistinctCourses(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StudentLog{
		Students:   students,
		Pagination: pagination,
		Courses:    courses,
		Query:      query,
	}, nil
}
