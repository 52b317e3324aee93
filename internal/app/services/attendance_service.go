package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/auth"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// InvalidStudentChoiceMessage is the field error for an unknown student reference
const InvalidStudentChoiceMessage = "Select a valid choice. That choice is not one of the available choices."

// RecentAttendanceLimit bounds the attendance log listing
const RecentAttendanceLimit = 50

// AttendanceService defines the attendance operations
type AttendanceService interface {
	Record(ctx context.Context, form dto.AttendanceForm) (*models.Attendance, error)
	Recent(ctx context.Context, limit uint64) ([]*models.Attendance, error)
	Students(ctx context.Context) ([]*models.Student, error)
}

type attendanceServiceImpl struct {
	attendanceRepo repositories.IAttendanceRepository
	studentRepo    repositories.IStudentRepository
	logger         zerolog.Logger
}

// NewAttendanceService creates a new attendance service instance
func NewAttendanceService(
	attendanceRepo repositories.IAttendanceRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		logger:         logger,
	}
}

func invalidStudentChoice() validation.Errors {
	var errs validation.Errors
	errs.Add("student", InvalidStudentChoiceMessage)
	return errs
}

// Record validates the form and stores a record with the derived percentage
func (s *attendanceServiceImpl) Record(ctx context.Context, form dto.AttendanceForm) (*models.Attendance, error) {
	in, errs := form.Validate()
	if errs.HasErrors() {
		return nil, errs
	}

	student, err := s.studentRepo.GetByID(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, invalidStudentChoice()
		}
		return nil, err
	}

	attendance := models.NewAttendance(student.ID, in.DaysPresent, in.DaysAbsent)
	if err := s.attendanceRepo.Create(ctx, attendance); err != nil {
		// the student may have been deleted after the lookup
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, invalidStudentChoice()
		}
		return nil, err
	}
	attendance.Student = student

	s.logger.Info().
		Int64("id", attendance.ID).
		Int64("studentID", student.ID).
		Float64("percentage", attendance.AttendancePercentage).
		Int64("actorID", auth.IdentityFromContext(ctx).UserID).
		Msg("Attendance recorded")
	return attendance, nil
}

// Recent lists the newest records with their students
func (s *attendanceServiceImpl) Recent(ctx context.Context, limit uint64) ([]*models.Attendance, error) {
	return s.attendanceRepo.ListRecent(ctx, limit)
}

// Students lists every student ordered by name for the form's select box
func (s *attendanceServiceImpl) Students(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.List(ctx, dto.StudentFilter{}, 0, 0)
}
