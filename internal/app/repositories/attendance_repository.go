package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

// IAttendanceRepository defines attendance database operations
type IAttendanceRepository interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	ListRecent(ctx context.Context, limit uint64) ([]*models.Attendance, error)
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a record. The percentage is recomputed from the day counts
// so a stale value on the struct is never persisted.
func (r *AttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	attendance.Recompute()

	sql, args, err := r.sb.Insert("attendance").
		Columns("student_id", "days_present", "days_absent", "attendance_percentage").
		Values(attendance.StudentID, attendance.DaysPresent, attendance.DaysAbsent, attendance.AttendancePercentage).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create attendance SQL")
		return fmt.Errorf("failed to build create attendance query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&attendance.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", attendance.StudentID).Msg("Error executing create attendance query")
		return fmt.Errorf("error creating attendance: %w", err)
	}

	return nil
}

func (r *AttendanceRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Attendance, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list attendance SQL")
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list attendance query")
		return nil, fmt.Errorf("error querying attendance: %w", err)
	}
	defer rows.Close()

	records := []*models.Attendance{}
	for rows.Next() {
		a := &models.Attendance{Student: &models.Student{}}
		s := a.Student
		err := rows.Scan(&a.ID, &a.StudentID, &a.DaysPresent, &a.DaysAbsent, &a.AttendancePercentage,
			&s.ID, &s.FirstName, &s.LastName, &s.Age, &s.Gender, &s.Course,
			&s.Semester, &s.StudentID, &s.ContactNumber, &s.Percentage)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning attendance row")
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		records = append(records, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}

	return records, nil
}

func (r *AttendanceRepository) selectWithStudent() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.student_id", "a.days_present", "a.days_absent", "a.attendance_percentage",
		"s.id", "s.first_name", "s.last_name", "s.age", "s.gender", "s.course",
		"s.semester", "s.student_id", "s.contact_number", "s.percentage",
	).
		From("attendance a").
		Join("students s ON s.id = a.student_id")
}

// ListRecent returns the newest records first, each with its student loaded
func (r *AttendanceRepository) ListRecent(ctx context.Context, limit uint64) ([]*models.Attendance, error) {
	q := r.selectWithStudent().OrderBy("a.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.list(ctx, q)
}
