package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/dberrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

const studentIDConstraint = "students_student_id_key"

var studentColumns = []string{
	"id", "first_name", "last_name", "age", "gender", "course",
	"semester", "student_id", "contact_number", "percentage",
}

// IStudentRepository defines the student database operations
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
	StudentIDExists(ctx context.Context, studentID string, excludeID int64) (bool, error)

	// Listing
	Count(ctx context.Context, filter dto.StudentFilter) (int64, error)
	List(ctx context.Context, filter dto.StudentFilter, offset, limit uint64) ([]*models.Student, error)

	// Aggregation
	DistinctCourses(ctx context.Context) ([]string, error)
	CourseStats(ctx context.Context) ([]dto.CourseStats, error)
	TopByPercentage(ctx context.Context, course string, limit uint64) ([]*models.Student, error)
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Age, &s.Gender, &s.Course,
		&s.Semester, &s.StudentID, &s.ContactNumber, &s.Percentage)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudentRepository) queryStudents(ctx context.Context, query squirrel.SelectBuilder, what string) ([]*models.Student, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msgf("Error building %s SQL", what)
		return nil, fmt.Errorf("failed to build %s query: %w", what, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msgf("Error executing %s query", what)
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msgf("Error scanning student row during %s", what)
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msgf("Error iterating student rows during %s", what)
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// Create inserts a student and sets its ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns(studentColumns[1:]...).
		Values(student.FirstName, student.LastName, student.Age, student.Gender, student.Course,
			student.Semester, student.StudentID, student.ContactNumber, student.Percentage).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentIDConstraint) {
			logger.Warn().Str("studentID", student.StudentID).Msg("Attempted to create student with duplicate student ID")
			return apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by primary key
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("id", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}

	return student, nil
}

// Update replaces every column of an existing student
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"first_name":     student.FirstName,
			"last_name":      student.LastName,
			"age":            student.Age,
			"gender":         student.Gender,
			"course":         student.Course,
			"semester":       student.Semester,
			"student_id":     student.StudentID,
			"contact_number": student.ContactNumber,
			"percentage":     student.Percentage,
		}).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, studentIDConstraint) {
			return apperrors.ErrStudentIDAlreadyExists
		}
		logger.Error().Err(err).Int64("id", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student; its attendance rows go with it (ON DELETE CASCADE)
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("students").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building delete student SQL")
		return fmt.Errorf("failed to build delete student query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("id", id).Msg("Error executing delete student query")
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// StudentIDExists checks whether another row already uses studentID.
// excludeID skips the row being updated; pass 0 when creating.
func (r *StudentRepository) StudentIDExists(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	where := squirrel.And{squirrel.Eq{"student_id": studentID}}
	if excludeID > 0 {
		where = append(where, squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := r.sb.Select("1").
		From("students").
		Where(where).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building student ID exists SQL")
		return false, fmt.Errorf("failed to build student ID exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error checking student ID existence")
		return false, fmt.Errorf("error checking student ID existence: %w", err)
	}

	return exists, nil
}

func applyStudentFilter(q squirrel.SelectBuilder, filter dto.StudentFilter) squirrel.SelectBuilder {
	if filter.Course != "" {
		q = q.Where(squirrel.Eq{"course": filter.Course})
	}
	if filter.NameSearch != "" {
		pattern := "%" + helpers.EscapeLike(filter.NameSearch) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
		})
	}
	return q
}

// Count returns how many students match filter
func (r *StudentRepository) Count(ctx context.Context, filter dto.StudentFilter) (int64, error) {
	sql, args, err := applyStudentFilter(r.sb.Select("COUNT(*)").From("students"), filter).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count students SQL")
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count students query")
		return 0, fmt.Errorf("failed to count students: %w", err)
	}

	return total, nil
}

// List returns students matching filter ordered by (first_name, last_name, id).
// A zero limit returns every matching row.
func (r *StudentRepository) List(ctx context.Context, filter dto.StudentFilter, offset, limit uint64) ([]*models.Student, error) {
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}

	q := applyStudentFilter(r.sb.Select(studentColumns...).From("students"), filter).
		OrderBy("first_name "+direction, "last_name "+direction, "id "+direction)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	return r.queryStudents(ctx, q, "list students")
}

// DistinctCourses returns the course codes currently in use, alphabetically
func (r *StudentRepository) DistinctCourses(ctx context.Context) ([]string, error) {
	sql, args, err := r.sb.Select("DISTINCT course").
		From("students").
		OrderBy("course ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building distinct courses SQL")
		return nil, fmt.Errorf("failed to build distinct courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing distinct courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}

	courses, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		logger.Error().Err(err).Msg("Error collecting course rows")
		return nil, fmt.Errorf("error reading courses: %w", err)
	}

	return courses, nil
}

// CourseStats returns, per course in use, the student count and per-gender counts
func (r *StudentRepository) CourseStats(ctx context.Context) ([]dto.CourseStats, error) {
	sql, args, err := r.sb.Select(
		"course",
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE gender = 'M')",
		"COUNT(*) FILTER (WHERE gender = 'F')",
		"COUNT(*) FILTER (WHERE gender = 'O')",
	).
		From("students").
		GroupBy("course").
		OrderBy("course ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building course stats SQL")
		return nil, fmt.Errorf("failed to build course stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing course stats query")
		return nil, fmt.Errorf("error querying course stats: %w", err)
	}
	defer rows.Close()

	stats := []dto.CourseStats{}
	for rows.Next() {
		var cs dto.CourseStats
		if err := rows.Scan(&cs.Course, &cs.Total, &cs.Male, &cs.Female, &cs.Other); err != nil {
			logger.Error().Err(err).Msg("Error scanning course stats row")
			return nil, fmt.Errorf("error scanning course stats row: %w", err)
		}
		stats = append(stats, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course stats rows: %w", err)
	}

	return stats, nil
}

// TopByPercentage returns the best students of a course, percentage DESC then id ASC
func (r *StudentRepository) TopByPercentage(ctx context.Context, course string, limit uint64) ([]*models.Student, error) {
	q := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"course": course}).
		OrderBy("percentage DESC", "id ASC").
		Limit(limit)

	return r.queryStudents(ctx, q, "top students")
}
