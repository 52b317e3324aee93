package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/repositories"
)

// StudentSheet is the worksheet holding the exported student log
const StudentSheet = "Students"

// StudentLogHeaders is the header row of the exported workbook
var StudentLogHeaders = []string{
	"Student ID", "First Name", "Last Name", "Age", "Gender",
	"Course", "Semester", "Contact Number", "Percentage",
}

// ExportService renders the student log into spreadsheets
type ExportService interface {
	StudentLogWorkbook(ctx context.Context, query dto.StudentLogQuery) (*excelize.File, error)
	WriteStudentLog(ctx context.Context, query dto.StudentLogQuery, w io.Writer) (int, error)
}

type exportServiceImpl struct {
	studentRepo repositories.IStudentRepository
}

// NewExportService creates a new export service instance
func NewExportService(studentRepo repositories.IStudentRepository) ExportService {
	return &exportServiceImpl{studentRepo: studentRepo}
}

func studentRow(s *models.Student) []interface{} {
	return []interface{}{
		s.StudentID, s.FirstName, s.LastName, s.Age, s.GenderLabel(),
		s.Course, s.Semester, s.Contact(), s.Percentage,
	}
}

// StudentLogWorkbook builds a workbook with every student matching the
// log filters, unpaginated, in log order. The caller closes the file.
func (s *exportServiceImpl) StudentLogWorkbook(ctx context.Context, query dto.StudentLogQuery) (*excelize.File, error) {
	f, _, err := s.build(ctx, query)
	return f, err
}

func (s *exportServiceImpl) build(ctx context.Context, query dto.StudentLogQuery) (*excelize.File, int, error) {
	query.Normalize()
	students, err := s.studentRepo.List(ctx, query.Filter(), 0, 0)
	if err != nil {
		return nil, 0, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", StudentSheet); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := f.SetSheetRow(StudentSheet, "A1", &StudentLogHeaders); err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("failed to write header row: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(StudentLogHeaders), 1)
		_ = f.SetCellStyle(StudentSheet, "A1", lastCol, bold)
	}

	for i, student := range students {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := studentRow(student)
		if err := f.SetSheetRow(StudentSheet, cell, &row); err != nil {
			f.Close()
			return nil, 0, fmt.Errorf("failed to write student row: %w", err)
		}
	}

	return f, len(students), nil
}

// WriteStudentLog streams the workbook to w and returns the number of student rows
func (s *exportServiceImpl) WriteStudentLog(ctx context.Context, query dto.StudentLogQuery, w io.Writer) (int, error) {
	f, count, err := s.build(ctx, query)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}
	return count, nil
}
