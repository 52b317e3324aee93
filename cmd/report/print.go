package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
)

var (
	heading = color.New(color.FgYellow, color.Bold)
	notice  = color.New(color.FgCyan)
	success = color.New(color.FgGreen)
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func printDashboard(w io.Writer, d *dto.Dashboard) {
	heading.Fprintln(w, "\nStudent Dashboard")
	fmt.Fprintf(w, "Total students: %d\nTotal courses: %d\n", d.TotalStudents, d.TotalCourses)

	if !d.HasData {
		notice.Fprintln(w, "No students recorded yet.")
		return
	}

	heading.Fprintln(w, "\nStudents per Course")
	table := newTable(w, "Course", "Students", "Male", "Female", "Other")
	for _, cc := range d.StudentsPerCourse {
		g := d.GenderPerCourse[cc.Course]
		table.Append([]string{
			cc.Course,
			strconv.FormatInt(cc.Count, 10),
			strconv.FormatInt(g.Male, 10),
			strconv.FormatInt(g.Female, 10),
			strconv.FormatInt(g.Other, 10),
		})
	}
	table.Render()

	heading.Fprintf(w, "\nTop %d Students in %s\n", dto.TopStudentsLimit, d.SelectedCourse)
	printStudents(w, d.TopStudents)
}

func printStudents(w io.Writer, students []*models.Student) {
	if len(students) == 0 {
		notice.Fprintln(w, "No students found.")
		return
	}

	table := newTable(w, "Student ID", "Name", "Age", "Gender", "Course", "Semester", "Percentage")
	for _, s := range students {
		table.Append([]string{
			s.StudentID,
			s.FullName(),
			strconv.Itoa(s.Age),
			s.GenderLabel(),
			s.Course,
			s.Semester,
			strconv.FormatFloat(s.Percentage, 'f', 2, 64),
		})
	}
	table.Render()
}

func printStudentLog(w io.Writer, log *dto.StudentLog) {
	heading.Fprintln(w, "\nStudent Log")
	printStudents(w, log.Students)
	p := log.Pagination
	fmt.Fprintf(w, "Page %d of %d (%d students)\n", p.CurrentPage, p.TotalPages, p.TotalItems)
}

func printExported(w io.Writer, path string, rows int) {
	success.Fprintf(w, "Exported %d students to %s\n", rows, path)
}

func printPruned(w io.Writer, deleted int64) {
	success.Fprintf(w, "Pruned %d sessions\n", deleted)
}
