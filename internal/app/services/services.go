package services

// Services defined in this package:
// - StudentService: student CRUD and the paginated student log
// - AttendanceService: attendance entry and the recent attendance list
// - DashboardService: per-course aggregates and top students
// - AuthService: account signup and login
// - ExportService: spreadsheet export of the student log
