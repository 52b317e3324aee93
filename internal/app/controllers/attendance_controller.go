package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// AttendanceLogPath is the attendance page
const AttendanceLogPath = "/attendance-log/"

// AttendanceController handles the attendance page
type AttendanceController struct {
	attendanceService services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

func (c *AttendanceController) render(ctx *gin.Context, status int, form dto.AttendanceForm, errs validation.Errors) {
	students, err := c.attendanceService.Students(ctx.Request.Context())
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	records, err := c.attendanceService.Recent(ctx.Request.Context(), services.RecentAttendanceLimit)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, status, "attendance_log.html", gin.H{
		"Title":    "Attendance",
		"Form":     form,
		"Errors":   errs,
		"Students": students,
		"Records":  records,
	})
}

// Page shows the attendance form and the recent records
func (c *AttendanceController) Page(ctx *gin.Context) {
	c.render(ctx, http.StatusOK, dto.NewAttendanceForm(), nil)
}

// Record stores an attendance record from the submitted form
func (c *AttendanceController) Record(ctx *gin.Context) {
	var form dto.AttendanceForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	if _, err := c.attendanceService.Record(ctx.Request.Context(), form); err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			middleware.AddFlash(ctx, middleware.FlashError, "There was an error saving the attendance record.")
			c.render(ctx, http.StatusBadRequest, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, middleware.FlashSuccess, "Attendance record saved successfully!")
	ctx.Redirect(http.StatusFound, AttendanceLogPath)
}
