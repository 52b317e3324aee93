package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// StudentLogPath lists the students after every write
const StudentLogPath = "/student-log/"

// StudentController handles the student pages
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// parseID reads the :id path parameter; anything but a positive integer is a 404
func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleError(ctx, apperrors.ErrStudentNotFound)
		return 0, false
	}
	return id, true
}

func renderStudentForm(ctx *gin.Context, status int, template string, data gin.H) {
	data["Genders"] = models.GenderChoices
	data["CourseChoices"] = models.CourseChoices
	data["Semesters"] = models.SemesterChoices
	middleware.Render(ctx, status, template, data)
}

func (c *StudentController) renderAdd(ctx *gin.Context, status int, form dto.StudentForm, errs validation.Errors) {
	renderStudentForm(ctx, status, "add_student.html", gin.H{
		"Title":  "Add Student",
		"Form":   form,
		"Errors": errs,
		"Action": "/add-student/",
		"Submit": "Add student",
	})
}

func (c *StudentController) renderUpdate(ctx *gin.Context, status int, id int64, form dto.StudentForm, errs validation.Errors) {
	renderStudentForm(ctx, status, "update_student.html", gin.H{
		"Title":     "Update Student",
		"Form":      form,
		"Errors":    errs,
		"StudentPK": id,
		"Action":    "/update-student/" + strconv.FormatInt(id, 10) + "/",
		"Submit":    "Save changes",
	})
}

// AddPage shows an empty student form
func (c *StudentController) AddPage(ctx *gin.Context) {
	c.renderAdd(ctx, http.StatusOK, dto.StudentForm{}, nil)
}

// Add creates a student from the submitted form
func (c *StudentController) Add(ctx *gin.Context) {
	var form dto.StudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	if _, err := c.studentService.Create(ctx.Request.Context(), form); err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			middleware.AddFlash(ctx, middleware.FlashError, "There was an error saving the student record.")
			c.renderAdd(ctx, http.StatusBadRequest, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, middleware.FlashSuccess, "Student record added successfully!")
	ctx.Redirect(http.StatusFound, StudentLogPath)
}

// UpdatePage shows the form prefilled with a stored student
func (c *StudentController) UpdatePage(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	student, err := c.studentService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	c.renderUpdate(ctx, http.StatusOK, id, dto.NewStudentForm(student), nil)
}

// Update replaces a student from the submitted form
func (c *StudentController) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var form dto.StudentForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleError(ctx, apperrors.NewBadRequestError(err.Error()))
		return
	}

	if _, err := c.studentService.Update(ctx.Request.Context(), id, form); err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			middleware.AddFlash(ctx, middleware.FlashError, "There was an error updating the student record.")
			c.renderUpdate(ctx, http.StatusBadRequest, id, form, errs)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, middleware.FlashSuccess, "Student record updated successfully!")
	ctx.Redirect(http.StatusFound, StudentLogPath)
}

// Delete removes a student on POST; any other method only redirects
func (c *StudentController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	if ctx.Request.Method != http.MethodPost {
		ctx.Redirect(http.StatusFound, StudentLogPath)
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.AddFlash(ctx, middleware.FlashSuccess, "Student record deleted successfully!")
	ctx.Redirect(http.StatusFound, StudentLogPath)
}

// bindLogQuery reads the student log filters from the query string
func bindLogQuery(ctx *gin.Context) dto.StudentLogQuery {
	q := dto.StudentLogQuery{
		Course: ctx.Query("course"),
		Query:  ctx.Query("q"),
		Sort:   ctx.Query("sort"),
		Page:   helpers.ParsePage(ctx.Query("page")),
	}
	q.Normalize()
	return q
}

// Log shows one page of the filtered student log
func (c *StudentController) Log(ctx *gin.Context) {
	log, err := c.studentService.Log(ctx.Request.Context(), bindLogQuery(ctx))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	middleware.Render(ctx, http.StatusOK, "student_log.html", gin.H{
		"Title": "Student Log",
		"Log":   log,
	})
}
