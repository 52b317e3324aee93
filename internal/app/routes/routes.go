package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/controllers"
	"github.com/yigit/studentrecords/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth       *controllers.AuthController
	Dashboard  *controllers.DashboardController
	Student    *controllers.StudentController
	Attendance *controllers.AttendanceController
	Export     *controllers.ExportController
	Page       *controllers.PageController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	static http.FileSystem,
) {
	router.StaticFS("/static", static)
	router.GET("/healthz", ctrl.Page.Healthz)
	router.NoRoute(middleware.NotFound)

	site := router.Group("")
	site.Use(authMiddleware.LoadIdentity())

	// --- Public pages ---
	site.GET("/", ctrl.Auth.LoginPage)
	site.GET("/login/", ctrl.Auth.LoginPage)
	site.POST("/login/", ctrl.Auth.Login)
	site.GET("/signup/", ctrl.Auth.SignupPage)
	site.POST("/signup/", ctrl.Auth.Signup)
	site.GET("/logout/", ctrl.Auth.Logout)
	site.POST("/logout/", ctrl.Auth.Logout)
	site.GET("/about-us/", ctrl.Page.AboutUs)

	// --- Pages behind the login ---
	gated := site.Group("")
	gated.Use(authMiddleware.RequireLogin())
	{
		gated.GET("/dashboard/", ctrl.Dashboard.Dashboard)

		gated.GET("/add-student/", ctrl.Student.AddPage)
		gated.POST("/add-student/", ctrl.Student.Add)
		gated.GET("/student-log/", ctrl.Student.Log)
		gated.GET("/student-log/export/", ctrl.Export.StudentLog)
		gated.GET("/update-student/:id/", ctrl.Student.UpdatePage)
		gated.POST("/update-student/:id/", ctrl.Student.Update)
		gated.GET("/delete-student/:id/", ctrl.Student.Delete)
		gated.POST("/delete-student/:id/", ctrl.Student.Delete)

		gated.GET("/attendance-log/", ctrl.Attendance.Page)
		gated.POST("/attendance-log/", ctrl.Attendance.Record)
	}
}
