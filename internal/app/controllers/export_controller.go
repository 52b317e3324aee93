package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/services"
	"github.com/yigit/studentrecords/internal/middleware"
)

// XLSXContentType is the media type of .xlsx workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController serves spreadsheet downloads
type ExportController struct {
	exportService services.ExportService
	now           func() time.Time
}

// NewExportController creates a new ExportController
func NewExportController(exportService services.ExportService) *ExportController {
	return &ExportController{exportService: exportService, now: time.Now}
}

// StudentLog downloads every student matching the log filters
func (c *ExportController) StudentLog(ctx *gin.Context) {
	var buf bytes.Buffer
	if _, err := c.exportService.WriteStudentLog(ctx.Request.Context(), bindLogQuery(ctx), &buf); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	filename := fmt.Sprintf("students-%s.xlsx", c.now().Format("20060102"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, XLSXContentType, buf.Bytes())
}
