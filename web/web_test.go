package web

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models/dto"
)

func TestTemplatesParse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"login.html", "signup.html", "dashboard.html", "add_student.html", "update_student.html",
		"student_log.html", "attendance_log.html", "about_us.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestStaticServesStylesheet(t *testing.T) {
	f, err := Static().Open("/css/app.css")
	require.NoError(t, err)
	defer f.Close()

	var buf bytes.Buffer
	_, err = io.Copy(&buf, f)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), ".card")
}

func TestLogPageURLKeepsFilters(t *testing.T) {
	q := dto.StudentLogQuery{Course: "CE", Query: "ana & bob", Sort: "desc"}
	assert.Equal(t, "/student-log/?course=CE&page=3&q=ana+%26+bob&sort=desc", LogPageURL(q, 3))
	assert.Equal(t, "/student-log/?page=1", LogPageURL(dto.StudentLogQuery{}, 1))
}

func TestExportURL(t *testing.T) {
	assert.Equal(t, "/student-log/export/", ExportURL(dto.StudentLogQuery{}))
	assert.Equal(t, "/student-log/export/?course=IT", ExportURL(dto.StudentLogQuery{Course: "IT"}))
}

func TestShare(t *testing.T) {
	assert.Equal(t, "0", Share(3, 0))
	assert.Equal(t, "75.0", Share(3, 4))
	assert.Equal(t, "33.3", Share(1, 3))
}
