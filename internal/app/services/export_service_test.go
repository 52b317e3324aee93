package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/models/dto"
)

func TestWriteStudentLogWorkbook(t *testing.T) {
	f := newFixture()
	f.seed("Dana", "Lee", "CE", models.GenderFemale, 80)
	f.seed("Ana", "Smith", "CE", models.GenderFemale, 75.5)
	f.seed("Bob", "Jones", "IT", models.GenderMale, 60)

	var buf bytes.Buffer
	count, err := f.exporter.WriteStudentLog(context.Background(), dto.StudentLogQuery{Course: "CE", Page: 2}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(StudentSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, StudentLogHeaders, rows[0])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "Female", rows[1][4])
	assert.Equal(t, "75.5", rows[1][8])
	assert.Equal(t, "Dana", rows[2][1])
}

func TestStudentLogWorkbookWithoutMatches(t *testing.T) {
	f := newFixture()
	f.seed("Ana", "Smith", "CE", models.GenderFemale, 75)

	book, err := f.exporter.StudentLogWorkbook(context.Background(), dto.StudentLogQuery{Query: "zzz"})
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(StudentSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
