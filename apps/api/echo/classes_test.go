package echoapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/shusseki/core/attendance"
	"github.com/trezcool/shusseki/tests"
)

func Test_classApi_query(t *testing.T) {
	classB := testutil.MakeClass("class-B", "B組", 1, 2)
	classA := testutil.MakeClass("class-A", "A組", 1)
	s, _ := setup(t, classB, classA)

	tests := []httpTest{
		{
			name: "store order", path: "/v1/classes", wantCode: http.StatusOK,
			wantData: marchallObj(t, []attendance.ClassSummary{classB.Summary(), classA.Summary()}),
		},
		{
			name: "order by name", path: "/v1/classes?ordering=name", wantCode: http.StatusOK,
			wantData: marchallObj(t, []attendance.ClassSummary{classA.Summary(), classB.Summary()}),
		},
		{
			name: "order by -size", path: "/v1/classes?ordering=-size", wantCode: http.StatusOK,
			wantData: marchallObj(t, []attendance.ClassSummary{classB.Summary(), classA.Summary()}),
		},
	}
	runHTTPTests(t, s, tests)
}

func Test_classApi_importText(t *testing.T) {
	s, svc := setup(t, testutil.MakeClass("class-1-A", "1年A組", 1, 2, 3))

	text := testutil.RosterText(
		[]string{"1", "A", "2", "田中 太郎"},
		[]string{"1", "A", "1", "鈴木 花子"},
		[]string{"ゴミ"},
	)
	tests := []httpTest{
		{
			name: "blank", method: http.MethodPost, path: "/v1/classes/import",
			body:     marchallObj(t, attendance.PastedText{Text: "  \n "}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"text": "this field is required"}),
		},
		{
			name: "no usable row", method: http.MethodPost, path: "/v1/classes/import",
			body:     marchallObj(t, attendance.PastedText{Text: "ゴミ"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]interface{}{
				"error":   attendance.ErrEmptyInput.Error(),
				"skipped": []attendance.SkippedRow{{Line: 1, Cells: []string{"ゴミ"}, Reason: attendance.ErrInsufficientColumns.Error()}},
			}),
		},
		{
			name: "imported", method: http.MethodPost, path: "/v1/classes/import",
			body:     marchallObj(t, attendance.PastedText{Text: text}),
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, attendance.ParseRoster(text)),
		},
	}
	runHTTPTests(t, s, tests)

	// the roster replaced the previous one
	cls, err := svc.GetClass("class-1-A")
	require.NoError(t, err)
	require.Len(t, cls.Students, 2)
	assert.Equal(t, "鈴木 花子", cls.Students[0].Name)
}

func Test_classApi_importXLSX(t *testing.T) {
	s, svc := setup(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{2, "B", 7, "佐藤", "次郎"}))
	wb, err := f.WriteToBuffer()
	require.NoError(t, err)
	_ = f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "roster.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/classes/import/xlsx", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cls, err := svc.GetClass("class-2-B")
	require.NoError(t, err)
	assert.Equal(t, "2年B組", cls.Name)
	require.Len(t, cls.Students, 1)
	assert.Equal(t, "佐藤 次郎", cls.Students[0].Name)
	assert.Equal(t, 7, cls.Students[0].Number)

	// no file
	req, rec = newRequest(http.MethodPost, "/v1/classes/import/xlsx")
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_classApi_detail(t *testing.T) {
	classA := testutil.MakeClass("class-A", "A組", 1, 2, 3)
	classB := testutil.MakeClass("class-B", "B組", 1)
	s, svc := setup(t, classA, classB)

	reversed := attendance.ReorderStudents(classA, []int{3, 2, 1})
	notFound := marchallObj(t, httpErr{Error: attendance.ErrClassNotFound.Error()})

	tests := []httpTest{
		{name: "retrieve", path: "/v1/classes/class-A", wantCode: http.StatusOK, wantData: marchallObj(t, classA)},
		{name: "retrieve unknown", path: "/v1/classes/class-Z", wantCode: http.StatusNotFound, wantData: notFound},
		{
			name: "reorder blank", method: http.MethodPut, path: "/v1/classes/class-A/seating",
			body:     marchallObj(t, attendance.PastedText{}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"text": "this field is required"}),
		},
		{
			name: "reorder without numbers", method: http.MethodPut, path: "/v1/classes/class-A/seating",
			body:     marchallObj(t, attendance.PastedText{Text: "教卓"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: attendance.ErrEmptyInput.Error()}),
		},
		{
			name: "reorder", method: http.MethodPut, path: "/v1/classes/class-A/seating",
			body:     marchallObj(t, attendance.PastedText{Text: "３\t２\t１"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, reversed),
		},
		{name: "destroy", method: http.MethodDelete, path: "/v1/classes/class-A", wantCode: http.StatusNoContent},
		{name: "destroy again", method: http.MethodDelete, path: "/v1/classes/class-A", wantCode: http.StatusNotFound, wantData: notFound},
	}
	runHTTPTests(t, s, tests)

	assert.Equal(t, "class-B", svc.Selection().ClassID)
}

func Test_classApi_export(t *testing.T) {
	cls := testutil.MakeClass("class-A", "A組", 1, 2)
	cls.Students[1].Records = []attendance.AttendanceRecord{{Date: day2, Status: attendance.StatusAbsent}}
	s, _ := setup(t, cls)

	req, rec := newRequest(http.MethodGet, "/v1/classes/class-A/export?date="+day1+"&date="+day2)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, mimeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="class-A_2024-04-08_2024-04-09.xlsx"`)

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("A組")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2", "Student 2", "出席", "欠席", "1", "0", "0"}, rows[2])

	// selected date by default
	req, rec = newRequest(http.MethodGet, "/v1/classes/class-A/export")
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "class-A_"+day1+".xlsx")

	runHTTPTests(t, s, []httpTest{
		{
			name: "invalid date", path: "/v1/classes/class-A/export?date=yesterday", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"date": attendance.ErrInvalidDate.Error()}),
		},
		{
			name: "unknown class", path: "/v1/classes/class-Z/export", wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: attendance.ErrClassNotFound.Error()}),
		},
	})
}
