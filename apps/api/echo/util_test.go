package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shusseki/core/attendance"
	logsvc "github.com/trezcool/shusseki/services/logger"
	"github.com/trezcool/shusseki/tests"
)

const (
	day1 = "2024-04-08"
	day2 = "2024-04-09"
)

func freezeToday(t *testing.T) {
	now, _ := time.Parse(attendance.DateLayout, day1)
	attendance.NowFunc = func() time.Time { return now }
	t.Cleanup(func() { attendance.NowFunc = time.Now })
}

func setup(t *testing.T, classes ...attendance.ClassData) (*Server, *attendance.Service) {
	freezeToday(t)
	svc, _ := testutil.NewService(t, classes...)
	validate, translator := testutil.NewValidator("en")

	s := NewServer(ServerDeps{
		Conf:       testutil.Config(),
		Logger:     logsvc.NewNopLogger(),
		BoardSvc:   svc,
		Validate:   validate,
		Translator: translator,
	})
	t.Cleanup(func() { _ = s.Close() })
	return s, svc
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		assert.Empty(t, rec.Body.String())
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, s *Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newRequest(method, tt.path, tt.body)
			s.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
