package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-admin/core/student"
	"github.com/trezcool/masomo-admin/tests"
)

func Test_studentApi_create(t *testing.T) {
	b := setup()
	token := b.Token(t, testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!"))

	tests := []httpTest{
		{
			name:     "no token",
			body:     []byte(`{}`),
			wantCode: http.StatusUnauthorized,
			wantData: errMissingToken,
		},
		{
			name:     "invalid",
			body:     []byte(`{"name": "Al", "surname": "Turing", "email": "alan", "age": 41, "weight": 70, "height": 1.8}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: errResponse("The name must be between 3 and 20 characters", "Invalid E-mail."),
		},
		{
			name:     "valid",
			body:     []byte(`{"name": " Alan ", "surname": "Turing", "email": "ALAN@test.cd", "age": 41, "weight": 70, "height": 1.8}`),
			token:    token,
			wantCode: http.StatusCreated,
			wantData: marchallObj(t, student.Student{ID: 1, Name: "Alan", Surname: "Turing", Email: "alan@test.cd", Age: 41, Weight: 70, Height: 1.8}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// trailing slash as sent by the web client
			req, rec := newAuthRequest(http.MethodPost, "/students/", tt.token, tt.body)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_studentApi_retrieveUpdate(t *testing.T) {
	b := setup()
	token := b.Token(t, testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!"))
	alan := testutil.CreateStudent(t, b.Students, "Alan", "Turing", "alan@test.cd")
	path := "/students/" + strconv.Itoa(alan.ID)

	edited := alan
	edited.Name = "Alan Mathison"

	tests := []httpTest{
		{name: "get: no token", method: http.MethodGet, path: path, wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{
			name:     "get: unknown",
			method:   http.MethodGet,
			path:     "/students/99",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: errResponse("Student does not exist"),
		},
		{
			name:     "get: bad id",
			method:   http.MethodGet,
			path:     "/students/abc",
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: errResponse("Invalid student ID"),
		},
		{name: "get", method: http.MethodGet, path: path, token: token, wantCode: http.StatusOK, wantData: marchallObj(t, alan)},
		{
			name:     "put: unknown",
			method:   http.MethodPut,
			path:     "/students/99",
			body:     marchallObj(t, edited),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: errResponse("Student does not exist"),
		},
		{
			name:     "put: invalid",
			method:   http.MethodPut,
			path:     path,
			body:     []byte(`{"name": "Alan", "surname": "Turing", "email": "alan@test.cd", "age": 0, "weight": 70, "height": 1.8}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: errResponse("age must be 1 or greater"),
		},
		{name: "put", method: http.MethodPut, path: path, body: marchallObj(t, edited), token: token, wantCode: http.StatusOK, wantData: marchallObj(t, edited)},
		{name: "get: edited", method: http.MethodGet, path: path, token: token, wantCode: http.StatusOK, wantData: marchallObj(t, edited)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func newPhotoRequest(t *testing.T, token, studentID, filename string, data []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if studentID != "" {
		require.NoError(t, w.WriteField("student_id", studentID))
	}
	if filename != "" {
		part, err := w.CreateFormFile("photo", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/photos", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func Test_studentApi_uploadPhoto(t *testing.T) {
	b := setup()
	token := b.Token(t, testutil.CreateUser(t, b.UserRepo, "Ada Lovelace", "ada@test.cd", "s3cretPass!"))
	alan := testutil.CreateStudent(t, b.Students, "Alan", "Turing", "alan@test.cd")
	png := []byte("\x89PNG\r\n\x1a\nfake")

	tests := []struct {
		name      string
		token     string
		studentID string
		filename  string
		wantCode  int
		wantData  []byte
	}{
		{name: "no token", studentID: "1", filename: "alan.png", wantCode: http.StatusUnauthorized, wantData: errMissingToken},
		{name: "no student", token: token, filename: "alan.png", wantCode: http.StatusBadRequest, wantData: errResponse("Invalid student ID")},
		{name: "unknown student", token: token, studentID: "99", filename: "alan.png", wantCode: http.StatusBadRequest, wantData: errResponse("Student does not exist")},
		{name: "no photo", token: token, studentID: "1", wantCode: http.StatusBadRequest, wantData: errResponse("photo: this field is required")},
		{name: "bad type", token: token, studentID: "1", filename: "alan.gif", wantCode: http.StatusBadRequest, wantData: errResponse("The file must be PNG or JPG")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newPhotoRequest(t, tt.token, tt.studentID, tt.filename, png)
			b.App.ServeHTTP(rec, req)
			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: tt.wantData}, rec)
		})
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newPhotoRequest(t, token, strconv.Itoa(alan.ID), "Alan.PNG", png)
		b.App.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var p student.Photo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, alan.ID, p.StudentID)
		assert.True(t, strings.HasSuffix(p.Filename, ".png"))
		assert.Equal(t, b.Conf.Server.MediaURL+"/"+p.Filename, p.URL)

		s, err := b.Students.GetStudentByID(alan.ID)
		require.NoError(t, err)
		assert.Equal(t, p.URL, s.PhotoURL())

		// served without auth
		req, rec = newRequest(http.MethodGet, "/media/"+p.Filename)
		b.App.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, png, rec.Body.Bytes())
	})

	t.Run("unknown media", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/media/nope.png")
		b.App.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: errResponse("Not Found")}, rec)
	})
}
