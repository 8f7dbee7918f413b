package student

import (
	"context"
	"io"
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/services/apiclient"
)

const (
	studentsPath = "/students"
	photosPath   = "/photos"
)

type (
	// API is the part of apiclient.Client the student views need.
	API interface {
		JSON(ctx context.Context, method, path string, in, out interface{}, opts ...apiclient.RequestOption) error
		Upload(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, opts ...apiclient.RequestOption) (*apiclient.Response, error)
	}

	Service struct {
		api        API
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewService(api API, validate *validator.Validate, translator ut.Translator) *Service {
	return &Service{api: api, validate: validate, translator: translator}
}

func (svc *Service) Translator() ut.Translator { return svc.translator }

func (svc *Service) Get(ctx context.Context, id int) (Student, error) {
	var s Student
	if err := svc.api.JSON(ctx, http.MethodGet, studentPath(id), nil, &s); err != nil {
		return Student{}, errors.Wrap(err, "getting student")
	}
	return s, nil
}

// Create validates in and creates the student. Validation errors are returned before any call is made.
func (svc *Service) Create(ctx context.Context, in Input) (Student, error) {
	if err := in.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	var s Student
	if err := svc.api.JSON(ctx, http.MethodPost, studentsPath, in.Student(), &s); err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return s, nil
}

func (svc *Service) Update(ctx context.Context, id int, in Input) (Student, error) {
	if err := in.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	var s Student
	if err := svc.api.JSON(ctx, http.MethodPut, studentPath(id), in.Student(), &s); err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return s, nil
}

// UploadPhoto sends a multipart form {student_id, photo}.
func (svc *Service) UploadPhoto(ctx context.Context, id int, filename string, r io.Reader) (Photo, error) {
	resp, err := svc.api.Upload(ctx, photosPath, map[string]string{"student_id": strconv.Itoa(id)}, "photo", filename, r)
	if err != nil {
		return Photo{}, errors.Wrap(err, "uploading photo")
	}
	var p Photo
	if err = resp.Decode(&p); err != nil {
		return Photo{}, errors.Wrap(err, "uploading photo")
	}
	return p, nil
}

func studentPath(id int) string {
	return studentsPath + "/" + strconv.Itoa(id)
}
