package echoapi

import (
	"io/ioutil"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/student"
)

var (
	photoExts         = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}
	errPhotoType      = echo.NewHTTPError(http.StatusBadRequest, "The file must be PNG or JPG")
	errPhotoMissing   = echo.NewHTTPError(http.StatusBadRequest, "photo: this field is required")
	errInvalidStudent = echo.NewHTTPError(http.StatusBadRequest, "Invalid student ID")
)

type studentApi struct {
	repo     student.Repository
	validate *validator.Validate
	mediaURL string
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, api *studentApi) {
	sg := g.Group("/students", jwt)
	sg.POST("", api.create)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)

	g.POST("/photos", api.uploadPhoto, jwt)
	g.GET("/media/:filename", api.photo)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.Student
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.repo.CreateStudent(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	s, err := api.repo.GetStudentByID(id)
	if err != nil {
		return notFoundAsBadRequest(err, "finding student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	var data student.Student
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Student")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}
	data.ID = id

	s, err := api.repo.UpdateStudent(data)
	if err != nil {
		return notFoundAsBadRequest(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

// uploadPhoto stores the `photo` file of a multipart form for `student_id`.
func (api *studentApi) uploadPhoto(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.FormValue("student_id"))
	if err != nil {
		return errInvalidStudent
	}

	fh, err := ctx.FormFile("photo")
	if err != nil {
		return errPhotoMissing
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !photoExts[ext] {
		return errPhotoType
	}

	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening photo")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()
	data, err := ioutil.ReadAll(file)
	if err != nil {
		return errors.Wrap(err, "reading photo")
	}

	photoID := uuid.New().String()
	filename := photoID + ext
	p, err := api.repo.AddPhoto(student.Photo{
		ID:        photoID,
		StudentID: id,
		Filename:  filename,
		URL:       api.mediaURL + "/" + filename,
	}, data)
	if err != nil {
		return notFoundAsBadRequest(err, "adding photo")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *studentApi) photo(ctx echo.Context) error {
	data, err := api.repo.GetPhotoData(ctx.Param("filename"))
	if err != nil {
		if err == student.ErrPhotoNotFound {
			return echo.ErrNotFound
		}
		return errors.Wrap(err, "finding photo")
	}
	return ctx.Blob(http.StatusOK, http.DetectContentType(data), data)
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errInvalidStudent
	}
	return id, nil
}

func notFoundAsBadRequest(err error, msg string) error {
	if err == student.ErrNotFound {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return errors.Wrap(err, msg)
}
