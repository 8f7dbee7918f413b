package student

import "errors"

var (
	// errors
	ErrNotFound      = errors.New("Student does not exist")
	ErrPhotoNotFound = errors.New("photo not found")
)

// Repository stores students and their photos on the API side.
type Repository interface {
	CreateStudent(s Student) (Student, error)
	GetStudentByID(id int) (Student, error)
	UpdateStudent(s Student) (Student, error)
	AddPhoto(p Photo, data []byte) (Photo, error)
	GetPhotoData(filename string) ([]byte, error)
}
