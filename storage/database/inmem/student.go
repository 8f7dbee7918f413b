package inmemdb

import (
	"github.com/trezcool/masomo-admin/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) CreateStudent(s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	s.ID = repo.db.pk
	s.Photos = nil
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return clone(*s), nil
	}
	return student.Student{}, student.ErrNotFound
}

// UpdateStudent replaces the record fields but keeps its photos.
func (repo *studentRepository) UpdateStudent(s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s.Photos = orig.Photos
	repo.db.table[s.ID] = &s
	return clone(s), nil
}

// AddPhoto prepends p so that the latest upload becomes the student's photo.
func (repo *studentRepository) AddPhoto(p student.Photo, data []byte) (student.Photo, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.table[p.StudentID]
	if !ok {
		return student.Photo{}, student.ErrNotFound
	}
	s.Photos = append([]student.Photo{p}, s.Photos...)
	repo.db.photos[p.Filename] = data
	return p, nil
}

func (repo *studentRepository) GetPhotoData(filename string) ([]byte, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if data, ok := repo.db.photos[filename]; ok {
		return data, nil
	}
	return nil, student.ErrPhotoNotFound
}

func clone(s student.Student) student.Student {
	if s.Photos != nil {
		s.Photos = append([]student.Photo(nil), s.Photos...)
	}
	return s
}
