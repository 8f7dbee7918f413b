package inmemdb

import (
	"sync"

	"github.com/trezcool/masomo-admin/core/student"
	"github.com/trezcool/masomo-admin/core/user"
)

type (
	DB struct {
		user    *userTable
		student *studentTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User
	}

	studentTable struct {
		mutex  sync.RWMutex
		pk     int
		table  map[int]*student.Student
		photos map[string][]byte // keyed by Photo.Filename
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		student: &studentTable{
			table:  make(map[int]*student.Student),
			photos: make(map[string][]byte),
		},
	}
}
