package student

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-admin/core"
)

type Photo struct {
	ID        string `json:"id,omitempty"`
	StudentID int    `json:"student_id,omitempty"`
	Filename  string `json:"filename,omitempty"`
	URL       string `json:"url"`
}

type Student struct {
	ID      int     `json:"id,omitempty"`
	Name    string  `json:"name" validate:"namelen"`
	Surname string  `json:"surname" validate:"namelen"`
	Email   string  `json:"email" validate:"required,email"`
	Age     int     `json:"age" validate:"gte=1,lte=150"`
	Weight  float64 `json:"weight" validate:"gt=0"`
	Height  float64 `json:"height" validate:"gt=0"`
	Photos  []Photo `json:"Photos,omitempty"`
}

// PhotoURL returns the URL of the student's first photo, or "".
func (s Student) PhotoURL() string {
	if len(s.Photos) == 0 {
		return ""
	}
	return s.Photos[0].URL
}

func (s *Student) Validate(validate *validator.Validate) error {
	s.Name = core.CleanString(s.Name)
	s.Surname = core.CleanString(s.Surname)
	s.Email = core.CleanString(s.Email, true /* lower */)
	return validate.Struct(s)
}

// Input is the student form as typed by the admin.
type Input struct {
	Name    string `json:"name" validate:"namelen"`
	Surname string `json:"surname" validate:"namelen"`
	Email   string `json:"email" validate:"email"`
	Age     string `json:"age" validate:"integer"`
	Weight  string `json:"weight" validate:"decimal"`
	Height  string `json:"height" validate:"decimal"`
}

// InputFrom fills the form from an existing record.
func InputFrom(s Student) Input {
	return Input{
		Name:    s.Name,
		Surname: s.Surname,
		Email:   s.Email,
		Age:     strconv.Itoa(s.Age),
		Weight:  strconv.FormatFloat(s.Weight, 'f', -1, 64),
		Height:  strconv.FormatFloat(s.Height, 'f', -1, 64),
	}
}

// Validate reports every invalid field at once.
func (in *Input) Validate(validate *validator.Validate) error {
	in.Name = core.CleanString(in.Name)
	in.Surname = core.CleanString(in.Surname)
	in.Email = core.CleanString(in.Email, true /* lower */)
	in.Age = core.CleanString(in.Age)
	in.Weight = core.CleanString(in.Weight)
	in.Height = core.CleanString(in.Height)
	return validate.Struct(in)
}

// Student converts a validated Input.
func (in Input) Student() Student {
	age, _ := strconv.Atoi(in.Age)
	weight, _ := strconv.ParseFloat(in.Weight, 64)
	height, _ := strconv.ParseFloat(in.Height, 64)
	return Student{
		Name:    in.Name,
		Surname: in.Surname,
		Email:   in.Email,
		Age:     age,
		Weight:  weight,
		Height:  height,
	}
}

func EditPath(id int) string {
	return "/student/" + strconv.Itoa(id) + "/edit"
}

func PhotosPath(id int) string {
	return "/photos/" + strconv.Itoa(id)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
