package student

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-admin/core"
)

func newValidator() (*Service, func(error) []string) {
	validate, translator := core.NewValidator()
	InitValidators(validate, translator)
	svc := NewService(nil, validate, translator)
	return svc, func(err error) []string { return core.ErrorMessages(err, translator) }
}

func TestInput_Validate(t *testing.T) {
	svc, messages := newValidator()

	valid := Input{Name: "Ada", Surname: "Lovelace", Email: "ADA@test.cd ", Age: "36", Weight: "55.5", Height: "1.65"}

	tests := []struct {
		name string
		in   Input
		want []string
	}{
		{name: "valid", in: valid},
		{name: "integers are decimals too", in: Input{Name: "Ada", Surname: "Lovelace", Email: "ada@test.cd", Age: "+36", Weight: "55", Height: ".9"}},
		{
			name: "everything wrong",
			in:   Input{Name: "Al", Surname: "Abcdefghijklmnopqrstu", Email: "nope", Age: "3.5", Weight: "heavy", Height: "1,65"},
			want: []string{
				"The name must be between 3 and 20 characters",
				"The surname must be between 3 and 20 characters",
				"Invalid E-mail.",
				"Age must be an integer.",
				"Weight must be a whole number separated by periods.",
				"Height must be a whole number separated by periods.",
			},
		},
		{
			name: "empty form",
			in:   Input{},
			want: []string{
				"The name must be between 3 and 20 characters",
				"The surname must be between 3 and 20 characters",
				"Invalid E-mail.",
				"Age must be an integer.",
				"Weight must be a whole number separated by periods.",
				"Height must be a whole number separated by periods.",
			},
		},
		{
			name: "out of range",
			in:   Input{Name: "Ada", Surname: "Lovelace", Email: "ada@test.cd", Age: "99999999999999999999", Weight: "1" + strings.Repeat("0", 400), Height: "1.65"},
			want: []string{
				"Age must be an integer.",
				"Weight must be a whole number separated by periods.",
			},
		},
		{
			name: "whitespace is trimmed before length checks",
			in:   Input{Name: "  Al  ", Surname: "Lovelace", Email: "ada@test.cd", Age: "36", Weight: "55", Height: "1.6"},
			want: []string{"The name must be between 3 and 20 characters"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := in.Validate(svc.validate)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, messages(err))
		})
	}
}

func TestInput_Student(t *testing.T) {
	svc, _ := newValidator()
	in := Input{Name: " Ada ", Surname: "Lovelace", Email: "ADA@test.cd", Age: "36", Weight: "55.5", Height: "1.65"}
	if err := in.Validate(svc.validate); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	got := in.Student()
	want := Student{Name: "Ada", Surname: "Lovelace", Email: "ada@test.cd", Age: 36, Weight: 55.5, Height: 1.65}
	assert.Equal(t, want, got)
	assert.Equal(t, in, InputFrom(got))
}

func TestStudent_Validate(t *testing.T) {
	svc, messages := newValidator()

	s := Student{Name: "Ada", Surname: "Lovelace", Email: "ada@test.cd", Age: 36, Weight: 55.5, Height: 1.65}
	assert.NoError(t, s.Validate(svc.validate))

	bad := Student{Name: "Ada", Surname: "Lo", Email: "", Age: 0, Weight: 1, Height: 1}
	assert.Equal(t, []string{
		"The surname must be between 3 and 20 characters",
		"this field is required",
		"age must be 1 or greater",
	}, messages(bad.Validate(svc.validate)))
}

func TestStudent_PhotoURL(t *testing.T) {
	assert.Equal(t, "", Student{}.PhotoURL())
	s := Student{Photos: []Photo{{URL: "http://media/1.png"}, {URL: "http://media/2.png"}}}
	assert.Equal(t, "http://media/1.png", s.PhotoURL())
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "/student/7/edit", EditPath(7))
	assert.Equal(t, "/photos/7", PhotosPath(7))
}
