package core

// Logger is any service that can report messages.
// args may carry errors, maps of extra data, or the acting Person.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the account a log entry is about. The zero value means anonymous.
type Person struct {
	ID    string
	Name  string
	Email string
}

func (p Person) IsZero() bool { return p.ID == "" }
