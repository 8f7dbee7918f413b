package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/session"
	"github.com/trezcool/masomo-admin/core/student"
	"github.com/trezcool/masomo-admin/services/apiclient"
	"github.com/trezcool/masomo-admin/services/notify"
)

const (
	msgStudentCreated = "Student successfully created"
	msgStudentEdited  = "Student successfully edited"
	msgPhotoSent      = "Photo sent successfully"
	msgPhotoFailed    = "Error sending photo"
	msgPhotoNoStudent = "error getting image"
)

type studentFlags struct {
	name, surname, email, age, weight, height *string
}

func newStudentFlags(fs *flag.FlagSet) studentFlags {
	return studentFlags{
		name:    fs.String("name", "", "Between 3 and 20 characters."),
		surname: fs.String("surname", "", "Between 3 and 20 characters."),
		email:   fs.String("email", "", "The student email."),
		age:     fs.String("age", "", "An integer."),
		weight:  fs.String("weight", "", "A decimal number, e.g. 72.5"),
		height:  fs.String("height", "", "A decimal number, e.g. 1.80"),
	}
}

// overlay replaces the fields of in that were given on the command line.
func (sf studentFlags) overlay(fs *flag.FlagSet, in student.Input) student.Input {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = *sf.name
		case "surname":
			in.Surname = *sf.surname
		case "email":
			in.Email = *sf.email
		case "age":
			in.Age = *sf.age
		case "weight":
			in.Weight = *sf.weight
		case "height":
			in.Height = *sf.height
		}
	})
	return in
}

func (cli *commandLine) runStudent(args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	studentCmd := cli.newFlagSet("student " + args[0])
	id := studentCmd.Int("id", 0, "The student ID.")
	var sf studentFlags
	if args[0] != "get" {
		sf = newStudentFlags(studentCmd)
	}
	if err := parseFlags(studentCmd, args[1:]); err != nil {
		return err
	}

	switch args[0] {
	case "get":
		if *id <= 0 {
			studentCmd.Usage()
			return errHelp
		}
		return cli.withSession(func() error { return cli.getStudent(*id) })
	case "create":
		in := sf.overlay(studentCmd, student.Input{})
		return cli.withSession(func() error { return cli.createStudent(in) })
	case "edit":
		if *id <= 0 {
			studentCmd.Usage()
			return errHelp
		}
		return cli.withSession(func() error { return cli.editStudent(*id, studentCmd, sf) })
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) printStudent(s student.Student) {
	fmt.Fprintf(cli.out, "id: %d\n", s.ID)
	fmt.Fprintf(cli.out, "name: %s %s\n", s.Name, s.Surname)
	fmt.Fprintf(cli.out, "email: %s\n", s.Email)
	fmt.Fprintf(cli.out, "age: %d\n", s.Age)
	fmt.Fprintf(cli.out, "weight: %v\n", s.Weight)
	fmt.Fprintf(cli.out, "height: %v\n", s.Height)
	if url := s.PhotoURL(); url != "" {
		fmt.Fprintf(cli.out, "photo: %s\n", url)
	}
}

// sessionExpired logs out and leads to the login page.
func (cli *commandLine) sessionExpired(err error) error {
	cli.logger.Debug("session expired", err)
	cli.notifier.Notify(notify.Error, session.MsgLoginAgain)
	cli.pipeline.Dispatch(session.LoginFailure())
	cli.history.Push(session.LoginPath)
	return errFailed
}

func unauthorized(err error) bool {
	return apiclient.StatusCode(err) == http.StatusUnauthorized
}

// loadFailed notifies a failed student load. A rejected request leads back home.
func (cli *commandLine) loadFailed(err error) error {
	if unauthorized(err) {
		return cli.sessionExpired(err)
	}
	cli.notifyFailure(err)
	if apiclient.StatusCode(err) == http.StatusBadRequest {
		cli.history.Push(session.HomePath)
	}
	return errFailed
}

// saveFailed notifies a failed student save. An expired session logs out.
func (cli *commandLine) saveFailed(err error) error {
	if _, ok := errors.Cause(err).(validator.ValidationErrors); ok {
		for _, msg := range core.ErrorMessages(err, cli.students.Translator()) {
			cli.notifier.Notify(notify.Error, msg)
		}
		return errFailed
	}
	if unauthorized(err) {
		return cli.sessionExpired(err)
	}
	cli.notifyFailure(err)
	return errFailed
}

func (cli *commandLine) notifyFailure(err error) {
	cli.logger.Debug("request failed", err, map[string]interface{}{"kind": apiclient.Classify(err).String()})
	msgs := apiclient.ErrorMessages(err)
	if len(msgs) == 0 {
		cli.notifier.Notify(notify.Error, session.MsgUnknownError)
		return
	}
	for _, msg := range msgs {
		cli.notifier.Notify(notify.Error, msg)
	}
}

func (cli *commandLine) getStudent(id int) error {
	s, err := cli.students.Get(context.Background(), id)
	if err != nil {
		return cli.loadFailed(err)
	}
	cli.printStudent(s)
	return nil
}

func (cli *commandLine) createStudent(in student.Input) error {
	s, err := cli.students.Create(context.Background(), in)
	if err != nil {
		return cli.saveFailed(err)
	}
	cli.notifier.Notify(notify.Success, msgStudentCreated)
	cli.history.Push(student.EditPath(s.ID))
	cli.printStudent(s)
	return nil
}

func (cli *commandLine) editStudent(id int, fs *flag.FlagSet, sf studentFlags) error {
	ctx := context.Background()
	s, err := cli.students.Get(ctx, id)
	if err != nil {
		return cli.loadFailed(err)
	}

	s, err = cli.students.Update(ctx, id, sf.overlay(fs, student.InputFrom(s)))
	if err != nil {
		return cli.saveFailed(err)
	}
	cli.notifier.Notify(notify.Success, msgStudentEdited)
	cli.printStudent(s)
	return nil
}

func (cli *commandLine) runPhoto(args []string) error {
	photoCmd := cli.newFlagSet("photo")
	id := photoCmd.Int("id", 0, "The student ID.")
	path := photoCmd.String("file", "", "The PNG or JPG file to upload.")
	if err := parseFlags(photoCmd, args); err != nil {
		return err
	}
	if *id <= 0 || *path == "" {
		photoCmd.Usage()
		return errHelp
	}

	return cli.withSession(func() error { return cli.uploadPhoto(*id, *path) })
}

func (cli *commandLine) uploadPhoto(id int, path string) error {
	ctx := context.Background()
	if _, err := cli.students.Get(ctx, id); err != nil {
		if unauthorized(err) {
			return cli.sessionExpired(err)
		}
		cli.logger.Debug("getting student", err)
		cli.notifier.Notify(notify.Error, msgPhotoNoStudent)
		cli.history.Push(session.HomePath)
		return errFailed
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening photo")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer file.Close()

	p, err := cli.students.UploadPhoto(ctx, id, filepath.Base(path), file)
	if err != nil {
		if unauthorized(err) {
			return cli.sessionExpired(err)
		}
		cli.logger.Debug("uploading photo", err)
		cli.notifier.Notify(notify.Error, msgPhotoFailed)
		return errFailed
	}
	cli.notifier.Notify(notify.Success, msgPhotoSent)
	cli.history.Push(student.PhotosPath(id))
	fmt.Fprintf(cli.out, "photo: %s\n", p.URL)
	return nil
}
