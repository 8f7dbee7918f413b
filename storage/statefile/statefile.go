// Package statefile persists the admin client's session state between runs.
package statefile

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-admin/core/session"
)

type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }

// Load returns the persisted state. A missing file is an empty state.
func (f *File) Load() (session.Persisted, error) {
	var state session.Persisted
	data, err := ioutil.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, errors.Wrap(err, "reading state file")
	}
	if len(data) == 0 {
		return state, nil
	}
	if err = json.Unmarshal(data, &state); err != nil {
		return state, errors.Wrapf(err, "decoding state file %s", f.path)
	}
	return state, nil
}

// Save writes state atomically; the file is only readable by its owner.
func (f *File) Save(state session.Persisted) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "encoding state")
	}
	if err = os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return errors.Wrap(err, "creating state dir")
	}

	tmp, err := ioutil.TempFile(filepath.Dir(f.path), ".state-*")
	if err != nil {
		return errors.Wrap(err, "creating temp state file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "writing state file")
	}
	if err = tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod state file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing state file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), f.path), "replacing state file")
}
