package runtime

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Loader resolves a script name to its source text.
type Loader interface {
	Load(name string) (string, error)
}

// FileLoader reads scripts from the host filesystem. Relative names are
// resolved against Dir when it is set.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Load(name string) (string, error) {
	path := name
	if l.Dir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(l.Dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read script %s", name)
	}
	return string(data), nil
}

// FSLoader reads scripts from a file system such as an embed.FS.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Load(name string) (string, error) {
	data, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return "", errors.Wrapf(err, "read script %s", name)
	}
	return string(data), nil
}
