package storage

import (
	"os"

	"github.com/spf13/afero"
)

// FileSystem is the subset of filesystem operations the archive needs
type FileSystem interface {
	MkdirAll(path string, perm os.FileMode) error
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	// ReadDir lists a directory, files only carry os.FileInfo data
	ReadDir(name string) ([]os.FileInfo, error)
	Rename(oldname, newname string) error
	Remove(name string) error
}

type aferoFileSystem struct {
	fs afero.Fs
}

func (a *aferoFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFileSystem) Stat(name string) (os.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFileSystem) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

func (a *aferoFileSystem) ReadDir(name string) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, name)
}

func (a *aferoFileSystem) Rename(oldname, newname string) error {
	return a.fs.Rename(oldname, newname)
}

func (a *aferoFileSystem) Remove(name string) error {
	return a.fs.Remove(name)
}

// NewOSFileSystem returns a FileSystem on the real disk
func NewOSFileSystem() FileSystem {
	return &aferoFileSystem{fs: afero.NewOsFs()}
}

// NewMemMapFileSystem returns a FileSystem backed by afero's in-memory filesystem
func NewMemMapFileSystem() FileSystem {
	return &aferoFileSystem{fs: afero.NewMemMapFs()}
}

// NewAferoFileSystem wraps an afero.Fs in the FileSystem interface
func NewAferoFileSystem(fs afero.Fs) FileSystem {
	return &aferoFileSystem{fs: fs}
}
