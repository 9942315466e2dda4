/*
Copyright the Mirrorctl contributors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package filesystem

import (
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Interface defines methods for interacting with an
// underlying file system.
type Interface interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(filename string) ([]byte, error)
	DirExists(path string) (bool, error)
	// IsMountPoint reports whether path is currently listed in the mount
	// table at mtab (normally /proc/mounts).
	IsMountPoint(mtab, path string) (bool, error)
}

// NewFileSystem returns an Interface backed by the OS file system.
func NewFileSystem() Interface {
	return &aferoFileSystem{fs: afero.NewOsFs()}
}

// NewFakeFileSystem returns an in-memory Interface for tests.
func NewFakeFileSystem() Interface {
	return &aferoFileSystem{fs: afero.NewMemMapFs()}
}

type aferoFileSystem struct {
	fs afero.Fs
}

func (f *aferoFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return f.fs.MkdirAll(path, perm)
}

func (f *aferoFileSystem) ReadFile(filename string) ([]byte, error) {
	return afero.ReadFile(f.fs, filename)
}

func (f *aferoFileSystem) DirExists(path string) (bool, error) {
	return afero.DirExists(f.fs, path)
}

func (f *aferoFileSystem) IsMountPoint(mtab, path string) (bool, error) {
	data, err := f.ReadFile(mtab)
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == path {
			return true, nil
		}
	}

	return false, nil
}

// WriteFile writes data to the fake file system; it exists so tests can seed
// mount tables without reaching through the afero layer.
func WriteFile(fs Interface, filename string, data []byte) error {
	afs, ok := fs.(*aferoFileSystem)
	if !ok {
		return os.WriteFile(filename, data, 0644)
	}
	return afero.WriteFile(afs.fs, filename, data, 0644)
}
