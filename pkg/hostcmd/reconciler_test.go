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

package hostcmd

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirrorctl/mirrorctl/pkg/test"
	"github.com/mirrorctl/mirrorctl/pkg/util/filesystem"
)

// fakeRunner records commands and optionally fails a named binary.
type fakeRunner struct {
	commands []string
	failOn   string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	r.commands = append(r.commands, strings.Join(append([]string{name}, args...), " "))
	if r.failOn != "" && name == r.failOn {
		return errors.New("exit status 1")
	}
	return nil
}

func newTestReconciler(runner *fakeRunner, fs filesystem.Interface) *reconciler {
	return &reconciler{
		runner: runner,
		fs:     fs,
		mtab:   "/proc/mounts",
		log:    test.NewLogger(),
	}
}

func TestRescanTransport(t *testing.T) {
	runner := &fakeRunner{}
	r := newTestReconciler(runner, filesystem.NewFakeFileSystem())

	err := r.RescanTransport(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"iscsiadm -m node -R"}, runner.commands)
}

func TestRefreshMultipath(t *testing.T) {
	runner := &fakeRunner{}
	r := newTestReconciler(runner, filesystem.NewFakeFileSystem())

	err := r.RefreshMultipath(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"multipath -r"}, runner.commands)
}

func TestRescanTransportFailureIsCommandFailed(t *testing.T) {
	runner := &fakeRunner{failOn: "iscsiadm"}
	r := newTestReconciler(runner, filesystem.NewFakeFileSystem())

	err := r.RescanTransport(context.Background())

	require.Error(t, err)
	assert.True(t, IsCommandFailed(err))

	var cmdErr *CommandFailedError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "transport rescan", cmdErr.Step)
}

func TestMountCreatesMountPointAndMounts(t *testing.T) {
	runner := &fakeRunner{}
	fs := filesystem.NewFakeFileSystem()
	require.NoError(t, filesystem.WriteFile(fs, "/proc/mounts", []byte("/dev/sda1 / ext4 rw 0 0\n")))

	r := newTestReconciler(runner, fs)

	err := r.Mount(context.Background(), "/dev/mapper/datavol1", "/oradata")

	require.NoError(t, err)
	assert.Equal(t, []string{"mount /dev/mapper/datavol1 /oradata"}, runner.commands)

	exists, err := fs.DirExists("/oradata")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMountIsIdempotentWhenAlreadyMounted(t *testing.T) {
	runner := &fakeRunner{}
	fs := filesystem.NewFakeFileSystem()
	mtab := "/dev/sda1 / ext4 rw 0 0\n/dev/mapper/datavol1 /oradata ext4 rw 0 0\n"
	require.NoError(t, filesystem.WriteFile(fs, "/proc/mounts", []byte(mtab)))

	r := newTestReconciler(runner, fs)

	err := r.Mount(context.Background(), "/dev/mapper/datavol1", "/oradata")

	require.NoError(t, err)
	// Already mounted means success without running mount again.
	assert.Empty(t, runner.commands)
}

func TestMountFailureIsCommandFailed(t *testing.T) {
	runner := &fakeRunner{failOn: "mount"}
	fs := filesystem.NewFakeFileSystem()
	require.NoError(t, filesystem.WriteFile(fs, "/proc/mounts", []byte("")))

	r := newTestReconciler(runner, fs)

	err := r.Mount(context.Background(), "/dev/mapper/datavol1", "/oradata")

	require.Error(t, err)
	var cmdErr *CommandFailedError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "mount", cmdErr.Step)
}
