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

// Package hostcmd reconciles the host's view of block devices after the
// control plane has changed what a LUN means: transport rescan, multipath
// refresh, filesystem mount. The commands are external collaborators; this
// package only reports their success or failure.
package hostcmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/util/exec"
	"github.com/mirrorctl/mirrorctl/pkg/util/filesystem"
)

// Reconciler is the host-side capability the orchestrator consumes.
type Reconciler interface {
	RescanTransport(ctx context.Context) error
	RefreshMultipath(ctx context.Context) error
	// Mount mounts devicePath at mountPoint. Already-mounted is success.
	Mount(ctx context.Context, devicePath, mountPoint string) error
}

// CommandFailedError reports a failed host-side step. It is fatal for the
// workflow; subsequent host-side steps are skipped.
type CommandFailedError struct {
	Step string
	Err  error
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("host command failed during %s: %v", e.Step, e.Err)
}

func (e *CommandFailedError) Unwrap() error { return e.Err }

// IsCommandFailed reports whether err is a CommandFailedError.
func IsCommandFailed(err error) bool {
	var target *CommandFailedError
	return errors.As(err, &target)
}

const defaultMountTable = "/proc/mounts"

type reconciler struct {
	runner exec.Runner
	fs     filesystem.Interface
	mtab   string
	log    logrus.FieldLogger
}

// NewReconciler returns the default Reconciler, which shells out to
// iscsiadm, multipath, and mount.
func NewReconciler(runner exec.Runner, fs filesystem.Interface, log logrus.FieldLogger) Reconciler {
	return &reconciler{
		runner: runner,
		fs:     fs,
		mtab:   defaultMountTable,
		log:    log,
	}
}

func (r *reconciler) RescanTransport(ctx context.Context) error {
	r.log.Info("Rescanning iSCSI transport")
	if err := r.runner.Run(ctx, "iscsiadm", "-m", "node", "-R"); err != nil {
		return errors.WithStack(&CommandFailedError{Step: "transport rescan", Err: err})
	}
	return nil
}

func (r *reconciler) RefreshMultipath(ctx context.Context) error {
	r.log.Info("Refreshing multipath maps")
	if err := r.runner.Run(ctx, "multipath", "-r"); err != nil {
		return errors.WithStack(&CommandFailedError{Step: "multipath refresh", Err: err})
	}
	return nil
}

func (r *reconciler) Mount(ctx context.Context, devicePath, mountPoint string) error {
	log := r.log.WithFields(logrus.Fields{
		"device":     devicePath,
		"mountPoint": mountPoint,
	})

	mounted, err := r.fs.IsMountPoint(r.mtab, mountPoint)
	if err != nil {
		return errors.WithStack(&CommandFailedError{Step: "mount", Err: err})
	}
	if mounted {
		log.Info("Mount point already mounted")
		return nil
	}

	if err := r.fs.MkdirAll(mountPoint, 0755); err != nil {
		return errors.WithStack(&CommandFailedError{Step: "mount", Err: err})
	}

	log.Info("Mounting device")
	if err := r.runner.Run(ctx, "mount", devicePath, mountPoint); err != nil {
		return errors.WithStack(&CommandFailedError{Step: "mount", Err: err})
	}
	return nil
}
