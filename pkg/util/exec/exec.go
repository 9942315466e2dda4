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

package exec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

// RunCommand runs a command and returns its stdout, stderr, and its returned
// error (if any).
func RunCommand(cmd *exec.Cmd) (string, string, error) {
	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)

	cmd.Stdout = stdoutBuf
	cmd.Stderr = stderrBuf

	runErr := cmd.Run()

	return stdoutBuf.String(), stderrBuf.String(), runErr
}

// Runner executes external commands. It exists so callers that shell out to
// host utilities can be tested without touching a real host.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// NewRunner returns a Runner backed by os/exec.
func NewRunner() Runner {
	return &osRunner{}
}

type osRunner struct{}

func (*osRunner) Run(ctx context.Context, name string, args ...string) error {
	stdout, stderr, err := RunCommand(exec.CommandContext(ctx, name, args...))
	if err != nil {
		return errors.Wrapf(err, "error running %q: stdout=%q, stderr=%q", name, stdout, stderr)
	}
	return nil
}
