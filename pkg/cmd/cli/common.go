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

// Package cli holds helpers shared by the CLI subcommands.
package cli

import (
	"github.com/sirupsen/logrus"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cloneops"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/mirror"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// Logger returns the logger the root command configured from the
// --log-level and --log-format flags.
func Logger() logrus.FieldLogger {
	return logrus.StandardLogger()
}

// NewClient returns a control-plane client for the configured controller.
func NewClient(f client.Factory) (*ontap.Client, error) {
	session, err := f.Session()
	if err != nil {
		return nil, err
	}
	return ontap.NewClient(session), nil
}

// NewClientFor returns a control-plane client for a different controller,
// using the same credentials.
func NewClientFor(f client.Factory, host string) (*ontap.Client, error) {
	session, err := f.SessionFor(host)
	if err != nil {
		return nil, err
	}
	return ontap.NewClient(session), nil
}

// NewMachine returns a relationship state machine over the given client
// with the default polling budget.
func NewMachine(api *ontap.Client, log logrus.FieldLogger) *mirror.Machine {
	backoff := client.DefaultBackoff()
	watcher := jobs.NewWatcher(api, backoff, log)
	return mirror.NewMachine(api, watcher, backoff, log)
}

// NewCloneManager returns a clone manager over the given client with the
// default polling budget.
func NewCloneManager(api *ontap.Client, log logrus.FieldLogger) *cloneops.Manager {
	backoff := client.DefaultBackoff()
	watcher := jobs.NewWatcher(api, backoff, log)
	return cloneops.NewManager(api, watcher, backoff, log)
}
