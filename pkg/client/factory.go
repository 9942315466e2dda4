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

package client

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Factory knows how to create controller Sessions from the CLI's persistent
// flags, the client config file, and the environment.
type Factory interface {
	// BindFlags binds common flags (--cluster, --username, ...) to the
	// passed-in flag set.
	BindFlags(flags *pflag.FlagSet)
	// Session returns a Session for the configured controller.
	Session() (*Session, error)
	// SessionFor returns a Session with the same credentials pointed at a
	// different controller, for cross-cluster lookups.
	SessionFor(host string) (*Session, error)
	// Cluster returns the configured controller address.
	Cluster() string
}

type factory struct {
	flags *pflag.FlagSet

	cluster               string
	username              string
	password              string
	caCertFile            string
	insecureSkipTLSVerify bool
}

// PasswordEnvVar is consulted when no --password flag is given, so
// credentials stay out of shell history and process listings.
const PasswordEnvVar = "MIRRORCTL_PASSWORD"

// NewFactory returns a Factory seeded from the client config file.
func NewFactory(baseName string, config map[string]string) Factory {
	f := &factory{
		flags:    pflag.NewFlagSet("", pflag.ContinueOnError),
		cluster:  config[ConfigKeyCluster],
		username: config[ConfigKeyUsername],
	}
	if f.username == "" {
		f.username = "admin"
	}
	f.caCertFile = config[ConfigKeyCACert]

	f.flags.StringVar(&f.cluster, "cluster", f.cluster, "The controller management address to connect to (host[:port]).")
	f.flags.StringVar(&f.username, "username", f.username, "API username.")
	f.flags.StringVar(&f.password, "password", "", "API password. Prefer the "+PasswordEnvVar+" environment variable or a credentials file.")
	f.flags.StringVar(&f.caCertFile, "cacert", f.caCertFile, "Path to a certificate bundle to trust for TLS connections to the controller.")
	f.flags.BoolVar(&f.insecureSkipTLSVerify, "insecure-skip-tls-verify", f.insecureSkipTLSVerify, "If true, the controller's certificate will not be checked for validity. This will make connections insecure.")

	return f
}

func (f *factory) BindFlags(flags *pflag.FlagSet) {
	flags.AddFlagSet(f.flags)
}

func (f *factory) Cluster() string {
	return f.cluster
}

func (f *factory) Session() (*Session, error) {
	return f.SessionFor(f.cluster)
}

func (f *factory) SessionFor(host string) (*Session, error) {
	password := f.password
	if password == "" {
		// A dotenv-style credentials file keeps the password off the
		// command line. Absence of the file is not an error.
		_ = godotenv.Load(credentialsFileName())
		password = os.Getenv(PasswordEnvVar)
	}
	if password == "" {
		return nil, errors.Errorf("no API password provided: set --password or %s", PasswordEnvVar)
	}

	return NewSession(Config{
		Host:                  host,
		Username:              f.username,
		Password:              password,
		CACertFile:            f.caCertFile,
		InsecureSkipTLSVerify: f.insecureSkipTLSVerify,
	})
}

func credentialsFileName() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "mirrorctl", "credentials")
}
