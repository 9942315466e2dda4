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

package mirrorctl

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	cliclient "github.com/mirrorctl/mirrorctl/pkg/cmd/cli/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli/clone"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli/cutover"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli/relationship"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli/snapshot"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli/version"
	"github.com/mirrorctl/mirrorctl/pkg/util/logging"
)

func NewCommand(name string) *cobra.Command {
	// Load the config here so the factory can seed its flag defaults from it.
	config, err := client.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Error reading config file: %v\n", err)
	}

	logLevelFlag := logging.LogLevelFlag(logrus.InfoLevel)
	formatFlag := logging.NewFormatFlag()

	c := &cobra.Command{
		Use:   name,
		Short: "Orchestrate replicated volumes and their clones.",
		Long: `Mirrorctl drives volume replication relationships and writable clones on
NetApp ONTAP controllers: it takes labeled snapshots, updates and breaks
replication relationships, cuts hosts over to the replicated copy, and
derives clones whose block devices carry their parents' identities.`,
		// PersistentPreRun will run before all subcommands EXCEPT in the following conditions:
		//  - a subcommand defines its own PersistentPreRun function
		//  - the command is run without arguments or with --help and only prints the usage info
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := logging.DefaultLogger(logLevelFlag.Parse(), formatFlag.Parse())

			// Subcommands share the standard logger; point it at the
			// configured one.
			logrus.SetOutput(logger.Out)
			logrus.SetFormatter(logger.Formatter)
			logrus.SetLevel(logger.Level)
			for _, hook := range logging.DefaultHooks() {
				logrus.AddHook(hook)
			}
		},
	}

	f := client.NewFactory(name, config)
	f.BindFlags(c.PersistentFlags())

	c.PersistentFlags().Var(logLevelFlag, "log-level", fmt.Sprintf("The level at which to log. Valid values are %s.", strings.Join(logLevelFlag.AllowedValues(), ", ")))
	c.PersistentFlags().Var(formatFlag, "log-format", fmt.Sprintf("The format for log output. Valid values are %s.", strings.Join(formatFlag.AllowedValues(), ", ")))

	c.AddCommand(
		snapshot.NewCommand(f),
		relationship.NewCommand(f),
		clone.NewCommand(f),
		cutover.NewCommand(f),
		cliclient.NewCommand(),
		version.NewCommand(),
	)

	return c
}
