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

package config

import (
	"github.com/spf13/cobra"
)

// NewCommand creates the client config command group.
func NewCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Get and set client configuration file values",
	}

	c.AddCommand(
		NewGetCommand(),
		NewSetCommand(),
	)

	return c
}
