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

package clone

import (
	"github.com/spf13/cobra"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

// NewCommand creates the clone command group.
func NewCommand(f client.Factory) *cobra.Command {
	c := &cobra.Command{
		Use:   "clone",
		Short: "Work with writable volume clones",
	}

	c.AddCommand(
		NewCreateCommand(f, "create"),
		NewGetCommand(f, "get"),
		NewDeleteCommand(f, "delete"),
		NewRemapCommand(f, "remap"),
	)

	return c
}
