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

package snapshot

import (
	"github.com/spf13/cobra"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

// NewCommand creates the snapshot command group.
func NewCommand(f client.Factory) *cobra.Command {
	c := &cobra.Command{
		Use:   "snapshot",
		Short: "Work with volume snapshots",
	}

	c.AddCommand(
		NewCreateCommand(f, "create"),
		NewGetCommand(f, "get"),
		NewDeleteCommand(f, "delete"),
	)

	return c
}
