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

package relationship

import (
	"github.com/spf13/cobra"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/output"
)

func NewGetCommand(f client.Factory, use string) *cobra.Command {
	o := &GetOptions{}

	c := &cobra.Command{
		Use:   use,
		Short: "Get replication relationships",
		Long: `Get replication relationships. Without flags, lists the relationships this
cluster is a source for. With --source and/or --destination, shows the full
record of one relationship as the destination cluster reports it.`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type GetOptions struct {
	selector
}

func (o *GetOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	if o.Source == "" && o.Destination == "" {
		relationships, err := api.ListPeerRelationships(ctx)
		if err != nil {
			return err
		}
		output.PrintRelationships(c.OutOrStdout(), relationships)
		return nil
	}

	relationship, err := o.resolve(ctx, api)
	if err != nil {
		return err
	}
	output.PrintRelationship(c.OutOrStdout(), relationship)
	return nil
}
