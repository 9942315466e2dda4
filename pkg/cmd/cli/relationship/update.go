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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
)

func NewUpdateCommand(f client.Factory, use string) *cobra.Command {
	o := &UpdateOptions{}

	c := &cobra.Command{
		Use:   use,
		Short: "Trigger an update transfer and wait for it to settle",
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type UpdateOptions struct {
	selector
}

func (o *UpdateOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	relationship, err := o.resolve(ctx, api)
	if err != nil {
		return err
	}

	machine := cli.NewMachine(api, cli.Logger())
	confirmed, err := machine.Update(ctx, relationship.UUID)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "Relationship %s updated; state is %q.\n", confirmed.Destination.Path, confirmed.State)
	return nil
}
