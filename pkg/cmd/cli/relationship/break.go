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
	"github.com/spf13/pflag"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
)

func NewBreakCommand(f client.Factory, use string) *cobra.Command {
	o := NewBreakOptions()

	c := &cobra.Command{
		Use:   use,
		Short: "Break a relationship, making the destination writable",
		Long: `Break a relationship, making the destination writable. A settled
relationship is quiesced first so it is not mid-transfer when broken;
--skip-quiesce disables that and breaks directly.`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type BreakOptions struct {
	selector
	SkipQuiesce bool
}

func NewBreakOptions() *BreakOptions {
	return &BreakOptions{}
}

func (o *BreakOptions) BindFlags(flags *pflag.FlagSet) {
	o.selector.BindFlags(flags)
	flags.BoolVar(&o.SkipQuiesce, "skip-quiesce", o.SkipQuiesce, "Break a settled relationship directly, without pausing it first.")
}

func (o *BreakOptions) Run(c *cobra.Command, f client.Factory) error {
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
	machine.QuiesceBeforeBreak = !o.SkipQuiesce

	confirmed, err := machine.Break(ctx, relationship.UUID)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.OutOrStdout(), "Relationship %s broken; destination is writable (state %q).\n", confirmed.Destination.Path, confirmed.State)
	return nil
}
