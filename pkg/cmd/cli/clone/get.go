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
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/output"
)

func NewGetCommand(f client.Factory, use string) *cobra.Command {
	o := &GetOptions{}

	c := &cobra.Command{
		Use:   use,
		Short: "Get the clones derived from a volume",
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type GetOptions struct {
	SVM    string
	Parent string
}

func (o *GetOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the parent volume.")
	flags.StringVar(&o.Parent, "parent", o.Parent, "The parent volume whose clones to list.")
}

func (o *GetOptions) Validate() error {
	if o.SVM == "" || o.Parent == "" {
		return errors.New("--svm and --parent are required")
	}
	return nil
}

func (o *GetOptions) Run(c *cobra.Command, f client.Factory) error {
	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	clones, err := api.ListClones(c.Context(), o.SVM, o.Parent)
	if err != nil {
		return err
	}

	output.PrintVolumes(c.OutOrStdout(), clones)
	return nil
}
