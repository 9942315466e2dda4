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
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/flag"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/output"
	"github.com/mirrorctl/mirrorctl/pkg/workflow"
)

func NewCreateCommand(f client.Factory, use string) *cobra.Command {
	o := &CreateOptions{}

	c := &cobra.Command{
		Use:   use,
		Short: "Derive writable clones from a snapshot and remap their LUN identities",
		Example: `  # Clone two volumes from the same snapshot and map the clone LUNs.
  mirrorctl clone create --svm orapgona --volume datavol1 --volume datavol2 \
      --snapshot pre-maintenance --igroup ig_oracle`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type CreateOptions struct {
	SVM      string
	Volumes  flag.StringArray
	Snapshot string
	Name     string
	Igroups  flag.StringArray
}

func (o *CreateOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the parent volumes.")
	flags.Var(&o.Volumes, "volume", "Parent volume to clone. May be repeated or comma-separated.")
	flags.StringVar(&o.Snapshot, "snapshot", o.Snapshot, "The snapshot to clone from.")
	flags.StringVar(&o.Name, "name", o.Name, "Clone name. Only valid with a single parent volume; generated when omitted.")
	flags.Var(&o.Igroups, "igroup", "Initiator group to map clone LUNs into. May be repeated or comma-separated.")
}

func (o *CreateOptions) Validate() error {
	if o.SVM == "" || len(o.Volumes) == 0 || o.Snapshot == "" {
		return errors.New("--svm, --volume, and --snapshot are required")
	}
	if o.Name != "" && len(o.Volumes) > 1 {
		return errors.New("--name requires exactly one --volume")
	}
	return nil
}

func (o *CreateOptions) Run(c *cobra.Command, f client.Factory) error {
	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	log := cli.Logger()
	driver := workflow.NewDriver(nil, nil, nil, cli.NewCloneManager(api, log), log)

	result := driver.CloneAndRemap(c.Context(), workflow.CloneAndRemapOptions{
		SVM:           o.SVM,
		ParentVolumes: o.Volumes,
		Snapshot:      o.Snapshot,
		CloneName:     o.Name,
		Igroups:       o.Igroups,
	})

	output.PrintBatchResult(c.OutOrStdout(), result)
	if !result.Succeeded() {
		return errors.New("one or more volumes failed to clone")
	}
	return nil
}
