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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
	"github.com/mirrorctl/mirrorctl/pkg/jobs"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// DefaultLabel is the replication label stamped on snapshots this tool
// creates, so vault replication policies pick them up.
const DefaultLabel = "Vault"

func NewCreateCommand(f client.Factory, use string) *cobra.Command {
	o := NewCreateOptions()

	c := &cobra.Command{
		Use:   use + " NAME",
		Short: "Create a snapshot of a volume",
		Args:  cobra.ExactArgs(1),
		Example: `  # Create a replication-labeled snapshot of datavol1.
  mirrorctl snapshot create pre-maintenance --svm orapgona --volume datavol1`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Complete(args))
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type CreateOptions struct {
	Name   string
	SVM    string
	Volume string
	Label  string
}

func NewCreateOptions() *CreateOptions {
	return &CreateOptions{
		Label: DefaultLabel,
	}
}

func (o *CreateOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the volume.")
	flags.StringVar(&o.Volume, "volume", o.Volume, "The volume to snapshot.")
	flags.StringVar(&o.Label, "label", o.Label, "Replication label to stamp on the snapshot.")
}

func (o *CreateOptions) Complete(args []string) error {
	o.Name = args[0]
	return nil
}

func (o *CreateOptions) Validate() error {
	if o.SVM == "" || o.Volume == "" {
		return errors.New("--svm and --volume are required")
	}
	return nil
}

func (o *CreateOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	volume, err := api.GetVolume(ctx, o.SVM, o.Volume)
	if err != nil {
		return err
	}

	jobRef, err := api.CreateSnapshot(ctx, volume.UUID, &ontap.Snapshot{
		Name:            o.Name,
		SnapmirrorLabel: o.Label,
	})
	if err != nil {
		return err
	}

	backoff := client.DefaultBackoff()
	watcher := jobs.NewWatcher(api, backoff, cli.Logger())
	result, err := watcher.Wait(ctx, jobRef)
	if err != nil {
		return err
	}
	if result.Outcome == jobs.OutcomeFailed {
		return errors.Errorf("snapshot creation failed: %s", result.Message)
	}

	// "Accepted" is not "exists"; read it back.
	snapshot, err := api.FindSnapshot(ctx, volume.UUID, o.Name)
	if err != nil {
		return errors.Wrapf(err, "snapshot %s was accepted but never became readable", o.Name)
	}

	fmt.Fprintf(c.OutOrStdout(), "Snapshot %q created on volume %s:%s with label %q.\n", snapshot.Name, o.SVM, o.Volume, o.Label)
	return nil
}
