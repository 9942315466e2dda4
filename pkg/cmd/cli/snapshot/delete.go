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
)

func NewDeleteCommand(f client.Factory, use string) *cobra.Command {
	o := &DeleteOptions{}

	c := &cobra.Command{
		Use:   use + " NAME",
		Short: "Delete a snapshot of a volume",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			o.Name = args[0]
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type DeleteOptions struct {
	Name   string
	SVM    string
	Volume string
}

func (o *DeleteOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the volume.")
	flags.StringVar(&o.Volume, "volume", o.Volume, "The volume the snapshot belongs to.")
}

func (o *DeleteOptions) Validate() error {
	if o.SVM == "" || o.Volume == "" {
		return errors.New("--svm and --volume are required")
	}
	return nil
}

func (o *DeleteOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	volume, err := api.GetVolume(ctx, o.SVM, o.Volume)
	if err != nil {
		return err
	}

	snapshot, err := api.FindSnapshot(ctx, volume.UUID, o.Name)
	if err != nil {
		return err
	}

	jobRef, err := api.DeleteSnapshot(ctx, volume.UUID, snapshot.UUID)
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
		return errors.Errorf("snapshot deletion failed: %s", result.Message)
	}

	fmt.Fprintf(c.OutOrStdout(), "Snapshot %q deleted from volume %s:%s.\n", o.Name, o.SVM, o.Volume)
	return nil
}
