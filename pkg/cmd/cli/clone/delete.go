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
		Short: "Delete a volume clone",
		Long: `Delete a volume clone. Only flexclone volumes can be deleted with this
command; it refuses to touch ordinary volumes.`,
		Args: cobra.ExactArgs(1),
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
	Name string
	SVM  string
}

func (o *DeleteOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the clone.")
}

func (o *DeleteOptions) Validate() error {
	if o.SVM == "" {
		return errors.New("--svm is required")
	}
	return nil
}

func (o *DeleteOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	volume, err := api.GetVolume(ctx, o.SVM, o.Name)
	if err != nil {
		return err
	}

	// The guard that keeps this command from deleting real data: only
	// volumes the controller marks as flexclones are deletable here.
	if volume.Clone == nil || !volume.Clone.IsFlexClone {
		return errors.Errorf("volume %s:%s is not a flexclone; refusing to delete it", o.SVM, o.Name)
	}

	jobRef, err := api.DeleteVolume(ctx, volume.UUID)
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
		return errors.Errorf("clone deletion failed: %s", result.Message)
	}

	fmt.Fprintf(c.OutOrStdout(), "Clone %s:%s deleted.\n", o.SVM, o.Name)
	return nil
}
