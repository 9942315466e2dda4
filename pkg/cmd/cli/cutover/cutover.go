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

package cutover

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/output"
	"github.com/mirrorctl/mirrorctl/pkg/hostcmd"
	"github.com/mirrorctl/mirrorctl/pkg/util/exec"
	"github.com/mirrorctl/mirrorctl/pkg/util/filesystem"
	"github.com/mirrorctl/mirrorctl/pkg/workflow"
)

// NewCommand creates the cutover command.
func NewCommand(f client.Factory) *cobra.Command {
	o := NewOptions()

	c := &cobra.Command{
		Use:   "cutover",
		Short: "Cut over to the replicated copy of a volume",
		Long: `Cut over to the replicated copy of a volume: run a final update transfer,
break the relationship so the destination becomes writable, then rescan the
host's transport, refresh multipath, and mount the destination device.

The configured --cluster must be the source cluster; the destination is
found through the volume's replication relationship. The first failing step
aborts the remainder. There is no rollback.`,
		Example: `  mirrorctl cutover --svm orapgona --volume datavol1 \
      --device /dev/mapper/datavol1 --mount-point /oradata`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type Options struct {
	SVM             string
	Volume          string
	DevicePath      string
	MountPoint      string
	PostBreakSettle time.Duration
	PreMountSettle  time.Duration
	SkipQuiesce     bool
}

func NewOptions() *Options {
	return &Options{
		// Give the controller a moment to expose the writable LUNs before
		// the host goes looking for them.
		PostBreakSettle: 10 * time.Second,
		PreMountSettle:  5 * time.Second,
	}
}

func (o *Options) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the source volume.")
	flags.StringVar(&o.Volume, "volume", o.Volume, "The source volume to cut away from.")
	flags.StringVar(&o.DevicePath, "device", o.DevicePath, "The host device path of the destination LUN (for example /dev/mapper/...).")
	flags.StringVar(&o.MountPoint, "mount-point", o.MountPoint, "Where to mount the destination device.")
	flags.DurationVar(&o.PostBreakSettle, "post-break-settle", o.PostBreakSettle, "How long to wait after the break before rescanning the transport.")
	flags.DurationVar(&o.PreMountSettle, "pre-mount-settle", o.PreMountSettle, "How long to wait after the multipath refresh before mounting.")
	flags.BoolVar(&o.SkipQuiesce, "skip-quiesce", o.SkipQuiesce, "Break the relationship directly, without pausing it first.")
}

func (o *Options) Validate() error {
	if o.SVM == "" || o.Volume == "" {
		return errors.New("--svm and --volume are required")
	}
	if o.DevicePath == "" || o.MountPoint == "" {
		return errors.New("--device and --mount-point are required")
	}
	return nil
}

func (o *Options) Run(c *cobra.Command, f client.Factory) error {
	log := cli.Logger()

	source, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	dial := func(ctx context.Context, svm string) (*workflow.Destination, error) {
		api, err := cli.NewClientFor(f, svm)
		if err != nil {
			return nil, err
		}

		machine := cli.NewMachine(api, log)
		machine.QuiesceBeforeBreak = !o.SkipQuiesce

		return &workflow.Destination{API: api, Mirror: machine}, nil
	}

	host := hostcmd.NewReconciler(exec.NewRunner(), filesystem.NewFileSystem(), log)
	driver := workflow.NewDriver(source, dial, host, nil, log)

	result := driver.Cutover(c.Context(), workflow.CutoverOptions{
		SVM:             o.SVM,
		Volume:          o.Volume,
		DevicePath:      o.DevicePath,
		MountPoint:      o.MountPoint,
		PostBreakSettle: o.PostBreakSettle,
		PreMountSettle:  o.PreMountSettle,
	})

	output.PrintWorkflowResult(c.OutOrStdout(), result)
	if !result.Succeeded() {
		return errors.New("cutover did not complete")
	}
	return nil
}
