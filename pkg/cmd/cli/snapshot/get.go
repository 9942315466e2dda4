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
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/output"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

func NewGetCommand(f client.Factory, use string) *cobra.Command {
	o := &GetOptions{}

	c := &cobra.Command{
		Use:   use,
		Short: "Get the snapshots of a volume",
		Example: `  # List snapshots of the source volume.
  mirrorctl snapshot get --svm orapgona --volume datavol1

  # List snapshots that have arrived on the replication destination.
  mirrorctl snapshot get --svm orapgona --volume datavol1 --destination`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type GetOptions struct {
	SVM         string
	Volume      string
	Destination bool
}

func (o *GetOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the volume.")
	flags.StringVar(&o.Volume, "volume", o.Volume, "The volume whose snapshots to list.")
	flags.BoolVar(&o.Destination, "destination", o.Destination, "List snapshots of the volume's replication destination instead of the volume itself.")
}

func (o *GetOptions) Validate() error {
	if o.SVM == "" || o.Volume == "" {
		return errors.New("--svm and --volume are required")
	}
	return nil
}

func (o *GetOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}

	svm, volumeName := o.SVM, o.Volume
	if o.Destination {
		api, svm, volumeName, err = o.resolveDestination(ctx, f, api)
		if err != nil {
			return err
		}
	}

	volume, err := api.GetVolume(ctx, svm, volumeName)
	if err != nil {
		return err
	}

	snapshots, err := api.ListSnapshots(ctx, volume.UUID)
	if err != nil {
		return err
	}

	output.PrintSnapshots(c.OutOrStdout(), snapshots)
	return nil
}

// resolveDestination follows the volume's replication relationship and
// returns a client for the destination SVM along with the destination
// volume coordinates.
func (o *GetOptions) resolveDestination(ctx context.Context, f client.Factory, api *ontap.Client) (*ontap.Client, string, string, error) {
	sourcePath := o.SVM + ":" + o.Volume

	peers, err := api.ListPeerRelationships(ctx)
	if err != nil {
		return nil, "", "", err
	}

	for i := range peers {
		if peers[i].Source.Path != sourcePath {
			continue
		}

		destSVM, destVolume, ok := strings.Cut(peers[i].Destination.Path, ":")
		if !ok {
			return nil, "", "", errors.Errorf("malformed destination path %q", peers[i].Destination.Path)
		}

		destAPI, err := cli.NewClientFor(f, destSVM)
		if err != nil {
			return nil, "", "", err
		}
		return destAPI, destSVM, destVolume, nil
	}

	return nil, "", "", errors.Errorf("volume %s has no replication destination", sourcePath)
}
