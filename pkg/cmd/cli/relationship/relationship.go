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
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// NewCommand creates the relationship command group.
func NewCommand(f client.Factory) *cobra.Command {
	c := &cobra.Command{
		Use:   "relationship",
		Short: "Work with replication relationships",
	}

	c.AddCommand(
		NewGetCommand(f, "get"),
		NewUpdateCommand(f, "update"),
		NewQuiesceCommand(f, "quiesce"),
		NewBreakCommand(f, "break"),
	)

	return c
}

// selector addresses one relationship by source and/or destination path.
// Transition commands share it; they all run against the destination
// cluster, where the full relationship record lives.
type selector struct {
	Source      string
	Destination string
}

func (s *selector) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&s.Source, "source", s.Source, "The relationship's source path (svm:volume).")
	flags.StringVar(&s.Destination, "destination", s.Destination, "The relationship's destination path (svm:volume).")
}

func (s *selector) Validate() error {
	if s.Source == "" && s.Destination == "" {
		return errors.New("at least one of --source and --destination is required")
	}
	return nil
}

func (s *selector) resolve(ctx context.Context, api *ontap.Client) (*ontap.Relationship, error) {
	return api.FindRelationship(ctx, s.Source, s.Destination)
}
