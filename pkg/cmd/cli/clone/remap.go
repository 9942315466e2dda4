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
	"gopkg.in/yaml.v3"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/cmd"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/cli"
	"github.com/mirrorctl/mirrorctl/pkg/cmd/util/flag"
	"github.com/mirrorctl/mirrorctl/pkg/util/filesystem"
)

// Plan describes a set of already-derived clones whose LUN identities
// should be rewritten and mapped. It is the file form of the remap command's
// flags, for running the same remap across many volumes repeatably.
type Plan struct {
	SVM     string      `yaml:"svm"`
	Igroups []string    `yaml:"igroups"`
	Volumes []PlanEntry `yaml:"volumes"`
}

// PlanEntry pairs one parent volume with the clone derived from it.
type PlanEntry struct {
	Parent string `yaml:"parent"`
	Clone  string `yaml:"clone"`
}

// LoadPlan reads and validates a remap plan file.
func LoadPlan(fs filesystem.Interface, path string) (*Plan, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading plan file %s", path)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, errors.Wrapf(err, "error parsing plan file %s", path)
	}

	if plan.SVM == "" {
		return nil, errors.Errorf("plan file %s: svm is required", path)
	}
	if len(plan.Volumes) == 0 {
		return nil, errors.Errorf("plan file %s: at least one volume entry is required", path)
	}
	for i, entry := range plan.Volumes {
		if entry.Parent == "" || entry.Clone == "" {
			return nil, errors.Errorf("plan file %s: volume entry %d needs both parent and clone", path, i)
		}
	}

	return &plan, nil
}

func NewRemapCommand(f client.Factory, use string) *cobra.Command {
	o := &RemapOptions{fs: filesystem.NewFileSystem()}

	c := &cobra.Command{
		Use:   use,
		Short: "Rewrite the LUN identities of existing clones and map them",
		Example: `  # Remap a single clone's LUNs to carry the parent volume's serial numbers.
  mirrorctl clone remap --svm orapgona --parent datavol1 \
      --clone pre-maintenance_CLONE_01012025_120000 --igroup ig_oracle

  # Remap a batch of clones described in a plan file.
  mirrorctl clone remap --plan remap-plan.yaml`,
		Run: func(c *cobra.Command, args []string) {
			cmd.CheckError(o.Complete())
			cmd.CheckError(o.Validate())
			cmd.CheckError(o.Run(c, f))
		},
	}

	o.BindFlags(c.Flags())

	return c
}

type RemapOptions struct {
	SVM      string
	Parent   string
	Clone    string
	Igroups  flag.StringArray
	PlanFile string

	fs   filesystem.Interface
	plan *Plan
}

func (o *RemapOptions) BindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.SVM, "svm", o.SVM, "The SVM owning the clone.")
	flags.StringVar(&o.Parent, "parent", o.Parent, "The parent volume the clone was derived from.")
	flags.StringVar(&o.Clone, "clone", o.Clone, "The clone volume whose LUNs to remap.")
	flags.Var(&o.Igroups, "igroup", "Initiator group to map clone LUNs into. May be repeated or comma-separated.")
	flags.StringVar(&o.PlanFile, "plan", o.PlanFile, "Path to a YAML plan file describing the clones to remap. Mutually exclusive with --svm/--parent/--clone.")
}

func (o *RemapOptions) Complete() error {
	if o.PlanFile == "" {
		return nil
	}

	plan, err := LoadPlan(o.fs, o.PlanFile)
	if err != nil {
		return err
	}
	o.plan = plan
	return nil
}

func (o *RemapOptions) Validate() error {
	if o.PlanFile != "" {
		if o.SVM != "" || o.Parent != "" || o.Clone != "" {
			return errors.New("--plan cannot be combined with --svm, --parent, or --clone")
		}
		return nil
	}

	if o.SVM == "" || o.Parent == "" || o.Clone == "" {
		return errors.New("either --plan or all of --svm, --parent, and --clone are required")
	}
	return nil
}

func (o *RemapOptions) Run(c *cobra.Command, f client.Factory) error {
	ctx := c.Context()

	api, err := cli.NewClient(f)
	if err != nil {
		return err
	}
	manager := cli.NewCloneManager(api, cli.Logger())

	plan := o.plan
	if plan == nil {
		plan = &Plan{
			SVM:     o.SVM,
			Igroups: o.Igroups,
			Volumes: []PlanEntry{{Parent: o.Parent, Clone: o.Clone}},
		}
	}

	var failed bool
	for _, entry := range plan.Volumes {
		remaps, err := manager.RemapIdentity(ctx, plan.SVM, entry.Parent, entry.Clone)
		if err != nil {
			fmt.Fprintf(c.OutOrStdout(), "Remap of clone %s failed: %v\n", entry.Clone, err)
			failed = true
			continue
		}

		for _, remap := range remaps {
			fmt.Fprintf(c.OutOrStdout(), "LUN %s now carries serial %s (%s).\n", remap.LUN, remap.SerialNumber, remap.FinalState)

			mappings, err := manager.EnsureMappings(ctx, plan.SVM, remap.LUN, plan.Igroups)
			if err != nil {
				fmt.Fprintf(c.OutOrStdout(), "Mapping of LUN %s failed: %v\n", remap.LUN, err)
				failed = true
				break
			}
			for _, mapping := range mappings {
				action := "already mapped to"
				if mapping.Created {
					action = "mapped to"
				}
				fmt.Fprintf(c.OutOrStdout(), "LUN %s %s igroup %s.\n", mapping.LUN, action, mapping.Igroup)
			}
		}
	}

	if failed {
		return errors.New("one or more clones failed to remap")
	}
	return nil
}
