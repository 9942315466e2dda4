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

// Package output renders command results for terminals. Workflows and the
// control-plane client return structured values; everything printable
// lives here.
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mirrorctl/mirrorctl/pkg/ontap"
	"github.com/mirrorctl/mirrorctl/pkg/workflow"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

func statusString(status workflow.StepStatus) string {
	switch status {
	case workflow.StepCompleted:
		return green(string(status))
	case workflow.StepFailed:
		return red(string(status))
	case workflow.StepIndeterminate:
		return yellow(string(status))
	default:
		return faint(string(status))
	}
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
}

// PrintRelationships prints one line per replication relationship.
func PrintRelationships(w io.Writer, relationships []ontap.Relationship) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "SOURCE\tDESTINATION\tSTATE")
	for i := range relationships {
		r := &relationships[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Source.Path, r.Destination.Path, r.State)
	}
	tw.Flush()
}

// PrintRelationship prints one relationship in detail.
func PrintRelationship(w io.Writer, r *ontap.Relationship) {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "UUID:\t%s\n", r.UUID)
	fmt.Fprintf(tw, "Source:\t%s\n", r.Source.Path)
	fmt.Fprintf(tw, "Destination:\t%s\n", r.Destination.Path)
	fmt.Fprintf(tw, "State:\t%s\n", r.State)
	if r.Transfer != nil && r.Transfer.State != "" {
		fmt.Fprintf(tw, "Transfer:\t%s\n", r.Transfer.State)
	}
	tw.Flush()
}

// PrintSnapshots prints one line per snapshot.
func PrintSnapshots(w io.Writer, snapshots []ontap.Snapshot) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "NAME\tLABEL\tUUID")
	for i := range snapshots {
		s := &snapshots[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.SnapmirrorLabel, s.UUID)
	}
	tw.Flush()
}

// PrintVolumes prints one line per volume, with its clone parentage when
// present.
func PrintVolumes(w io.Writer, volumes []ontap.Volume) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "NAME\tSVM\tPARENT\tSNAPSHOT")
	for i := range volumes {
		v := &volumes[i]
		parent, snapshot := "", ""
		if v.Clone != nil {
			parent = v.Clone.ParentVolume.Name
			snapshot = v.Clone.ParentSnapshot.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Name, v.SVM.Name, parent, snapshot)
	}
	tw.Flush()
}

// PrintWorkflowResult prints the step trace of a workflow invocation.
func PrintWorkflowResult(w io.Writer, result *workflow.Result) {
	fmt.Fprintf(w, "Workflow %s (%s)\n", result.Workflow, result.ID)

	tw := newTabWriter(w)
	for _, step := range result.Steps {
		detail := step.Resource
		if step.ObservedState != "" {
			detail = fmt.Sprintf("%s (%s)", detail, step.ObservedState)
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", step.Name, statusString(step.Status), detail)
		if step.Err != nil {
			fmt.Fprintf(tw, "  \t\t%s\n", red(step.Err.Error()))
		}
	}
	tw.Flush()

	if result.Succeeded() {
		fmt.Fprintln(w, green("Workflow completed successfully."))
	} else {
		fmt.Fprintln(w, red("Workflow did not complete."))
	}
}

// PrintBatchResult prints the per-volume outcomes of a clone batch.
func PrintBatchResult(w io.Writer, result *workflow.BatchResult) {
	fmt.Fprintf(w, "Clone batch (%s)\n", result.ID)

	for _, outcome := range result.Volumes {
		if outcome.Err != nil {
			fmt.Fprintf(w, "  %s: %s\n", outcome.ParentVolume, red(outcome.Err.Error()))
			continue
		}

		fmt.Fprintf(w, "  %s -> %s: %s\n", outcome.ParentVolume, outcome.Clone, green("Completed"))

		tw := newTabWriter(w)
		for _, remap := range outcome.Remaps {
			fmt.Fprintf(tw, "    %s\tserial %s\t%s\n", remap.LUN, remap.SerialNumber, remap.FinalState)
		}
		for _, mapping := range outcome.Mappings {
			action := "already mapped"
			if mapping.Created {
				action = "mapped"
			}
			fmt.Fprintf(tw, "    %s\t%s\t%s\n", mapping.LUN, action, mapping.Igroup)
		}
		tw.Flush()
	}
}
