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

package ontap

// Resource is a name/uuid reference to another API object.
type Resource struct {
	Name string `json:"name,omitempty"`
	UUID string `json:"uuid,omitempty"`
}

// VolumeClone is the clone block of a volume. It is only present on
// volumes derived from a snapshot.
type VolumeClone struct {
	IsFlexClone    bool     `json:"is_flexclone,omitempty"`
	ParentVolume   Resource `json:"parent_volume,omitempty"`
	ParentSnapshot Resource `json:"parent_snapshot,omitempty"`
}

// VolumeNAS carries the junction path a volume is exported at.
type VolumeNAS struct {
	Path string `json:"path,omitempty"`
}

// Volume is a storage container owned by an SVM (the tenant context).
type Volume struct {
	Name  string       `json:"name,omitempty"`
	UUID  string       `json:"uuid,omitempty"`
	SVM   Resource     `json:"svm,omitempty"`
	Clone *VolumeClone `json:"clone,omitempty"`
	NAS   *VolumeNAS   `json:"nas,omitempty"`
}

// Snapshot is a named point-in-time marker on a volume.
type Snapshot struct {
	Name            string   `json:"name,omitempty"`
	UUID            string   `json:"uuid,omitempty"`
	SnapmirrorLabel string   `json:"snapmirror_label,omitempty"`
	Volume          Resource `json:"volume,omitempty"`
}

// PathEndpoint identifies one end of a replication relationship by its
// "svm:volume" path.
type PathEndpoint struct {
	Path string   `json:"path,omitempty"`
	SVM  Resource `json:"svm,omitempty"`
}

// TransferStatus is the relationship's last observed transfer sub-state.
type TransferStatus struct {
	State string `json:"state,omitempty"`
	UUID  string `json:"uuid,omitempty"`
}

// Relationship is a replication pairing between a source and destination
// volume. It is created by the storage system; this tool only observes and
// transitions it.
type Relationship struct {
	UUID        string          `json:"uuid,omitempty"`
	Source      PathEndpoint    `json:"source,omitempty"`
	Destination PathEndpoint    `json:"destination,omitempty"`
	State       string          `json:"state,omitempty"`
	Transfer    *TransferStatus `json:"transfer,omitempty"`
}

// Relationship state vocabulary as the API spells it. Two controller
// generations name the pause terminal state differently; both appear here.
const (
	RelationshipStateSnapmirrored  = "snapmirrored"
	RelationshipStatePaused        = "paused"
	RelationshipStateQuiesced      = "quiesced"
	RelationshipStateBrokenOff     = "broken_off"
	RelationshipStateUninitialized = "uninitialized"
	RelationshipStateSynchronizing = "synchronizing"
	RelationshipStateTransferring  = "transferring"
)

// Transfer sub-states that mean no transfer is in flight.
const (
	TransferStateNone    = "none"
	TransferStateSuccess = "success"
	TransferStateFailed  = "failed"
)

// Job is one in-flight asynchronous operation. It is polled until terminal
// and then discarded; nothing here is persisted.
type Job struct {
	UUID        string `json:"uuid,omitempty"`
	State       string `json:"state,omitempty"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
}

const (
	JobStateSuccess = "success"
	JobStateFailure = "failure"
)

// Terminal reports whether the job has reached a terminal state.
func (j *Job) Terminal() bool {
	return j.State == JobStateSuccess || j.State == JobStateFailure
}

// JobRef is the job handle returned by an accepted state-changing request.
type JobRef struct {
	UUID string `json:"uuid,omitempty"`
}

// jobEnvelope wraps the job reference in async-accepted responses.
type jobEnvelope struct {
	Job *JobRef `json:"job,omitempty"`
}

// LUNStatus holds the observed online/offline state of a LUN.
type LUNStatus struct {
	State string `json:"state,omitempty"`
}

const (
	LUNStateOnline  = "online"
	LUNStateOffline = "offline"
)

// LUN is a block device exposed from a volume. The serial number is the
// opaque identity token host initiators use to recognize the device.
type LUN struct {
	Name         string    `json:"name,omitempty"`
	UUID         string    `json:"uuid,omitempty"`
	SerialNumber string    `json:"serial_number,omitempty"`
	Status       LUNStatus `json:"status,omitempty"`
	Enabled      *bool     `json:"enabled,omitempty"`
}

// LunMap associates a LUN with an initiator group at a logical unit number.
type LunMap struct {
	SVM               Resource `json:"svm,omitempty"`
	LUN               Resource `json:"lun,omitempty"`
	Igroup            Resource `json:"igroup,omitempty"`
	LogicalUnitNumber *int     `json:"logical_unit_number,omitempty"`
}

// collection is the controller's list envelope.
type collection[T any] struct {
	Records    []T `json:"records"`
	NumRecords int `json:"num_records"`
}
