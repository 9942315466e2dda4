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

package cloneops

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirrorctl/mirrorctl/pkg/client"
	"github.com/mirrorctl/mirrorctl/pkg/ontap"
)

// fakeCloneAPI is an in-memory control plane for clone and LUN tests.
type fakeCloneAPI struct {
	volumes   map[string]*ontap.Volume   // svm:name
	snapshots map[string]*ontap.Snapshot // volumeUUID/name
	luns      map[string]*ontap.LUN      // uuid
	lunMaps   []ontap.LunMap

	createdVolumes []*ontap.Volume
	lunMapCreates  int

	// allowOffline, when false, makes offline requests take no effect.
	allowOffline bool

	// ops records LUN mutations in order, for sequencing assertions.
	ops []string
}

func newFakeCloneAPI() *fakeCloneAPI {
	return &fakeCloneAPI{
		volumes:      map[string]*ontap.Volume{},
		snapshots:    map[string]*ontap.Snapshot{},
		luns:         map[string]*ontap.LUN{},
		allowOffline: true,
	}
}

func (f *fakeCloneAPI) addVolume(v *ontap.Volume) {
	f.volumes[v.SVM.Name+":"+v.Name] = v
}

func (f *fakeCloneAPI) addSnapshot(volumeUUID string, s *ontap.Snapshot) {
	f.snapshots[volumeUUID+"/"+s.Name] = s
}

func (f *fakeCloneAPI) addLUN(l *ontap.LUN) {
	f.luns[l.UUID] = l
}

func (f *fakeCloneAPI) GetVolume(ctx context.Context, svm, name string) (*ontap.Volume, error) {
	if v, ok := f.volumes[svm+":"+name]; ok {
		return v, nil
	}
	return nil, client.NewNotFound(fmt.Sprintf("volume %s:%s", svm, name))
}

func (f *fakeCloneAPI) CreateVolume(ctx context.Context, volume *ontap.Volume) (*ontap.JobRef, error) {
	f.createdVolumes = append(f.createdVolumes, volume)

	created := *volume
	created.UUID = "uuid-" + volume.Name
	f.addVolume(&created)

	return &ontap.JobRef{UUID: "job-clone"}, nil
}

func (f *fakeCloneAPI) FindSnapshot(ctx context.Context, volumeUUID, name string) (*ontap.Snapshot, error) {
	if s, ok := f.snapshots[volumeUUID+"/"+name]; ok {
		return s, nil
	}
	return nil, client.NewNotFound(fmt.Sprintf("snapshot %s", name))
}

func (f *fakeCloneAPI) ListLUNs(ctx context.Context, svm, pathPrefix, state string) ([]ontap.LUN, error) {
	var out []ontap.LUN
	for _, l := range f.luns {
		if !strings.HasPrefix(l.Name, pathPrefix) {
			continue
		}
		if state != "" && l.Status.State != state {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeCloneAPI) GetLUN(ctx context.Context, uuid string) (*ontap.LUN, error) {
	if l, ok := f.luns[uuid]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, client.NewNotFound(fmt.Sprintf("LUN %s", uuid))
}

func (f *fakeCloneAPI) SetLUNEnabled(ctx context.Context, uuid string, enabled bool) error {
	l, ok := f.luns[uuid]
	if !ok {
		return client.NewNotFound(fmt.Sprintf("LUN %s", uuid))
	}

	if enabled {
		f.ops = append(f.ops, "online "+uuid)
		l.Status.State = ontap.LUNStateOnline
		return nil
	}

	f.ops = append(f.ops, "offline "+uuid)
	if f.allowOffline {
		l.Status.State = ontap.LUNStateOffline
	}
	return nil
}

func (f *fakeCloneAPI) SetLUNSerial(ctx context.Context, uuid, serial string) error {
	l, ok := f.luns[uuid]
	if !ok {
		return client.NewNotFound(fmt.Sprintf("LUN %s", uuid))
	}

	f.ops = append(f.ops, "serial "+uuid)
	l.SerialNumber = serial
	return nil
}

func (f *fakeCloneAPI) ListLunMaps(ctx context.Context, lunName, igroup string) ([]ontap.LunMap, error) {
	var out []ontap.LunMap
	for _, m := range f.lunMaps {
		if m.LUN.Name == lunName && m.Igroup.Name == igroup {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCloneAPI) CreateLunMap(ctx context.Context, lunMap *ontap.LunMap) error {
	f.lunMapCreates++
	f.lunMaps = append(f.lunMaps, *lunMap)
	return nil
}
