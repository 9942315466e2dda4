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

import (
	"context"
	"net/url"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

const lunsPath = "storage/luns"

// ListLUNs returns the LUNs whose path starts with pathPrefix (e.g.
// "/vol/datavol1/"), optionally filtered by online/offline state.
func (c *Client) ListLUNs(ctx context.Context, svm, pathPrefix, state string) ([]LUN, error) {
	query := url.Values{}
	query.Set("svm.name", svm)
	query.Set("name", pathPrefix+"*")
	if state != "" {
		query.Set("status.state", state)
	}
	query.Set("fields", "uuid,name,serial_number,status.state")

	var luns collection[LUN]
	if err := c.rest.Get(ctx, lunsPath, query, &luns); err != nil {
		return nil, err
	}
	return luns.Records, nil
}

// GetLUN re-reads one LUN by uuid. Serial rewrites are verified with this
// read, not trusted from the patch response.
func (c *Client) GetLUN(ctx context.Context, uuid string) (*LUN, error) {
	query := url.Values{}
	query.Set("fields", "uuid,name,serial_number,status.state")

	var lun LUN
	if err := c.rest.Get(ctx, lunsPath+"/"+uuid, query, &lun); err != nil {
		return nil, err
	}
	return &lun, nil
}

// SetLUNEnabled takes a LUN online (true) or offline (false).
func (c *Client) SetLUNEnabled(ctx context.Context, uuid string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	return c.rest.Patch(ctx, lunsPath+"/"+uuid, body, nil)
}

// SetLUNSerial overwrites the LUN's serial number. The controller rejects
// this for online LUNs; callers must have taken the LUN offline first.
func (c *Client) SetLUNSerial(ctx context.Context, uuid, serial string) error {
	body := map[string]string{"serial_number": serial}
	return c.rest.Patch(ctx, lunsPath+"/"+uuid, body, nil)
}

// ListLunMaps returns the mappings for the given LUN, optionally narrowed
// to one initiator group.
func (c *Client) ListLunMaps(ctx context.Context, lunName, igroup string) ([]LunMap, error) {
	query := url.Values{}
	query.Set("lun.name", lunName)
	if igroup != "" {
		query.Set("igroup.name", igroup)
	}

	var maps collection[LunMap]
	if err := c.rest.Get(ctx, "protocols/san/lun-maps", query, &maps); err != nil {
		return nil, err
	}
	return maps.Records, nil
}

// CreateLunMap maps a LUN to an initiator group.
func (c *Client) CreateLunMap(ctx context.Context, lunMap *LunMap) error {
	err := c.rest.Post(ctx, "protocols/san/lun-maps", lunMap, nil)
	if err != nil && client.IsConflict(err) {
		// Mapping already exists; creation is idempotent.
		return nil
	}
	return err
}
