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
	"fmt"
	"net/url"

	"github.com/mirrorctl/mirrorctl/pkg/client"
)

const relationshipsPath = "snapmirror/relationships"

// ListPeerRelationships lists relationships this cluster is a source for
// (the "destinations only" index). It is the only relationship query that
// works from the source side; everything else runs against the destination
// cluster.
func (c *Client) ListPeerRelationships(ctx context.Context) ([]Relationship, error) {
	query := url.Values{}
	query.Set("list_destinations_only", "true")
	query.Set("fields", "source,destination")

	var relationships collection[Relationship]
	if err := c.rest.Get(ctx, relationshipsPath, query, &relationships); err != nil {
		return nil, err
	}
	return relationships.Records, nil
}

// FindRelationship returns the relationship addressed by source and/or
// destination path. At most one relationship exists for a given pair.
func (c *Client) FindRelationship(ctx context.Context, sourcePath, destinationPath string) (*Relationship, error) {
	query := url.Values{}
	if sourcePath != "" {
		query.Set("source.path", sourcePath)
	}
	if destinationPath != "" {
		query.Set("destination.path", destinationPath)
	}
	query.Set("fields", "uuid,source,destination,state,transfer.state")

	var relationships collection[Relationship]
	if err := c.rest.Get(ctx, relationshipsPath, query, &relationships); err != nil {
		return nil, err
	}
	if len(relationships.Records) == 0 {
		return nil, client.NewNotFound(fmt.Sprintf("relationship %s -> %s", sourcePath, destinationPath))
	}
	return &relationships.Records[0], nil
}

// GetRelationship re-reads one relationship by uuid. Every transition
// decision is made against this fresh read, never a cached observation.
func (c *Client) GetRelationship(ctx context.Context, uuid string) (*Relationship, error) {
	query := url.Values{}
	query.Set("fields", "uuid,source,destination,state,transfer.state")

	var relationship Relationship
	if err := c.rest.Get(ctx, relationshipsPath+"/"+uuid, query, &relationship); err != nil {
		return nil, err
	}
	return &relationship, nil
}

// StartTransfer triggers an update transfer on the relationship.
func (c *Client) StartTransfer(ctx context.Context, relationshipUUID string) (*JobRef, error) {
	var accepted jobEnvelope
	if err := c.rest.Post(ctx, relationshipsPath+"/"+relationshipUUID+"/transfers", struct{}{}, &accepted); err != nil {
		return nil, err
	}
	return accepted.Job, nil
}

// PatchRelationshipState requests a state transition (paused/broken_off).
// The response only means "accepted"; the caller confirms via the returned
// job and a subsequent state poll.
func (c *Client) PatchRelationshipState(ctx context.Context, uuid, state string) (*JobRef, error) {
	body := map[string]string{"state": state}

	var accepted jobEnvelope
	if err := c.rest.Patch(ctx, relationshipsPath+"/"+uuid, body, &accepted); err != nil {
		return nil, err
	}
	return accepted.Job, nil
}
