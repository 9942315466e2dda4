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

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession points a Session at an in-process TLS server.
func newTestSession(t *testing.T, handler http.Handler) *Session {
	t.Helper()

	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	return &Session{
		host:       u.Host,
		username:   "admin",
		password:   "secret",
		httpClient: server.Client(),
	}
}

func TestSessionGetDecodesResponse(t *testing.T) {
	var gotPath, gotQuery string
	session := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("name")

		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "secret", password)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[{"name":"vol1"}],"num_records":1}`))
	}))

	query := url.Values{}
	query.Set("name", "vol1")

	var out struct {
		Records []struct {
			Name string `json:"name"`
		} `json:"records"`
	}
	err := session.Get(context.Background(), "storage/volumes", query, &out)

	require.NoError(t, err)
	assert.Equal(t, "/api/storage/volumes", gotPath)
	assert.Equal(t, "vol1", gotQuery)
	require.Len(t, out.Records, 1)
	assert.Equal(t, "vol1", out.Records[0].Name)
}

func TestSessionMapsStatusCodesToKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "401 is unauthenticated", status: http.StatusUnauthorized, check: IsUnauthenticated},
		{name: "404 is not found", status: http.StatusNotFound, check: IsNotFound},
		{name: "409 is conflict", status: http.StatusConflict, check: IsConflict},
		{name: "503 is transient", status: http.StatusServiceUnavailable, check: IsTransient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			session := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":{"message":"nope","code":"917"}}`))
			}))

			err := session.Get(context.Background(), "cluster/jobs/x", nil, nil)

			require.Error(t, err)
			assert.True(t, tc.check(err))
			assert.Contains(t, err.Error(), "nope (code 917)")
		})
	}
}

func TestSessionPostSendsJSONBody(t *testing.T) {
	session := newTestSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"job":{"uuid":"abc-123"}}`))
	}))

	var out struct {
		Job struct {
			UUID string `json:"uuid"`
		} `json:"job"`
	}
	err := session.Post(context.Background(), "storage/volumes", map[string]string{"name": "clone1"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "abc-123", out.Job.UUID)
}

func TestSessionForHostKeepsCredentials(t *testing.T) {
	session := &Session{host: "cluster-a", username: "admin", password: "secret", httpClient: http.DefaultClient}

	other := session.ForHost("cluster-b")

	assert.Equal(t, "cluster-b", other.Host())
	assert.Equal(t, "admin", other.username)
	assert.Equal(t, "secret", other.password)
	// The original session is untouched.
	assert.Equal(t, "cluster-a", session.Host())
}
