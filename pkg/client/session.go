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
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Interface is the contract every higher component depends on: issue one
// typed request against the control plane and surface a structured result
// or a classified failure. Transport details stay below this line.
type Interface interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Config holds the connection settings for one controller session.
type Config struct {
	// Host is the cluster or SVM management address, host[:port].
	Host     string
	Username string
	Password string

	InsecureSkipTLSVerify bool
	CACertFile            string

	// Timeout bounds a single HTTP exchange, not a whole workflow.
	Timeout time.Duration
}

// Session is an authenticated handle to one controller. Workflows that span
// two clusters (source-side lookup, destination-side mutation) hold two
// Sessions rather than re-pointing a process-wide connection.
type Session struct {
	host       string
	username   string
	password   string
	httpClient *http.Client
}

const defaultTimeout = 30 * time.Second

// NewSession builds a Session from cfg. The TLS trust base is the system
// pool, optionally extended with cfg.CACertFile.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Host == "" {
		return nil, errors.New("controller host is required")
	}

	caPool, err := x509.SystemCertPool()
	if err != nil {
		caPool = x509.NewCertPool()
	}

	if cfg.CACertFile != "" {
		caCert, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading CA cert file %s", cfg.CACertFile)
		}
		if !caPool.AppendCertsFromPEM(caCert) {
			return nil, errors.Errorf("no certificates could be parsed from %s", cfg.CACertFile)
		}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Session{
		host:     cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					RootCAs:            caPool,
					InsecureSkipVerify: cfg.InsecureSkipTLSVerify,
				},
			},
		},
	}, nil
}

// Host returns the controller address this session is bound to.
func (s *Session) Host() string {
	return s.host
}

// ForHost returns a new Session with the same credentials and transport
// settings pointed at a different controller. Used when a relationship
// lookup on the source cluster has to continue on the destination cluster.
func (s *Session) ForHost(host string) *Session {
	return &Session{
		host:       host,
		username:   s.username,
		password:   s.password,
		httpClient: s.httpClient,
	}
}

func (s *Session) Get(ctx context.Context, path string, query url.Values, out any) error {
	return s.do(ctx, http.MethodGet, path, query, nil, out)
}

func (s *Session) Post(ctx context.Context, path string, body, out any) error {
	return s.do(ctx, http.MethodPost, path, nil, body, out)
}

func (s *Session) Patch(ctx context.Context, path string, body, out any) error {
	return s.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (s *Session) Delete(ctx context.Context, path string, out any) error {
	return s.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// apiErrorBody is the controller's error envelope.
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (s *Session) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := url.URL{
		Scheme:   "https",
		Host:     s.host,
		Path:     "/api/" + strings.TrimPrefix(path, "/"),
		RawQuery: query.Encode(),
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "error encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return errors.WithStack(err)
	}

	req.SetBasicAuth(s.username, s.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.WithStack(ctx.Err())
		}
		return NewTransient(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewTransient(err)
	}

	if resp.StatusCode >= 400 {
		return errors.WithStack(&APIError{
			Kind:       kindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    apiErrorMessage(respBody),
		})
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return errors.Wrapf(err, "error decoding %s %s response", method, path)
		}
	}

	return nil
}

func apiErrorMessage(body []byte) string {
	var envelope apiErrorBody
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		if envelope.Error.Code != "" {
			return fmt.Sprintf("%s (code %s)", envelope.Error.Message, envelope.Error.Code)
		}
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(body))
}
