// Copyright 2026 Agents A2A
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// DefaultDispatchTimeout bounds one agent round-trip.
const DefaultDispatchTimeout = 60 * time.Second

// HTTPClient is an interface for HTTP client operations (enables testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DispatchClient delivers A2A tasks to agent endpoints and probes their
// health. One shared instance serves all agents; it holds no per-agent
// state.
type DispatchClient struct {
	client HTTPClient
}

// NewDispatchClient creates a dispatch client with the given per-request
// timeout (DefaultDispatchTimeout when zero).
func NewDispatchClient(timeout time.Duration) *DispatchClient {
	if timeout == 0 {
		timeout = DefaultDispatchTimeout
	}
	return &DispatchClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Dispatch posts a task to the agent's /a2a/tasks endpoint and returns the
// completed task. The agent's own processing errors come back inside the
// task status; a non-2xx response here means the endpoint itself refused
// or failed the exchange.
func (d *DispatchClient) Dispatch(ctx context.Context, desc *AgentDescriptor, task *a2a.Task) (*a2a.Task, error) {
	body, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task: %w", err)
	}

	url := strings.TrimRight(desc.Address, "/") + "/a2a/tasks"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent '%s' unreachable: %w", desc.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("agent '%s' returned status %d: %s", desc.Name, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result a2a.Task
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode task from agent '%s': %w", desc.Name, err)
	}

	return &result, nil
}

// Probe reports whether the agent's /health endpoint answers 200.
func (d *DispatchClient) Probe(ctx context.Context, desc *AgentDescriptor) bool {
	url := strings.TrimRight(desc.Address, "/") + "/health"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return false
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Card fetches the agent's card from /a2a/card.
func (d *DispatchClient) Card(ctx context.Context, desc *AgentDescriptor) (*a2a.AgentCard, error) {
	url := strings.TrimRight(desc.Address, "/") + "/a2a/card"
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent '%s' unreachable: %w", desc.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent '%s' returned status %d for card", desc.Name, resp.StatusCode)
	}

	var card a2a.AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("failed to decode card from agent '%s': %w", desc.Name, err)
	}

	return &card, nil
}

// SetHTTPClient sets a custom HTTP client for testing.
func (d *DispatchClient) SetHTTPClient(client HTTPClient) {
	d.client = client
}
