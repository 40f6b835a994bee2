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
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
	"github.com/RavulapallySaicharan/Agents-a2a/shared/logger"
)

// NoSuitableAgentMessage is returned to the caller when routing decides no
// registered agent can handle the query. This outcome is a valid decision,
// not an error; nothing is dispatched.
const NoSuitableAgentMessage = "No suitable agent is available for this request."

// DefaultSubmitTimeout bounds one full route-then-dispatch sequence.
const DefaultSubmitTimeout = 60 * time.Second

// SubmitRequest is one query submitted to the network.
type SubmitRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
	RequestID string `json:"-"`
}

// SubmitResult is the network's answer for one query. The shape mirrors
// the per-session agent response: session, chosen agent, confidence and
// the response text, plus routing observability fields.
type SubmitResult struct {
	SessionID  string  `json:"session_id"`
	Agent      string  `json:"agent,omitempty"`
	Confidence float64 `json:"confidence"`
	Response   string  `json:"response"`
	Rationale  string  `json:"rationale,omitempty"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// AgentStatus is one row of the network's agent listing: the descriptor
// plus live reachability.
type AgentStatus struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Skills      []Skill `json:"skills"`
	Status      string  `json:"status"` // "running" or "stopped"
}

// Manager owns the network: the sealed registry, the router, the dispatch
// client, conversation history and the query log. Submissions are strictly
// sequential within a call (route, dispatch, record) and fully parallel
// across calls; the registry is read-only and the stores guard themselves.
type Manager struct {
	registry *Registry
	router   *Router
	dispatch *DispatchClient
	history  ConversationStore
	qlog     *QueryLogger
	timeout  time.Duration
	logger   *logger.Logger
}

// NewManager wires a network manager. A zero timeout selects
// DefaultSubmitTimeout; a nil history store falls back to in-memory.
func NewManager(registry *Registry, router *Router, dispatch *DispatchClient, history ConversationStore, qlog *QueryLogger, timeout time.Duration) *Manager {
	if timeout == 0 {
		timeout = DefaultSubmitTimeout
	}
	if history == nil {
		history = NewMemoryHistory()
	}
	if qlog == nil {
		qlog = NewQueryLogger("")
	}
	return &Manager{
		registry: registry,
		router:   router,
		dispatch: dispatch,
		history:  history,
		qlog:     qlog,
		timeout:  timeout,
		logger:   logger.New("gateway"),
	}
}

// Submit routes a query to the best agent and returns its answer. The
// submit timeout covers the whole route-then-dispatch sequence; on expiry
// the caller gets a timeout error and no partial state is recorded.
func (m *Manager) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()

	decision, err := m.router.Select(ctx, req.Query, m.registry)
	if err != nil {
		return nil, err
	}

	if decision.Agent == "" {
		result := &SubmitResult{
			SessionID:  sessionID,
			Confidence: decision.Confidence,
			Response:   NoSuitableAgentMessage,
			Rationale:  decision.Rationale,
			Fallback:   decision.Fallback,
		}
		m.record(ctx, req, result, start, "")
		return result, nil
	}

	desc, err := m.registry.Lookup(decision.Agent)
	if err != nil {
		return nil, err
	}

	task := a2a.NewTextTask(sessionID, req.Query)
	completed, err := m.dispatch.Dispatch(ctx, desc, task)
	if err != nil {
		m.qlog.Log(&QueryLogEntry{
			RequestID:    req.RequestID,
			SessionID:    sessionID,
			Query:        req.Query,
			Agent:        decision.Agent,
			Confidence:   decision.Confidence,
			Fallback:     decision.Fallback,
			LatencyMs:    time.Since(start).Milliseconds(),
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	result := &SubmitResult{
		SessionID:  sessionID,
		Agent:      decision.Agent,
		Confidence: decision.Confidence,
		Response:   taskAnswer(completed),
		Rationale:  decision.Rationale,
		Fallback:   decision.Fallback,
	}
	m.record(ctx, req, result, start, decision.Agent)
	return result, nil
}

// RunAgent dispatches a query directly to a named agent, bypassing the
// router. Unknown names return UnknownAgentError.
func (m *Manager) RunAgent(ctx context.Context, name, query, sessionID string) (*SubmitResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	desc, err := m.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	task := a2a.NewTextTask(sessionID, query)
	completed, err := m.dispatch.Dispatch(ctx, desc, task)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		SessionID:  sessionID,
		Agent:      name,
		Confidence: 1,
		Response:   taskAnswer(completed),
		Rationale:  "direct dispatch",
	}
	m.record(ctx, SubmitRequest{Query: query, SessionID: sessionID}, result, start, name)
	return result, nil
}

// History returns the recorded exchanges for a session.
func (m *Manager) History(ctx context.Context, sessionID string) ([]ConversationEntry, error) {
	return m.history.History(ctx, sessionID)
}

// AgentsStatus lists every registered agent with live reachability. Agents
// are probed concurrently; the order of the result matches the registry.
func (m *Manager) AgentsStatus(ctx context.Context) []AgentStatus {
	descs := m.registry.All()
	statuses := make([]AgentStatus, len(descs))

	var wg sync.WaitGroup
	for i, desc := range descs {
		wg.Add(1)
		go func(i int, desc *AgentDescriptor) {
			defer wg.Done()

			status := "stopped"
			if m.dispatch.Probe(ctx, desc) {
				status = "running"
			}
			statuses[i] = AgentStatus{
				Name:        desc.Name,
				Description: desc.Description,
				Address:     desc.Address,
				Skills:      desc.Skills,
				Status:      status,
			}
		}(i, desc)
	}
	wg.Wait()

	return statuses
}

// record appends the exchange to session history and queues the query log
// entry. Neither may fail the request; history trouble is logged and
// swallowed.
func (m *Manager) record(ctx context.Context, req SubmitRequest, result *SubmitResult, start time.Time, agent string) {
	entry := ConversationEntry{
		Timestamp: time.Now().UTC(),
		UserInput: req.Query,
		Response:  result.Response,
		Agent:     agent,
	}
	if err := m.history.Append(ctx, result.SessionID, entry); err != nil {
		m.logger.Warn(result.SessionID, req.RequestID, "Failed to record conversation history", map[string]interface{}{
			"error": err.Error(),
		})
	}

	m.qlog.Log(&QueryLogEntry{
		RequestID:  req.RequestID,
		SessionID:  result.SessionID,
		Query:      req.Query,
		Agent:      agent,
		Confidence: result.Confidence,
		Fallback:   result.Fallback,
		Answer:     result.Response,
		LatencyMs:  time.Since(start).Milliseconds(),
	})
}

// taskAnswer extracts the response text from a completed task: artifact
// text when present, otherwise the status message (input-required and
// failed tasks explain themselves there).
func taskAnswer(task *a2a.Task) string {
	if text := task.ArtifactText(); text != "" {
		return text
	}
	if task.Status.Message != nil {
		return task.Status.Message.Content.Text
	}
	return ""
}
