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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
	"github.com/RavulapallySaicharan/Agents-a2a/shared/logger"
)

// RoutingDecision is the router's answer for one query. An empty Agent
// means no registered agent is suitable; that is a valid outcome, not an
// error. Confidence is advisory and always within [0,1]. Fallback marks
// decisions produced by the lexical scorer instead of the LLM.
type RoutingDecision struct {
	Agent      string  `json:"agent,omitempty"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale,omitempty"`
	Fallback   bool    `json:"fallback,omitempty"`
}

// routingSystemPrompt instructs the model to act as a deterministic
// single-choice router.
const routingSystemPrompt = "You are a query router for an agent network. " +
	"Select the single best agent for the user query, or answer \"none\" when no agent fits. " +
	"Base the choice only on the agent descriptions and skills provided."

// routingReply is the strict JSON shape requested from the model.
// Confidence is a pointer so a missing field can be defaulted.
type routingReply struct {
	Agent      string   `json:"agent"`
	Confidence *float64 `json:"confidence"`
	Rationale  string   `json:"rationale"`
}

// Router selects an agent for a query. The primary path asks the LLM
// provider chain for a decision; any provider failure or malformed reply
// degrades to the deterministic lexical scorer, never to an error.
type Router struct {
	provider llm.Provider
	weights  RouterWeights
	logger   *logger.Logger
}

// NewRouter creates a router backed by the given provider chain. A nil
// provider is allowed and sends every query straight to the lexical
// fallback (used in offline deployments and tests).
func NewRouter(provider llm.Provider, weights RouterWeights) *Router {
	if weights.Tag == 0 && weights.Description == 0 {
		weights = DefaultRouterWeights()
	}
	return &Router{
		provider: provider,
		weights:  weights,
		logger:   logger.New("gateway"),
	}
}

// Select routes a query against the registry and returns exactly one
// decision for well-formed input. An empty registry is the caller's
// mistake and returns EmptyRegistryError; a blank query is rejected; all
// provider-side failures resolve through the fallback path.
func (rt *Router) Select(ctx context.Context, query string, registry *Registry) (*RoutingDecision, error) {
	if registry == nil || registry.Len() == 0 {
		return nil, &EmptyRegistryError{}
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is empty")
	}

	if rt.provider == nil {
		return lexicalSelect(query, registry, rt.weights), nil
	}

	resp, err := rt.provider.Generate(ctx, llm.Request{
		Prompt:       rt.buildRoutingPrompt(query, registry),
		SystemPrompt: routingSystemPrompt,
		Temperature:  0,
		MaxTokens:    300,
	})
	if err != nil {
		rt.logger.Warn("", "", "Falling back to lexical routing", map[string]interface{}{
			"reason": err.Error(),
		})
		return lexicalSelect(query, registry, rt.weights), nil
	}

	decision, err := parseRoutingReply(resp.Content)
	if err != nil {
		rt.logger.Warn("", "", "Falling back to lexical routing", map[string]interface{}{
			"reason": fmt.Sprintf("unparseable router reply: %v", err),
		})
		return lexicalSelect(query, registry, rt.weights), nil
	}

	// The model may name an agent that does not exist, or decline with
	// "none". Both resolve to a no-match decision; a fabricated name is
	// never forwarded to dispatch.
	if decision.Agent != "" {
		if _, lookupErr := registry.Lookup(decision.Agent); lookupErr != nil {
			rt.logger.Info("", "", "Router reply named an unregistered agent", map[string]interface{}{
				"agent": decision.Agent,
			})
			decision = &RoutingDecision{
				Confidence: 0,
				Rationale:  fmt.Sprintf("reply named unregistered agent '%s'", decision.Agent),
			}
		}
	}

	return decision, nil
}

// buildRoutingPrompt embeds the query and every registered agent's
// name, description, skills and tags into the decision prompt. Agents
// appear in registry insertion order so the prompt is reproducible.
func (rt *Router) buildRoutingPrompt(query string, registry *Registry) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("User query: %q\n\nAvailable agents:\n", query))
	for _, desc := range registry.All() {
		sb.WriteString(fmt.Sprintf("- name: %s\n  description: %s\n", desc.Name, desc.Description))
		for _, skill := range desc.Skills {
			sb.WriteString(fmt.Sprintf("  skill: %s (tags: %s)", skill.Name, strings.Join(skill.Tags, ", ")))
			if skill.Description != "" {
				sb.WriteString(": " + skill.Description)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nReply with only a JSON object: " +
		`{"agent": "<agent name or none>", "confidence": <0.0-1.0>, "rationale": "<one sentence>"}` +
		". Do not include any other text.")

	return sb.String()
}

// parseRoutingReply extracts the JSON object from the model output and
// normalizes it into a decision. Models wrap JSON in prose often enough
// that the parser takes everything between the first '{' and the last '}'.
func parseRoutingReply(content string) (*RoutingDecision, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var reply routingReply
	if err := json.Unmarshal([]byte(content[start:end+1]), &reply); err != nil {
		return nil, fmt.Errorf("invalid JSON in reply: %w", err)
	}

	confidence := 0.5
	if reply.Confidence != nil {
		confidence = clampConfidence(*reply.Confidence)
	}

	agent := strings.TrimSpace(reply.Agent)
	if strings.EqualFold(agent, "none") {
		agent = ""
	}
	if agent == "" {
		confidence = 0
	}

	return &RoutingDecision{
		Agent:      agent,
		Confidence: confidence,
		Rationale:  reply.Rationale,
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
