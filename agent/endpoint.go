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

package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// TaskHandler runs one skill against a task. Handlers mutate the task in
// place (completed artifacts, input-required status) and return an error
// only for infrastructure failures such as an exhausted provider chain.
type TaskHandler func(ctx context.Context, task *a2a.Task) error

// Endpoint is one runnable agent: its identity, declared skills, and the
// handler that serves its tasks.
type Endpoint struct {
	Name        string
	Description string
	Version     string
	Skills      []a2a.CardSkill
	Handler     TaskHandler
}

// Handle runs the endpoint's task handler.
func (e *Endpoint) Handle(ctx context.Context, task *a2a.Task) error {
	return e.Handler(ctx, task)
}

// Card builds the agent card served at /a2a/card.
func (e *Endpoint) Card(baseURL string) a2a.AgentCard {
	skills := make([]a2a.CardSkill, len(e.Skills))
	copy(skills, e.Skills)
	return a2a.AgentCard{
		Name:        e.Name,
		Description: e.Description,
		URL:         baseURL,
		Version:     e.Version,
		Skills:      skills,
	}
}

// definition wires one built-in agent to its port conventions and
// constructor. needsProvider marks the LLM-backed skills; the deterministic
// pipeline stages never touch a provider.
type definition struct {
	portEnv       string
	defaultPort   string
	needsProvider bool
	build         func(llm.Provider) *Endpoint
}

// catalog holds every agent this binary can run, keyed by AGENT_NAME.
var catalog = map[string]definition{
	"summarizer": {
		portEnv:       "SUMMARIZER_PORT",
		defaultPort:   "5001",
		needsProvider: true,
		build:         NewSummarizer,
	},
	"translator": {
		portEnv:       "TRANSLATOR_PORT",
		defaultPort:   "5002",
		needsProvider: true,
		build:         NewTranslator,
	},
	"nlq-reconstruction": {
		portEnv:     "NLQ_RECONSTRUCTION_PORT",
		defaultPort: "5006",
		build:       func(llm.Provider) *Endpoint { return NewNLQReconstruction() },
	},
	"gating": {
		portEnv:     "GATING_PORT",
		defaultPort: "5007",
		build:       func(llm.Provider) *Endpoint { return NewGating() },
	},
	"fewshots": {
		portEnv:     "FEWSHOTS_PORT",
		defaultPort: "5008",
		build:       func(llm.Provider) *Endpoint { return NewFewshots() },
	},
	"sql-generation": {
		portEnv:     "SQL_GENERATION_PORT",
		defaultPort: "5009",
		build:       func(llm.Provider) *Endpoint { return NewSQLGeneration() },
	},
}

// NewEndpoint builds a built-in agent by name. The provider is required for
// the LLM-backed agents and ignored by the deterministic ones.
func NewEndpoint(name string, provider llm.Provider) (*Endpoint, error) {
	def, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown agent '%s': choose one of %v", name, Names())
	}
	if def.needsProvider && provider == nil {
		return nil, fmt.Errorf("agent '%s' requires an LLM provider", name)
	}
	return def.build(provider), nil
}

// Names lists every built-in agent name in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
