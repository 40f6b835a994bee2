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
	"fmt"
	"sync"
)

// AgentDescriptor describes one registered agent endpoint: where it lives
// and what it can do. Descriptors are immutable after registry load.
type AgentDescriptor struct {
	Name        string  `json:"name" yaml:"name"`
	Address     string  `json:"address" yaml:"address"`
	Description string  `json:"description" yaml:"description"`
	Skills      []Skill `json:"skills" yaml:"skills"`
}

// Skill describes a capability advertised by an agent. Tags drive the
// lexical routing fallback; expected inputs document the skill contract.
type Skill struct {
	Name           string       `json:"name" yaml:"name"`
	Description    string       `json:"description" yaml:"description"`
	Tags           []string     `json:"tags" yaml:"tags"`
	ExpectedInputs []InputField `json:"expected_inputs,omitempty" yaml:"expected_inputs,omitempty"`
}

// InputField documents one expected input of a skill.
type InputField struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// DuplicateAgentError is returned when registering a name that is already
// present in the registry.
type DuplicateAgentError struct {
	Name string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("agent '%s' is already registered", e.Name)
}

// UnknownAgentError is returned when looking up a name that is not present
// in the registry.
type UnknownAgentError struct {
	Name string
}

func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("agent '%s' is not registered", e.Name)
}

// EmptyRegistryError is returned when routing is attempted against a
// registry with no agents.
type EmptyRegistryError struct{}

func (e *EmptyRegistryError) Error() string {
	return "agent registry is empty"
}

// Registry holds the agent descriptors for one network. It is populated
// during startup from the network config and treated as read-only for the
// rest of the process lifetime; the mutex only guards the load phase.
// All() returns descriptors in insertion order so that routing prompts and
// lexical tie-breaks are deterministic.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]*AgentDescriptor
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]*AgentDescriptor),
	}
}

// Register adds a descriptor to the registry. The name must be a valid
// identifier, the address non-empty, and at least one skill declared.
// Registering a name twice returns DuplicateAgentError.
func (r *Registry) Register(desc *AgentDescriptor) error {
	if desc == nil {
		return fmt.Errorf("descriptor is nil")
	}
	if desc.Name == "" {
		return fmt.Errorf("agent name is required")
	}
	if !isValidIdentifier(desc.Name) {
		return fmt.Errorf("agent name '%s' is invalid: must be lowercase alphanumeric with hyphens and underscores", desc.Name)
	}
	if desc.Address == "" {
		return fmt.Errorf("agent '%s' has no address", desc.Name)
	}
	if len(desc.Skills) == 0 {
		return fmt.Errorf("agent '%s' declares no skills", desc.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[desc.Name]; exists {
		return &DuplicateAgentError{Name: desc.Name}
	}

	r.agents[desc.Name] = desc
	r.order = append(r.order, desc.Name)
	return nil
}

// Lookup returns the descriptor for a name, or UnknownAgentError.
func (r *Registry) Lookup(name string) (*AgentDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, exists := r.agents[name]
	if !exists {
		return nil, &UnknownAgentError{Name: name}
	}
	return desc, nil
}

// All returns every descriptor in insertion order.
func (r *Registry) All() []*AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*AgentDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.agents[name])
	}
	return out
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
