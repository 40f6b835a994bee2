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
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NetworkConfigFile represents a complete agent network configuration file
// following the Kubernetes-style apiVersion/kind pattern.
type NetworkConfigFile struct {
	APIVersion string          `yaml:"apiVersion"`
	Kind       string          `yaml:"kind"`
	Metadata   NetworkMetadata `yaml:"metadata"`
	Spec       NetworkSpec     `yaml:"spec"`
}

// NetworkMetadata identifies and describes the network.
type NetworkMetadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// NetworkSpec declares the agents that make up the network.
type NetworkSpec struct {
	Agents []AgentDescriptor `yaml:"agents"`
}

// LoadNetworkConfig loads and parses a network configuration file.
func LoadNetworkConfig(path string) (*NetworkConfigFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return ParseNetworkConfig(data)
}

// ParseNetworkConfig parses YAML data into a NetworkConfigFile. Agent
// addresses may reference environment variables (${TRANSLATOR_PORT} style);
// they are expanded here so the rest of the system only sees resolved URLs.
func ParseNetworkConfig(data []byte) (*NetworkConfigFile, error) {
	var config NetworkConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range config.Spec.Agents {
		config.Spec.Agents[i].Address = os.ExpandEnv(config.Spec.Agents[i].Address)
	}

	if err := ValidateNetworkConfig(&config); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &config, nil
}

// ValidateNetworkConfig validates a network configuration for correctness.
// Validation is fail-fast: the gateway refuses to start on a bad config
// rather than routing against a partially loaded network.
func ValidateNetworkConfig(config *NetworkConfigFile) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if !strings.HasPrefix(config.APIVersion, "a2a/") {
		return fmt.Errorf("invalid apiVersion: must start with 'a2a/', got '%s'", config.APIVersion)
	}

	if config.Kind != "AgentNetwork" {
		return fmt.Errorf("invalid kind: expected 'AgentNetwork', got '%s'", config.Kind)
	}

	if config.Metadata.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if !isValidIdentifier(config.Metadata.Name) {
		return fmt.Errorf("metadata.name '%s' is invalid: must be lowercase alphanumeric with hyphens", config.Metadata.Name)
	}

	if len(config.Spec.Agents) == 0 {
		return fmt.Errorf("at least one agent is required")
	}

	seen := make(map[string]bool)
	for i, agent := range config.Spec.Agents {
		if err := validateAgentEntry(&agent); err != nil {
			return fmt.Errorf("agent %d (%s) invalid: %w", i, agent.Name, err)
		}
		if seen[agent.Name] {
			return fmt.Errorf("duplicate agent name: %s", agent.Name)
		}
		seen[agent.Name] = true
	}

	return nil
}

// validateAgentEntry validates a single agent entry from the config.
func validateAgentEntry(agent *AgentDescriptor) error {
	if agent.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !isValidIdentifier(agent.Name) {
		return fmt.Errorf("name '%s' is invalid: must be lowercase alphanumeric with hyphens and underscores", agent.Name)
	}
	if agent.Address == "" {
		return fmt.Errorf("address is required")
	}
	if !strings.HasPrefix(agent.Address, "http://") && !strings.HasPrefix(agent.Address, "https://") {
		return fmt.Errorf("address '%s' is invalid: must be an http(s) URL", agent.Address)
	}
	if len(agent.Skills) == 0 {
		return fmt.Errorf("at least one skill is required")
	}

	for j, skill := range agent.Skills {
		if skill.Name == "" {
			return fmt.Errorf("skill %d: name is required", j)
		}
		if !isValidIdentifier(skill.Name) {
			return fmt.Errorf("skill '%s' is invalid: must be lowercase alphanumeric with hyphens and underscores", skill.Name)
		}
	}

	return nil
}

// BuildRegistry constructs a sealed registry from a validated config.
func BuildRegistry(config *NetworkConfigFile) (*Registry, error) {
	registry := NewRegistry()
	for i := range config.Spec.Agents {
		if err := registry.Register(&config.Spec.Agents[i]); err != nil {
			return nil, fmt.Errorf("failed to register agent '%s': %w", config.Spec.Agents[i].Name, err)
		}
	}
	return registry, nil
}

// isValidIdentifier checks if a string is a valid identifier
// (lowercase alphanumeric with hyphens and underscores).
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if c >= 'a' && c <= 'z' {
			continue
		}
		if c >= '0' && c <= '9' {
			continue
		}
		if c == '-' || c == '_' {
			// Cannot start with hyphen or underscore
			if i == 0 {
				return false
			}
			continue
		}
		return false
	}

	return true
}
