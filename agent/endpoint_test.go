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
	"reflect"
	"strings"
	"testing"
)

func TestNames(t *testing.T) {
	want := []string{"fewshots", "gating", "nlq-reconstruction", "sql-generation", "summarizer", "translator"}
	if got := Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNewEndpointUnknown(t *testing.T) {
	_, err := NewEndpoint("poet", nil)
	if err == nil {
		t.Fatal("NewEndpoint(poet) error = nil, want unknown agent error")
	}
	if !strings.Contains(err.Error(), "unknown agent 'poet'") {
		t.Errorf("error = %q, want unknown agent detail", err)
	}
}

func TestNewEndpointRequiresProvider(t *testing.T) {
	for _, name := range []string{"summarizer", "translator"} {
		if _, err := NewEndpoint(name, nil); err == nil {
			t.Errorf("NewEndpoint(%s, nil) error = nil, want provider requirement", name)
		}
	}

	// Deterministic pipeline stages build without one.
	for _, name := range []string{"nlq-reconstruction", "gating", "fewshots", "sql-generation"} {
		endpoint, err := NewEndpoint(name, nil)
		if err != nil {
			t.Errorf("NewEndpoint(%s, nil) error = %v", name, err)
			continue
		}
		if endpoint.Name != name {
			t.Errorf("endpoint name = %q, want %q", endpoint.Name, name)
		}
	}
}

func TestNewEndpointAll(t *testing.T) {
	provider := &stubProvider{response: "ok"}
	for _, name := range Names() {
		endpoint, err := NewEndpoint(name, provider)
		if err != nil {
			t.Errorf("NewEndpoint(%s) error = %v", name, err)
			continue
		}
		if endpoint.Name != name {
			t.Errorf("endpoint name = %q, want %q", endpoint.Name, name)
		}
		if endpoint.Description == "" {
			t.Errorf("endpoint %s has no description", name)
		}
		if endpoint.Version != "1.0.0" {
			t.Errorf("endpoint %s version = %q, want 1.0.0", name, endpoint.Version)
		}
		if len(endpoint.Skills) != 1 {
			t.Errorf("endpoint %s declares %d skills, want 1", name, len(endpoint.Skills))
		}
		if endpoint.Handler == nil {
			t.Errorf("endpoint %s has no handler", name)
		}
	}
}

func TestCatalogPorts(t *testing.T) {
	tests := []struct {
		name        string
		portEnv     string
		defaultPort string
	}{
		{"summarizer", "SUMMARIZER_PORT", "5001"},
		{"translator", "TRANSLATOR_PORT", "5002"},
		{"nlq-reconstruction", "NLQ_RECONSTRUCTION_PORT", "5006"},
		{"gating", "GATING_PORT", "5007"},
		{"fewshots", "FEWSHOTS_PORT", "5008"},
		{"sql-generation", "SQL_GENERATION_PORT", "5009"},
	}
	for _, tt := range tests {
		def, ok := catalog[tt.name]
		if !ok {
			t.Errorf("catalog missing %q", tt.name)
			continue
		}
		if def.portEnv != tt.portEnv {
			t.Errorf("%s portEnv = %q, want %q", tt.name, def.portEnv, tt.portEnv)
		}
		if def.defaultPort != tt.defaultPort {
			t.Errorf("%s defaultPort = %q, want %q", tt.name, def.defaultPort, tt.defaultPort)
		}
	}
}

func TestEndpointCard(t *testing.T) {
	provider := &stubProvider{response: "ok"}
	endpoint := NewSummarizer(provider)

	card := endpoint.Card("http://localhost:5001")
	if card.Name != "summarizer" {
		t.Errorf("card name = %q, want summarizer", card.Name)
	}
	if card.URL != "http://localhost:5001" {
		t.Errorf("card URL = %q", card.URL)
	}
	if len(card.Skills) != 1 || card.Skills[0].Name != "summarize-text" {
		t.Fatalf("unexpected skills: %+v", card.Skills)
	}

	// The card carries its own skill slice.
	card.Skills[0].Name = "mutated"
	if endpoint.Skills[0].Name != "summarize-text" {
		t.Error("mutating the card changed the endpoint's skills")
	}
}
