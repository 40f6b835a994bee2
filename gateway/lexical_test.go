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
	"reflect"
	"testing"
)

// textNetworkRegistry builds the two-agent registry used across routing
// tests: a summarizer and a translator with disjoint tag sets.
func textNetworkRegistry(t *testing.T) *Registry {
	t.Helper()

	registry := NewRegistry()
	agents := []*AgentDescriptor{
		newDescriptor("summarizer", "Summarizes text into a concise form",
			newSkill("summarize-text", "Summarizes input text", "summarize", "content", "text")),
		newDescriptor("translator", "Translates text between languages",
			newSkill("translate-text", "Translates input text to a target language", "translate", "language", "multilingual")),
	}
	for _, desc := range agents {
		if err := registry.Register(desc); err != nil {
			t.Fatalf("failed to register %s: %v", desc.Name, err)
		}
	}
	return registry
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple words", "Translate this text", []string{"translate", "this", "text"}},
		{"punctuation split", "Translate this text to French: Hello", []string{"translate", "this", "text", "to", "french", "hello"}},
		{"duplicates removed", "text text TEXT", []string{"text"}},
		{"empty", "", nil},
		{"punctuation only", "?!., ::", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLexicalSelectTagMatch(t *testing.T) {
	registry := textNetworkRegistry(t)

	decision := lexicalSelect("translate language multilingual", registry, DefaultRouterWeights())
	if decision.Agent != "translator" {
		t.Fatalf("expected 'translator', got '%s'", decision.Agent)
	}
	if !decision.Fallback {
		t.Error("expected fallback decision")
	}
	// Every token hits a tag, so the score saturates the normalizer.
	if decision.Confidence != 1 {
		t.Errorf("expected confidence 1, got %f", decision.Confidence)
	}
}

func TestLexicalSelectDeterministic(t *testing.T) {
	registry := textNetworkRegistry(t)

	for i := 0; i < 10; i++ {
		decision := lexicalSelect("Translate this text to French: Hello", registry, DefaultRouterWeights())
		if decision.Agent != "translator" {
			t.Fatalf("run %d: expected 'translator', got '%s'", i, decision.Agent)
		}
	}
}

func TestLexicalSelectNoOverlap(t *testing.T) {
	registry := textNetworkRegistry(t)

	decision := lexicalSelect("asdf qwer zxcv", registry, DefaultRouterWeights())
	if decision.Agent != "" {
		t.Errorf("expected no agent, got '%s'", decision.Agent)
	}
	if decision.Confidence != 0 {
		t.Errorf("expected confidence 0, got %f", decision.Confidence)
	}
	if !decision.Fallback {
		t.Error("expected fallback decision")
	}
}

func TestLexicalSelectEmptyQueryTokens(t *testing.T) {
	registry := textNetworkRegistry(t)

	decision := lexicalSelect("?!", registry, DefaultRouterWeights())
	if decision.Agent != "" || decision.Confidence != 0 {
		t.Errorf("expected empty decision, got agent '%s' confidence %f", decision.Agent, decision.Confidence)
	}
}

func TestLexicalSelectTagBeatsDescription(t *testing.T) {
	registry := NewRegistry()
	// "report" appears only in the first agent's description but is a
	// curated tag on the second agent.
	if err := registry.Register(newDescriptor("analyst", "Builds report documents",
		newSkill("analyze", "Analyzes data", "analysis"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := registry.Register(newDescriptor("reporter", "Writes summaries",
		newSkill("report", "Generates reports", "report"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision := lexicalSelect("report", registry, DefaultRouterWeights())
	if decision.Agent != "reporter" {
		t.Errorf("expected tag match to win, got '%s'", decision.Agent)
	}
}

func TestLexicalSelectTieBreaksByInsertionOrder(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(newDescriptor("first", "Handles alpha work",
		newSkill("alpha-skill", "Does alpha", "alpha"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := registry.Register(newDescriptor("second", "Also handles alpha work",
		newSkill("alpha-skill", "Does alpha", "alpha"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision := lexicalSelect("alpha", registry, DefaultRouterWeights())
	if decision.Agent != "first" {
		t.Errorf("expected insertion-order tie break to pick 'first', got '%s'", decision.Agent)
	}
}

func TestLexicalSelectCustomWeights(t *testing.T) {
	registry := textNetworkRegistry(t)

	// With tags worth nothing extra, description-only overlap still routes.
	weights := RouterWeights{Tag: 1, Description: 1}
	decision := lexicalSelect("concise", registry, weights)
	if decision.Agent != "summarizer" {
		t.Errorf("expected 'summarizer', got '%s'", decision.Agent)
	}
	if decision.Confidence != 1 {
		t.Errorf("expected confidence 1, got %f", decision.Confidence)
	}
}

func TestLexicalSelectPartialOverlapConfidence(t *testing.T) {
	registry := textNetworkRegistry(t)

	// One tag token out of four query tokens: score 3 over a 12 ceiling.
	decision := lexicalSelect("please translate something nonsensical", registry, DefaultRouterWeights())
	if decision.Agent != "translator" {
		t.Fatalf("expected 'translator', got '%s'", decision.Agent)
	}
	if decision.Confidence != 0.25 {
		t.Errorf("expected confidence 0.25, got %f", decision.Confidence)
	}
}
