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
	"strings"
	"unicode"
)

// RouterWeights controls the lexical fallback scoring. A query token that
// matches a skill tag is worth Tag points; a token that only matches the
// agent or skill description is worth Description points. Tags are the
// stronger signal because they are curated routing hints.
type RouterWeights struct {
	Tag         int
	Description int
}

// DefaultRouterWeights returns the standard 3/1 tag/description weighting.
func DefaultRouterWeights() RouterWeights {
	return RouterWeights{Tag: 3, Description: 1}
}

// maxTokenWeight returns the largest score a single query token can earn.
func (w RouterWeights) maxTokenWeight() int {
	if w.Tag >= w.Description {
		return w.Tag
	}
	return w.Description
}

// tokenize lowercases the input and splits it into unique alphanumeric
// tokens, preserving first-seen order.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]bool, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tokenSet builds a membership set from a list of strings, tokenizing each.
func tokenSet(parts ...string) map[string]bool {
	set := make(map[string]bool)
	for _, p := range parts {
		for _, tok := range tokenize(p) {
			set[tok] = true
		}
	}
	return set
}

// lexicalSelect scores every registered agent against the query by token
// overlap and returns the best match. Ties break by registry insertion
// order: the first agent with the top score wins. A zero top score means
// no agent is suitable; the decision carries confidence 0 and no agent.
// This path never fails: any well-formed query yields exactly one decision.
func lexicalSelect(query string, registry *Registry, weights RouterWeights) *RoutingDecision {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return &RoutingDecision{
			Confidence: 0,
			Rationale:  "query contains no scorable tokens",
			Fallback:   true,
		}
	}

	bestScore := 0
	bestAgent := ""
	for _, desc := range registry.All() {
		tags := make([]string, 0)
		descriptions := []string{desc.Description}
		for _, skill := range desc.Skills {
			tags = append(tags, skill.Tags...)
			descriptions = append(descriptions, skill.Description)
		}
		tagTokens := tokenSet(tags...)
		descTokens := tokenSet(descriptions...)

		score := 0
		for _, tok := range tokens {
			switch {
			case tagTokens[tok]:
				score += weights.Tag
			case descTokens[tok]:
				score += weights.Description
			}
		}

		if score > bestScore {
			bestScore = score
			bestAgent = desc.Name
		}
	}

	if bestScore == 0 {
		return &RoutingDecision{
			Confidence: 0,
			Rationale:  "no token overlap with any registered agent",
			Fallback:   true,
		}
	}

	confidence := float64(bestScore) / float64(len(tokens)*weights.maxTokenWeight())
	if confidence > 1 {
		confidence = 1
	}

	return &RoutingDecision{
		Agent:      bestAgent,
		Confidence: confidence,
		Rationale:  fmt.Sprintf("lexical overlap score %d with agent '%s'", bestScore, bestAgent),
		Fallback:   true,
	}
}
