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
	"regexp"
	"strings"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// DefaultTargetLanguage is used when a translation request names no
// target language.
const DefaultTargetLanguage = "Spanish"

// Fixed instruction templates. The skill owns the wording; the provider
// only ever sees the filled-in prompt.
const (
	summarizerSystemPrompt = "You are a helpful assistant that summarizes text."
	summarizerUserPrompt   = "Summarize the following text in a concise manner:\n\n%s"

	translatorSystemPrompt = "You are a helpful translator assistant."
	translatorUserPrompt   = "Translate the following text to %s:\n\n%s"
)

// languagePattern recognizes "translate/convert [this|the] [text] [to|into]
// <language>" instructions embedded in the query.
var languagePattern = regexp.MustCompile(`(?i)(?:translate|convert)(?:\s+(?:this|the))?(?:\s+text)?(?:\s+(?:to|into))?\s+([a-zA-Z]+)`)

// NewSummarizer builds the summarizer agent: one LLM-backed skill that
// condenses the task text.
func NewSummarizer(provider llm.Provider) *Endpoint {
	return &Endpoint{
		Name:        "summarizer",
		Description: "Summarizes text content into a concise form",
		Version:     "1.0.0",
		Skills: []a2a.CardSkill{{
			Name:        "summarize-text",
			Description: "Summarize the provided text content",
			Tags:        []string{"summarize", "content", "text"},
		}},
		Handler: func(ctx context.Context, task *a2a.Task) error {
			text := strings.TrimSpace(task.Text())
			if text == "" {
				task.RequireInput("Please provide text content to summarize.")
				return nil
			}

			resp, err := provider.Generate(ctx, llm.Request{
				SystemPrompt: summarizerSystemPrompt,
				Prompt:       fmt.Sprintf(summarizerUserPrompt, text),
			})
			if err != nil {
				return fmt.Errorf("summarization failed: %w", err)
			}

			task.CompleteText(resp.Content)
			return nil
		},
	}
}

// NewTranslator builds the translator agent. The target language is parsed
// out of the query itself; what remains after the instruction is stripped
// is the payload to translate.
func NewTranslator(provider llm.Provider) *Endpoint {
	return &Endpoint{
		Name:        "translator",
		Description: "Translates text into a requested target language",
		Version:     "1.0.0",
		Skills: []a2a.CardSkill{{
			Name:        "translate-text",
			Description: "Translate text to a specified target language",
			Tags:        []string{"translate", "language", "multilingual"},
		}},
		Handler: func(ctx context.Context, task *a2a.Task) error {
			language, text := extractTargetLanguage(task.Text())
			if text == "" {
				task.RequireInput("Please provide text content to translate and a target language.")
				return nil
			}

			resp, err := provider.Generate(ctx, llm.Request{
				SystemPrompt: translatorSystemPrompt,
				Prompt:       fmt.Sprintf(translatorUserPrompt, language, text),
			})
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}

			task.CompleteText(resp.Content)
			return nil
		},
	}
}

// extractTargetLanguage pulls the requested language out of the query and
// strips the instruction, leaving the text to translate. Queries without a
// recognizable instruction keep their full text and fall back to
// DefaultTargetLanguage.
func extractTargetLanguage(query string) (language, text string) {
	m := languagePattern.FindStringSubmatch(query)
	if m == nil {
		return DefaultTargetLanguage, strings.TrimSpace(query)
	}

	language = capitalize(m[1])
	text = strings.TrimSpace(languagePattern.ReplaceAllString(query, ""))
	text = strings.TrimSpace(strings.TrimPrefix(text, ":"))
	return language, text
}

// capitalize uppercases the first letter and lowercases the rest, so that
// "french", "FRENCH", and "French" all address the same language.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
