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
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// queryContent is the structured request form shared by the pipeline
// skills; plain text requests skip it entirely.
type queryContent struct {
	Query     string `json:"query"`
	NExamples int    `json:"n_examples"`
}

// parseQueryContent extracts the query from either a JSON document
// ({"query": ..., "n_examples": ...}) or plain text. The example count is
// zero unless the structured form supplies one.
func parseQueryContent(text string) (string, int) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") {
		var content queryContent
		if err := json.Unmarshal([]byte(text), &content); err == nil && strings.TrimSpace(content.Query) != "" {
			return strings.TrimSpace(content.Query), content.NExamples
		}
	}
	return text, 0
}

// buildQuestion joins the non-empty fragments into a single question.
func buildQuestion(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ") + "?"
}

// reconstructionRules rewrite terse analytics shorthand into full
// questions. Rules are tried in order against the cleaned query; matched
// group text is trimmed before rendering.
var reconstructionRules = []struct {
	pattern *regexp.Regexp
	render  func(g []string) string
}{
	{
		pattern: regexp.MustCompile(`^(sales|revenue|profit)(\s+last\s+year)?$`),
		render: func(g []string) string {
			return fmt.Sprintf("What were the total %s figures for the last calendar year?", g[0])
		},
	},
	{
		pattern: regexp.MustCompile(`^(top|highest|best)(\s+\d+)?(\s+\w+)?$`),
		render: func(g []string) string {
			return buildQuestion("What are the", g[0], g[1], g[2])
		},
	},
	{
		pattern: regexp.MustCompile(`^(compare|difference)(\s+\w+)(\s+and\s+\w+)?$`),
		render: func(g []string) string {
			second := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(g[2]), "and"))
			if second == "" {
				return buildQuestion("What is the comparison between", g[1])
			}
			return buildQuestion("What is the comparison between", g[1], "and", second)
		},
	},
	{
		pattern: regexp.MustCompile(`^(how\s+many|count)(\s+\w+)?$`),
		render: func(g []string) string {
			return buildQuestion("What is the total count of", g[1])
		},
	},
	{
		pattern: regexp.MustCompile(`^(average|mean)(\s+\w+)?$`),
		render: func(g []string) string {
			return buildQuestion("What is the average value of", g[1])
		},
	},
}

// questionPrefixes are the interrogatives that make a query a question once
// a mark is appended.
var questionPrefixes = []string{"what", "how", "when", "where", "who", "why"}

// cleanQuery lowercases the query and collapses runs of whitespace.
func cleanQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// reconstructQuery rewrites the query via the rule table, or failing that
// ensures question form.
func reconstructQuery(query string) string {
	cleaned := cleanQuery(query)
	for _, rule := range reconstructionRules {
		if m := rule.pattern.FindStringSubmatch(cleaned); m != nil {
			return rule.render(m[1:])
		}
	}

	if !strings.HasSuffix(cleaned, "?") {
		for _, prefix := range questionPrefixes {
			if strings.HasPrefix(cleaned, prefix) {
				return cleaned + "?"
			}
		}
		return "What is " + cleaned + "?"
	}
	return cleaned
}

// reconstructionResult is the JSON artifact produced by nlq-reconstruction.
type reconstructionResult struct {
	OriginalQuery         string `json:"original_query"`
	ReconstructedQuery    string `json:"reconstructed_query"`
	TransformationApplied bool   `json:"transformation_applied"`
}

// NewNLQReconstruction builds the query-rewriting agent, the first stage of
// the text2sql pipeline.
func NewNLQReconstruction() *Endpoint {
	return &Endpoint{
		Name:        "nlq-reconstruction",
		Description: "Refines and reconstructs natural language queries for better SQL generation",
		Version:     "1.0.0",
		Skills: []a2a.CardSkill{{
			Name:        "reconstruct-nlq",
			Description: "Refine and reconstruct a natural language query",
			Tags:        []string{"nlq", "reconstruction", "query", "text2sql"},
		}},
		Handler: func(ctx context.Context, task *a2a.Task) error {
			query, _ := parseQueryContent(task.Text())
			if query == "" {
				task.RequireInput("Please provide a natural language query to reconstruct.")
				return nil
			}

			reconstructed := reconstructQuery(query)
			return task.CompleteJSON(reconstructionResult{
				OriginalQuery:         query,
				ReconstructedQuery:    reconstructed,
				TransformationApplied: reconstructed != strings.ToLower(query),
			})
		},
	}
}

// validQueryPatterns mark analytics questions a SQL generator can serve.
var validQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`what.*(sales|revenue|profit|orders|customers|products)`),
	regexp.MustCompile(`how.*many.*(sales|orders|customers|products)`),
	regexp.MustCompile(`compare.*(sales|revenue|profit)`),
	regexp.MustCompile(`top.*\d+.*(customers|products|sales)`),
	regexp.MustCompile(`average.*(order|sale|revenue)`),
	regexp.MustCompile(`sum.*(sales|revenue|profit)`),
	regexp.MustCompile(`count.*(orders|customers|products)`),
	regexp.MustCompile(`list.*(customers|products|orders)`),
	regexp.MustCompile(`find.*(customers|products|orders)`),
	regexp.MustCompile(`show.*(sales|revenue|profit)`),
}

// invalidQueryPatterns mark general questions and how-to requests that no
// SQL query answers.
var invalidQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`how.*to.*(create|update|delete|insert)`),
	regexp.MustCompile(`can.*you.*(help|explain|tell)`),
	regexp.MustCompile(`what.*is.*(the|a|an)`),
	regexp.MustCompile(`why.*(is|are|do|does)`),
	regexp.MustCompile(`when.*(is|are|do|does)`),
	regexp.MustCompile(`where.*(is|are|do|does)`),
	regexp.MustCompile(`who.*(is|are|do|does)`),
}

// gatingConfidence scores how suitable the query is for SQL generation.
// Explanation-style queries score zero outright; otherwise the score grows
// with matched analytics patterns and shrinks for non-question or very
// short input.
func gatingConfidence(query string) (float64, string) {
	q := strings.ToLower(query)

	for _, pattern := range invalidQueryPatterns {
		if pattern.MatchString(q) {
			return 0, "Query appears to be a general question or request for explanation"
		}
	}

	matches := 0
	for _, pattern := range validQueryPatterns {
		if pattern.MatchString(q) {
			matches++
		}
	}

	var confidence float64
	var reason string
	if matches > 0 {
		confidence = 0.5 + float64(matches)*0.1
		if confidence > 1.0 {
			confidence = 1.0
		}
		reason = fmt.Sprintf("Query matches %d valid pattern(s) for SQL generation", matches)
	} else {
		confidence = 0.3
		reason = "Query doesn't match any known patterns but might be valid"
	}

	if !strings.Contains(q, "?") {
		confidence *= 0.8
		reason += " (Query is not in question format)"
	}
	if len(strings.Fields(q)) < 3 {
		confidence *= 0.7
		reason += " (Query is too short)"
	}

	return confidence, reason
}

// gatingResult is the JSON artifact produced by the gating agent.
type gatingResult struct {
	Query      string  `json:"query"`
	Proceed    bool    `json:"proceed"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// NewGating builds the suitability-check agent: it decides whether a query
// should proceed to SQL generation.
func NewGating() *Endpoint {
	return &Endpoint{
		Name:        "gating",
		Description: "Determines if a natural language query is suitable for SQL generation",
		Version:     "1.0.0",
		Skills: []a2a.CardSkill{{
			Name:        "evaluate-query",
			Description: "Evaluate if a natural language query is suitable for SQL generation",
			Tags:        []string{"nlq", "gating", "evaluation", "text2sql"},
		}},
		Handler: func(ctx context.Context, task *a2a.Task) error {
			query, _ := parseQueryContent(task.Text())
			if query == "" {
				task.RequireInput("Please provide a natural language query to evaluate.")
				return nil
			}

			confidence, reason := gatingConfidence(query)
			return task.CompleteJSON(gatingResult{
				Query:      query,
				Proceed:    confidence >= 0.5,
				Confidence: confidence,
				Reason:     reason,
			})
		},
	}
}

// queryComponents are the hints extracted from a natural language query:
// the aggregate operation, a row limit for rankings, and the tables and
// columns the query appears to touch.
type queryComponents struct {
	Operation string
	Tables    []string
	Columns   []string
	Limit     int
}

var (
	sumPattern     = regexp.MustCompile(`\b(sum|total|sum of)\b`)
	countPattern   = regexp.MustCompile(`\b(count|number of|how many)\b`)
	averagePattern = regexp.MustCompile(`\b(average|mean|avg)\b`)
	topPattern     = regexp.MustCompile(`\b(top|highest|best)\b`)
	limitPattern   = regexp.MustCompile(`\b(\d+)\b`)
	limitClause    = regexp.MustCompile(`(?i)\bLIMIT\s+\d+\b`)
)

// extractQueryComponents pulls the operation, limit, and table/column hints
// out of the query.
func extractQueryComponents(query string) queryComponents {
	q := strings.ToLower(query)
	var c queryComponents

	switch {
	case sumPattern.MatchString(q):
		c.Operation = "sum"
	case countPattern.MatchString(q):
		c.Operation = "count"
	case averagePattern.MatchString(q):
		c.Operation = "average"
	case topPattern.MatchString(q):
		c.Operation = "top_n"
		if m := limitPattern.FindStringSubmatch(query); m != nil {
			c.Limit, _ = strconv.Atoi(m[1])
		}
	}

	if strings.Contains(q, "sales") {
		c.Tables = append(c.Tables, "sales")
		c.Columns = append(c.Columns, "amount")
	}
	if strings.Contains(q, "customers") {
		c.Tables = append(c.Tables, "customers")
		c.Columns = append(c.Columns, "customer_name")
	}
	if strings.Contains(q, "products") {
		c.Tables = append(c.Tables, "products")
		c.Columns = append(c.Columns, "product_name")
	}

	return c
}

// mentionsAny reports whether the SQL references one of the extracted
// tables or columns.
func mentionsAny(sql string, c queryComponents) bool {
	lower := strings.ToLower(sql)
	for _, table := range c.Tables {
		if strings.Contains(lower, table) {
			return true
		}
	}
	for _, column := range c.Columns {
		if strings.Contains(lower, column) {
			return true
		}
	}
	return false
}

// bestExample picks the highest-scoring example. Equal scores prefer an
// example whose SQL mentions an extracted table or column; remaining ties
// keep input order.
func bestExample(fewshots []ScoredExample, c queryComponents) ScoredExample {
	best := 0
	for i := 1; i < len(fewshots); i++ {
		if fewshots[i].SimilarityScore > fewshots[best].SimilarityScore {
			best = i
			continue
		}
		if fewshots[i].SimilarityScore == fewshots[best].SimilarityScore &&
			!mentionsAny(fewshots[best].SQL, c) && mentionsAny(fewshots[i].SQL, c) {
			best = i
		}
	}
	return fewshots[best]
}

// generateSQL instantiates the best few-shot example's SQL as the template
// for the query. Ranking queries with an explicit count get their LIMIT
// clause rewritten to match.
func generateSQL(nlq string, fewshots []ScoredExample) string {
	if len(fewshots) == 0 {
		return ""
	}

	components := extractQueryComponents(nlq)
	sql := bestExample(fewshots, components).SQL

	if components.Operation == "top_n" && components.Limit > 0 {
		sql = limitClause.ReplaceAllString(sql, fmt.Sprintf("LIMIT %d", components.Limit))
	}
	return sql
}

// sqlGenerationInput is the structured request form: the query plus
// caller-supplied few-shot examples and an optional schema document.
type sqlGenerationInput struct {
	NLQ      string                 `json:"nlq"`
	Fewshots []ScoredExample        `json:"fewshots"`
	Schema   map[string]interface{} `json:"schema"`
}

// sqlGenerationResult is the JSON artifact produced by sql-generation.
type sqlGenerationResult struct {
	NLQ          string   `json:"nlq"`
	SQL          string   `json:"sql"`
	UsedExamples []string `json:"used_examples"`
	SchemaUsed   bool     `json:"schema_used"`
}

// parseSQLGenerationInput accepts either a JSON document carrying
// nlq/fewshots/schema or a plain text query.
func parseSQLGenerationInput(text string) sqlGenerationInput {
	if strings.HasPrefix(text, "{") {
		var input sqlGenerationInput
		if err := json.Unmarshal([]byte(text), &input); err == nil && strings.TrimSpace(input.NLQ) != "" {
			input.NLQ = strings.TrimSpace(input.NLQ)
			return input
		}
	}
	return sqlGenerationInput{NLQ: text}
}

// NewSQLGeneration builds the final pipeline stage. Callers may supply
// their own few-shot examples and schema; plain text queries fall back to
// the built-in corpus.
func NewSQLGeneration() *Endpoint {
	retriever := NewRetriever(defaultExamples())
	return &Endpoint{
		Name:        "sql-generation",
		Description: "Generates SQL queries from natural language queries using few-shot examples",
		Version:     "1.0.0",
		Skills: []a2a.CardSkill{{
			Name:        "generate-sql",
			Description: "Generate SQL query from natural language query",
			Tags:        []string{"nlq", "sql", "generation", "text2sql"},
		}},
		Handler: func(ctx context.Context, task *a2a.Task) error {
			text := strings.TrimSpace(task.Text())
			if text == "" {
				task.RequireInput("Please provide a natural language query, few-shot examples, and optional schema.")
				return nil
			}

			input := parseSQLGenerationInput(text)
			fewshots := input.Fewshots
			if len(fewshots) == 0 {
				fewshots = retriever.Similar(input.NLQ, DefaultExampleCount)
			}

			used := make([]string, 0, len(fewshots))
			for _, ex := range fewshots {
				used = append(used, ex.NLQ)
			}

			return task.CompleteJSON(sqlGenerationResult{
				NLQ:          input.NLQ,
				SQL:          generateSQL(input.NLQ, fewshots),
				UsedExamples: used,
				SchemaUsed:   input.Schema != nil,
			})
		},
	}
}
