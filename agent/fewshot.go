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
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// DefaultExampleCount is how many few-shot examples a retrieval returns
// when the caller does not ask for a specific count.
const DefaultExampleCount = 3

// Example pairs a natural language query with the SQL that answers it.
type Example struct {
	NLQ      string `json:"nlq"`
	SQL      string `json:"sql"`
	Category string `json:"category"`
}

// ScoredExample is an example plus its similarity to the incoming query.
type ScoredExample struct {
	Example
	SimilarityScore float64 `json:"similarity_score"`
}

// defaultExamples is the built-in retrieval corpus. Categories group the
// examples by SQL shape; the retriever itself only looks at the NLQs.
func defaultExamples() []Example {
	return []Example{
		{
			NLQ:      "What were the total sales last month?",
			SQL:      "SELECT SUM(amount) FROM sales WHERE DATE_TRUNC('month', sale_date) = DATE_TRUNC('month', CURRENT_DATE - INTERVAL '1 month')",
			Category: "aggregation",
		},
		{
			NLQ:      "Show me top 5 customers by revenue",
			SQL:      "SELECT customer_name, SUM(amount) as total_revenue FROM sales GROUP BY customer_name ORDER BY total_revenue DESC LIMIT 5",
			Category: "ranking",
		},
		{
			NLQ:      "What is the average order value by region?",
			SQL:      "SELECT region, AVG(order_value) as avg_order_value FROM orders GROUP BY region",
			Category: "aggregation",
		},
		{
			NLQ: "Compare sales between this year and last year",
			SQL: `SELECT
	DATE_TRUNC('year', sale_date) as year,
	SUM(amount) as total_sales
FROM sales
WHERE sale_date >= CURRENT_DATE - INTERVAL '2 years'
GROUP BY DATE_TRUNC('year', sale_date)
ORDER BY year`,
			Category: "comparison",
		},
		{
			NLQ:      "List all products with stock below 10 units",
			SQL:      "SELECT product_name, stock_quantity FROM products WHERE stock_quantity < 10",
			Category: "filtering",
		},
		{
			NLQ: "What is the total revenue by product category?",
			SQL: `SELECT
	p.category,
	SUM(s.amount) as total_revenue
FROM sales s
JOIN products p ON s.product_id = p.id
GROUP BY p.category`,
			Category: "aggregation",
		},
		{
			NLQ: "Find customers who haven't made a purchase in 6 months",
			SQL: `SELECT customer_name
FROM customers c
WHERE NOT EXISTS (
	SELECT 1 FROM sales s
	WHERE s.customer_id = c.id
	AND s.sale_date >= CURRENT_DATE - INTERVAL '6 months'
)`,
			Category: "filtering",
		},
	}
}

// tfidfTokenPattern keeps lowercase word tokens of two or more characters;
// single letters and punctuation carry no retrieval signal.
var tfidfTokenPattern = regexp.MustCompile(`\b\w\w+\b`)

func tfidfTokenize(text string) []string {
	return tfidfTokenPattern.FindAllString(strings.ToLower(text), -1)
}

// tfidfIndex holds the vocabulary, smoothed inverse document frequencies,
// and L2-normalized vectors of a fitted corpus. Cosine similarity between
// normalized vectors reduces to a dot product.
type tfidfIndex struct {
	vocabulary map[string]int
	idf        []float64
	corpus     [][]float64
}

func newTFIDFIndex(texts []string) *tfidfIndex {
	ix := &tfidfIndex{vocabulary: make(map[string]int)}

	tokenized := make([][]string, len(texts))
	for i, text := range texts {
		tokens := tfidfTokenize(text)
		tokenized[i] = tokens
		for _, token := range tokens {
			if _, seen := ix.vocabulary[token]; !seen {
				ix.vocabulary[token] = len(ix.vocabulary)
			}
		}
	}

	// Document frequency per term
	df := make([]int, len(ix.vocabulary))
	for _, tokens := range tokenized {
		seen := make(map[int]bool, len(tokens))
		for _, token := range tokens {
			seen[ix.vocabulary[token]] = true
		}
		for column := range seen {
			df[column]++
		}
	}

	// Smoothed idf: ln((1+n)/(1+df)) + 1, so terms in every document still
	// carry a small positive weight.
	n := float64(len(texts))
	ix.idf = make([]float64, len(df))
	for column, count := range df {
		ix.idf[column] = math.Log((1+n)/(1+float64(count))) + 1
	}

	ix.corpus = make([][]float64, len(tokenized))
	for i, tokens := range tokenized {
		ix.corpus[i] = ix.vectorize(tokens)
	}
	return ix
}

// vectorize builds the L2-normalized tf-idf vector for a token sequence.
// Tokens outside the fitted vocabulary are ignored.
func (ix *tfidfIndex) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(ix.vocabulary))
	for _, token := range tokens {
		if column, ok := ix.vocabulary[token]; ok {
			vec[column] += ix.idf[column]
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for column := range vec {
			vec[column] /= norm
		}
	}
	return vec
}

// similarities returns the cosine similarity of the text against every
// corpus document, in corpus order.
func (ix *tfidfIndex) similarities(text string) []float64 {
	query := ix.vectorize(tfidfTokenize(text))
	out := make([]float64, len(ix.corpus))
	for i, doc := range ix.corpus {
		var dot float64
		for column, v := range query {
			dot += v * doc[column]
		}
		out[i] = dot
	}
	return out
}

// Retriever finds the corpus examples most similar to a query.
type Retriever struct {
	examples []Example
	index    *tfidfIndex
}

// NewRetriever fits a TF-IDF index over the examples' natural language
// queries.
func NewRetriever(examples []Example) *Retriever {
	texts := make([]string, len(examples))
	for i, ex := range examples {
		texts[i] = ex.NLQ
	}
	return &Retriever{examples: examples, index: newTFIDFIndex(texts)}
}

// Similar returns the n most similar examples, highest score first. Equal
// scores keep corpus order. A non-positive n uses DefaultExampleCount.
func (r *Retriever) Similar(query string, n int) []ScoredExample {
	if n <= 0 {
		n = DefaultExampleCount
	}
	if n > len(r.examples) {
		n = len(r.examples)
	}

	scores := r.index.similarities(query)
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make([]ScoredExample, 0, n)
	for _, idx := range order[:n] {
		out = append(out, ScoredExample{Example: r.examples[idx], SimilarityScore: scores[idx]})
	}
	return out
}

// fewshotsResult is the JSON artifact produced by the fewshots agent.
type fewshotsResult struct {
	Query         string          `json:"query"`
	Examples      []ScoredExample `json:"examples"`
	TotalExamples int             `json:"total_examples"`
}

// NewFewshots builds the few-shot retrieval agent: TF-IDF cosine similarity
// over the built-in corpus, top-n with scores.
func NewFewshots() *Endpoint {
	retriever := NewRetriever(defaultExamples())
	return &Endpoint{
		Name:        "fewshots",
		Description: "Retrieves relevant few-shot examples for SQL generation",
		Version:     "1.0.0",
		Skills: []a2a.CardSkill{{
			Name:        "get-fewshots",
			Description: "Retrieve relevant few-shot examples for SQL generation",
			Tags:        []string{"nlq", "few-shots", "examples", "text2sql"},
		}},
		Handler: func(ctx context.Context, task *a2a.Task) error {
			query, n := parseQueryContent(task.Text())
			if query == "" {
				task.RequireInput("Please provide a natural language query to find similar examples.")
				return nil
			}

			examples := retriever.Similar(query, n)
			return task.CompleteJSON(fewshotsResult{
				Query:         query,
				Examples:      examples,
				TotalExamples: len(examples),
			})
		},
	}
}
