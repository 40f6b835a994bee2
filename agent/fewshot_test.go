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
	"reflect"
	"testing"

	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

func TestTFIDFTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "question",
			text: "What were the total sales last month?",
			want: []string{"what", "were", "the", "total", "sales", "last", "month"},
		},
		{
			name: "digits kept when two or more characters",
			text: "List all products with stock below 10 units",
			want: []string{"list", "all", "products", "with", "stock", "below", "10", "units"},
		},
		{
			name: "apostrophes split and single characters drop",
			text: "Find customers who haven't made a purchase",
			want: []string{"find", "customers", "who", "haven", "made", "purchase"},
		},
		{
			name: "only single characters",
			text: "a b c 5",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tfidfTokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tfidfTokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTFIDFIndexSimilarities(t *testing.T) {
	index := newTFIDFIndex([]string{"alpha beta", "beta gamma"})

	scores := index.similarities("alpha beta")
	if len(scores) != 2 {
		t.Fatalf("similarities returned %d scores, want 2", len(scores))
	}
	if scores[0] < 0.999 || scores[0] > 1.001 {
		t.Errorf("identical document score = %v, want 1.0", scores[0])
	}
	if scores[1] <= 0 || scores[1] >= scores[0] {
		t.Errorf("partial overlap score = %v, want between 0 and %v", scores[1], scores[0])
	}

	// Out-of-vocabulary terms contribute nothing.
	scores = index.similarities("delta epsilon")
	for i, score := range scores {
		if score != 0 {
			t.Errorf("scores[%d] = %v, want 0 for unseen terms", i, score)
		}
	}
}

func TestRetrieverExactMatch(t *testing.T) {
	retriever := NewRetriever(defaultExamples())

	results := retriever.Similar("What were the total sales last month?", 3)
	if len(results) != 3 {
		t.Fatalf("Similar returned %d results, want 3", len(results))
	}
	if results[0].NLQ != "What were the total sales last month?" {
		t.Errorf("results[0].NLQ = %q, want the exact corpus match first", results[0].NLQ)
	}
	if results[0].SimilarityScore < 0.999 {
		t.Errorf("results[0].SimilarityScore = %v, want ~1.0", results[0].SimilarityScore)
	}
	for i := 1; i < len(results); i++ {
		if results[i].SimilarityScore > results[i-1].SimilarityScore {
			t.Errorf("scores not descending at %d: %v > %v", i, results[i].SimilarityScore, results[i-1].SimilarityScore)
		}
	}
}

func TestRetrieverRanking(t *testing.T) {
	retriever := NewRetriever(defaultExamples())

	results := retriever.Similar("Show me top 10 customers by revenue", 3)
	if results[0].NLQ != "Show me top 5 customers by revenue" {
		t.Errorf("results[0].NLQ = %q, want the ranking example first", results[0].NLQ)
	}
	if results[0].SimilarityScore < 0.9 {
		t.Errorf("results[0].SimilarityScore = %v, want > 0.9", results[0].SimilarityScore)
	}
	if results[0].Category != "ranking" {
		t.Errorf("results[0].Category = %q, want ranking", results[0].Category)
	}
}

func TestRetrieverNoOverlap(t *testing.T) {
	examples := defaultExamples()
	retriever := NewRetriever(examples)

	results := retriever.Similar("asdf qwer zxcv", 3)
	if len(results) != 3 {
		t.Fatalf("Similar returned %d results, want 3", len(results))
	}
	// All-zero scores keep corpus order.
	for i, result := range results {
		if result.SimilarityScore != 0 {
			t.Errorf("results[%d].SimilarityScore = %v, want 0", i, result.SimilarityScore)
		}
		if result.NLQ != examples[i].NLQ {
			t.Errorf("results[%d].NLQ = %q, want %q", i, result.NLQ, examples[i].NLQ)
		}
	}
}

func TestRetrieverCount(t *testing.T) {
	retriever := NewRetriever(defaultExamples())

	tests := []struct {
		name string
		n    int
		want int
	}{
		{"zero uses default", 0, DefaultExampleCount},
		{"negative uses default", -2, DefaultExampleCount},
		{"one", 1, 1},
		{"more than corpus clamps", 100, len(defaultExamples())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := retriever.Similar("total sales", tt.n)
			if len(results) != tt.want {
				t.Errorf("Similar(n=%d) returned %d results, want %d", tt.n, len(results), tt.want)
			}
		})
	}
}

func TestFewshotsHandler(t *testing.T) {
	endpoint := NewFewshots()

	task := textTask("What is the average order value by region?")
	if err := endpoint.Handle(context.Background(), task); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	var result fewshotsResult
	decodeArtifact(t, task, &result)
	if result.Query != "What is the average order value by region?" {
		t.Errorf("query = %q", result.Query)
	}
	if len(result.Examples) != DefaultExampleCount {
		t.Fatalf("examples has %d entries, want %d", len(result.Examples), DefaultExampleCount)
	}
	if result.TotalExamples != DefaultExampleCount {
		t.Errorf("total_examples = %d, want %d", result.TotalExamples, DefaultExampleCount)
	}
	first := result.Examples[0]
	if first.NLQ != "What is the average order value by region?" {
		t.Errorf("examples[0].nlq = %q, want the exact corpus match", first.NLQ)
	}
	if first.SimilarityScore < 0.999 {
		t.Errorf("examples[0].similarity_score = %v, want ~1.0", first.SimilarityScore)
	}
	if first.SQL == "" || first.Category == "" {
		t.Errorf("examples[0] missing sql or category: %+v", first)
	}
}

func TestFewshotsHandlerCount(t *testing.T) {
	endpoint := NewFewshots()

	task := textTask(`{"query": "What is the average order value by region?", "n_examples": 2}`)
	if err := endpoint.Handle(context.Background(), task); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	var result fewshotsResult
	decodeArtifact(t, task, &result)
	if len(result.Examples) != 2 {
		t.Errorf("examples has %d entries, want 2", len(result.Examples))
	}
	if result.TotalExamples != 2 {
		t.Errorf("total_examples = %d, want 2", result.TotalExamples)
	}
}

func TestFewshotsHandlerEmptyQuery(t *testing.T) {
	endpoint := NewFewshots()

	task := textTask("")
	if err := endpoint.Handle(context.Background(), task); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if task.Status.State != a2a.TaskStateInputRequired {
		t.Errorf("state = %q, want %q", task.Status.State, a2a.TaskStateInputRequired)
	}
	if task.Status.Message == nil || task.Status.Message.Content.Text != "Please provide a natural language query to find similar examples." {
		t.Errorf("unexpected status message: %+v", task.Status.Message)
	}
}
