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
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
	"github.com/RavulapallySaicharan/Agents-a2a/llm/azure"
	"github.com/RavulapallySaicharan/Agents-a2a/llm/bedrock"
	"github.com/RavulapallySaicharan/Agents-a2a/llm/openai"
)

// A2A Agent Endpoint - one process per registered agent, selected by
// AGENT_NAME.

// Prometheus metrics
var (
	promTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a2a_agent_tasks_total",
			Help: "Total number of tasks processed by the agent, by terminal state",
		},
		[]string{"status"},
	)
	promTaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "a2a_agent_task_duration_milliseconds",
			Help:    "Task handling duration in milliseconds",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
		},
		[]string{"agent"},
	)
)

func init() {
	// Register Prometheus metrics
	prometheus.MustRegister(promTasksTotal)
	prometheus.MustRegister(promTaskDuration)
}

// Run is the exported entry point for the agent service.
func Run() {
	log.Println("Starting A2A Agent...")

	name := getEnv("AGENT_NAME", "summarizer")
	def, ok := catalog[name]
	if !ok {
		log.Fatalf("❌ Unknown AGENT_NAME '%s' - choose one of: %s", name, strings.Join(Names(), ", "))
	}

	var provider llm.Provider
	if def.needsProvider {
		provider = newProviderChain(context.Background())
		if provider == nil {
			log.Fatalf("❌ Agent '%s' requires an LLM provider - set OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, or BEDROCK_MODEL_ID", name)
		}
	}

	endpoint := def.build(provider)
	log.Printf("✅ Agent '%s' initialized: %d skill(s) declared", endpoint.Name, len(endpoint.Skills))

	// Port resolution: PORT wins, then the agent's own variable, then the
	// built-in default.
	port := getEnv("PORT", getEnv(def.portEnv, def.defaultPort))
	baseURL := getEnv("AGENT_URL", "http://localhost:"+port)

	server := NewServer(endpoint, baseURL)
	log.Printf("🚀 A2A Agent '%s' listening on port %s", name, port)
	log.Fatal(http.ListenAndServe(":"+port, server.Handler()))
}

// newProviderChain assembles the skill failover chain from the
// environment: OpenAI primary, Azure OpenAI secondary, Bedrock optional
// third. A provider whose initialization fails stays in the chain as an
// unavailable slot so the final error names it. Returns nil when nothing
// is configured.
func newProviderChain(ctx context.Context) llm.Provider {
	providers := make([]llm.Provider, 0, 3)

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" && os.Getenv("OPENAI_API_KEY_ARN") != "" {
		resolver, err := llm.NewKeyResolver(ctx)
		if err != nil {
			log.Printf("⚠️  Failed to initialize secrets resolver: %v", err)
		} else if key, err := resolver.Resolve(ctx, "OPENAI_API_KEY", "OPENAI_API_KEY_ARN"); err != nil {
			log.Printf("⚠️  Failed to resolve OpenAI API key: %v", err)
		} else {
			openaiKey = key
		}
	}
	if openaiKey != "" {
		p, err := openai.New(openai.Config{
			APIKey: openaiKey,
			Model:  os.Getenv("OPENAI_MODEL"),
		})
		if err != nil {
			log.Printf("⚠️  OpenAI provider unavailable: %v", err)
			providers = append(providers, llm.NewUnavailable(string(llm.ProviderTypeOpenAI), err))
		} else {
			providers = append(providers, p)
			log.Println("✅ OpenAI provider configured (primary)")
		}
	}

	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		p, err := azure.New(azure.Config{
			Endpoint:   endpoint,
			APIKey:     os.Getenv("AZURE_OPENAI_KEY"),
			Deployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT"),
		})
		if err != nil {
			log.Printf("⚠️  Azure OpenAI provider unavailable: %v", err)
			providers = append(providers, llm.NewUnavailable(string(llm.ProviderTypeAzureOpenAI), err))
		} else {
			providers = append(providers, p)
			log.Println("✅ Azure OpenAI provider configured (secondary)")
		}
	}

	if modelID := os.Getenv("BEDROCK_MODEL_ID"); modelID != "" {
		p, err := bedrock.New(ctx, bedrock.Config{
			Region:  os.Getenv("AWS_REGION"),
			ModelID: modelID,
		})
		if err != nil {
			log.Printf("⚠️  Bedrock provider unavailable: %v", err)
			providers = append(providers, llm.NewUnavailable(string(llm.ProviderTypeBedrock), err))
		} else {
			providers = append(providers, p)
			log.Println("✅ Bedrock provider configured")
		}
	}

	if len(providers) == 0 {
		return nil
	}
	return llm.NewChain(providers...)
}

// Utility functions
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"error": message,
	}); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
