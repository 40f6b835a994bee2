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
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	mathRand "math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
	"github.com/RavulapallySaicharan/Agents-a2a/llm/azure"
	"github.com/RavulapallySaicharan/Agents-a2a/llm/bedrock"
	"github.com/RavulapallySaicharan/Agents-a2a/llm/openai"
)

// A2A Gateway - Network Manager service
// Routes caller queries to registered agent endpoints over the A2A protocol.

// Configuration
var (
	jwtSecret      = []byte(os.Getenv("JWT_SECRET"))
	networkManager *Manager
	queryLogger    *QueryLogger
	networkName    string
	llmRouting     bool
)

// Prometheus metrics
var (
	promRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a2a_gateway_requests_total",
			Help: "Total number of requests processed by the gateway",
		},
		[]string{"status"},
	)
	promRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "a2a_gateway_request_duration_milliseconds",
			Help:    "Request duration in milliseconds",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 30000},
		},
		[]string{"endpoint"},
	)
	promRoutingFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "a2a_gateway_routing_fallbacks_total",
			Help: "Total number of routing decisions made by the lexical fallback",
		},
	)
	promDispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "a2a_gateway_dispatches_total",
			Help: "Total number of tasks dispatched per agent",
		},
		[]string{"agent"},
	)
)

func init() {
	// Register Prometheus metrics
	prometheus.MustRegister(promRequestsTotal)
	prometheus.MustRegister(promRequestDuration)
	prometheus.MustRegister(promRoutingFallbacks)
	prometheus.MustRegister(promDispatchesTotal)
}

// gatewayMetrics tracks request counters and latencies for the JSON
// metrics endpoint. Prometheus carries the same signals for scraping;
// this snapshot exists for humans and dashboards without a Prometheus.
type gatewayMetrics struct {
	mu sync.RWMutex

	totalRequests   int64
	successRequests int64
	failedRequests  int64

	// Keep last 1000 for P99 calculation
	lastLatencies []int64

	startTime time.Time
}

// Global metrics instance
var serviceMetrics = &gatewayMetrics{
	lastLatencies: make([]int64, 0, 1000),
	startTime:     time.Now(),
}

func (m *gatewayMetrics) recordRequest(latencyMs int64, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	if success {
		m.successRequests++
	} else {
		m.failedRequests++
	}

	if len(m.lastLatencies) >= 1000 {
		m.lastLatencies = m.lastLatencies[1:]
	}
	m.lastLatencies = append(m.lastLatencies, latencyMs)
}

// calculateP99 returns the 99th percentile of the recorded latencies.
func calculateP99(latencies []int64) float64 {
	if len(latencies) == 0 {
		return 0
	}

	// Make a copy to avoid modifying original
	sorted := make([]int64, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)) * 0.99)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return float64(sorted[idx])
}

// Run is the exported entry point for the gateway service.
func Run() {
	log.Println("Starting A2A Gateway...")

	// Initialize components
	initializeComponents()

	// Setup router
	r := mux.NewRouter()

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Health check
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Metrics endpoints
	r.HandleFunc("/metrics", metricsHandler).Methods("GET")    // JSON metrics
	r.Handle("/prometheus", promhttp.Handler()).Methods("GET") // Prometheus native format

	// API routes; bearer auth applies only when JWT_SECRET is set
	api := r.PathPrefix("/api/v1").Subrouter()
	if len(jwtSecret) > 0 {
		api.Use(jwtMiddleware(jwtSecret))
		log.Println("✅ Bearer token authentication enabled on /api/v1")
	} else {
		log.Println("⚠️  JWT_SECRET not set - API endpoints are unauthenticated")
	}

	// Main query endpoint - route and dispatch
	api.HandleFunc("/ask", askHandler).Methods("POST")

	// Network introspection
	api.HandleFunc("/agents", agentsHandler).Methods("GET")
	api.HandleFunc("/history/{session_id}", historyHandler).Methods("GET")

	// Direct dispatch to a named agent, bypassing the router
	api.HandleFunc("/run/{agent}", runAgentHandler).Methods("POST")

	// Start server
	port := getEnv("PORT", "5000")
	handler := c.Handler(r)
	log.Printf("🚀 A2A Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

func initializeComponents() {
	// Network config is mandatory: the gateway refuses to start on a bad or
	// missing network rather than routing against a partial one.
	configPath := getEnv("NETWORK_CONFIG", "configs/text-processing.yaml")
	networkConfig, err := LoadNetworkConfig(configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load network config %s: %v", configPath, err)
	}

	registry, err := BuildRegistry(networkConfig)
	if err != nil {
		log.Fatalf("❌ Failed to build agent registry: %v", err)
	}
	networkName = networkConfig.Metadata.Name
	log.Printf("✅ Agent network '%s' loaded: %d agents registered", networkName, registry.Len())

	ctx := context.Background()
	provider := newProviderChain(ctx)
	llmRouting = provider != nil
	queryRouter := NewRouter(provider, DefaultRouterWeights())

	// Conversation history: Redis when configured, in-memory otherwise
	var history ConversationStore
	redisURL := os.Getenv("REDIS_URL")
	if redisURL != "" {
		redisHistory, err := NewRedisHistory(redisURL, DefaultHistoryTTL)
		if err != nil {
			log.Printf("⚠️  Failed to initialize Redis history: %v", err)
			log.Println("Falling back to in-memory conversation history")
			history = NewMemoryHistory()
		} else {
			history = redisHistory
			log.Println("✅ Redis conversation history enabled")
		}
	} else {
		log.Println("ℹ️  REDIS_URL not set - using in-memory conversation history")
		history = NewMemoryHistory()
	}

	// Query log: Postgres when configured, disabled otherwise
	queryLogger = NewQueryLogger(os.Getenv("DATABASE_URL"))
	if queryLogger.Enabled() {
		log.Println("✅ Query log connected")
	} else {
		log.Println("ℹ️  DATABASE_URL not set - query logging disabled")
	}

	timeout := DefaultSubmitTimeout
	if v := os.Getenv("SUBMIT_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			log.Printf("⚠️  Invalid SUBMIT_TIMEOUT_SECONDS %q - using default %s", v, DefaultSubmitTimeout)
		} else {
			timeout = time.Duration(seconds) * time.Second
		}
	}

	dispatch := NewDispatchClient(timeout)
	networkManager = NewManager(registry, queryRouter, dispatch, history, queryLogger, timeout)
	log.Println("✅ Network manager initialized")
}

// newProviderChain assembles the routing failover chain from the
// environment: OpenAI primary, Azure OpenAI secondary, Bedrock optional
// third. A provider whose initialization fails stays in the chain as an
// unavailable slot so the final error names it. Returns nil when nothing
// is configured; the router then uses lexical matching only.
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
		log.Println("⚠️  No LLM providers configured - routing will use lexical matching only")
		return nil
	}
	return llm.NewChain(providers...)
}

func askHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		sendErrorResponse(w, "Query is required", http.StatusBadRequest)
		return
	}
	req.RequestID = generateRequestID()
	w.Header().Set("X-Request-ID", req.RequestID)

	result, err := networkManager.Submit(r.Context(), req)

	latencyMs := time.Since(startTime).Milliseconds()
	promRequestDuration.WithLabelValues("ask").Observe(float64(latencyMs))
	serviceMetrics.recordRequest(latencyMs, err == nil)

	if err != nil {
		promRequestsTotal.WithLabelValues("error").Inc()
		sendErrorResponse(w, err.Error(), httpStatusForError(err))
		return
	}

	promRequestsTotal.WithLabelValues("success").Inc()
	if result.Fallback {
		promRoutingFallbacks.Inc()
	}
	if result.Agent != "" {
		promDispatchesTotal.WithLabelValues(result.Agent).Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func runAgentHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()
	agentName := mux.Vars(r)["agent"]

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		sendErrorResponse(w, "Query is required", http.StatusBadRequest)
		return
	}
	w.Header().Set("X-Request-ID", generateRequestID())

	result, err := networkManager.RunAgent(r.Context(), agentName, req.Query, req.SessionID)

	latencyMs := time.Since(startTime).Milliseconds()
	promRequestDuration.WithLabelValues("run").Observe(float64(latencyMs))
	serviceMetrics.recordRequest(latencyMs, err == nil)

	if err != nil {
		promRequestsTotal.WithLabelValues("error").Inc()
		sendErrorResponse(w, err.Error(), httpStatusForError(err))
		return
	}

	promRequestsTotal.WithLabelValues("success").Inc()
	promDispatchesTotal.WithLabelValues(agentName).Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func agentsHandler(w http.ResponseWriter, r *http.Request) {
	statuses := networkManager.AgentsStatus(r.Context())

	response := map[string]interface{}{
		"network": networkName,
		"count":   len(statuses),
		"agents":  statuses,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func historyHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]

	entries, err := networkManager.History(r.Context(), sessionID)
	if err != nil {
		sendErrorResponse(w, "Failed to load history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"session_id": sessionID,
		"count":      len(entries),
		"history":    entries,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	components := map[string]bool{
		"registry":  networkManager != nil && networkManager.registry.Len() > 0,
		"query_log": queryLogger.IsHealthy(),
	}

	allHealthy := true
	for _, healthy := range components {
		if !healthy {
			allHealthy = false
			break
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      status,
		"service":     "a2a-gateway",
		"network":     networkName,
		"llm_routing": llmRouting,
		"components":  components,
		"timestamp":   time.Now().UTC(),
		"version":     "1.0.0",
	}); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	serviceMetrics.mu.RLock()
	totalRequests := serviceMetrics.totalRequests
	successRequests := serviceMetrics.successRequests
	failedRequests := serviceMetrics.failedRequests
	p99 := calculateP99(serviceMetrics.lastLatencies)
	uptime := time.Since(serviceMetrics.startTime)
	serviceMetrics.mu.RUnlock()

	agentsRegistered := 0
	if networkManager != nil {
		agentsRegistered = networkManager.registry.Len()
	}

	response := map[string]interface{}{
		"service":           "a2a-gateway",
		"network":           networkName,
		"uptime_seconds":    int64(uptime.Seconds()),
		"agents_registered": agentsRegistered,
		"requests_total":    totalRequests,
		"requests_success":  successRequests,
		"requests_failed":   failedRequests,
		"latency_p99_ms":    p99,
		"llm_routing":       llmRouting,
		"query_log_enabled": queryLogger.Enabled(),
		"timestamp":         time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// httpStatusForError maps routing and dispatch failures onto the response
// status: timeouts 504, unknown agents 404, exhausted provider chains and
// unreachable agents 503.
func httpStatusForError(err error) int {
	var unknownAgent *UnknownAgentError
	var emptyRegistry *EmptyRegistryError
	var unavailable *llm.ProviderUnavailableError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &unknownAgent):
		return http.StatusNotFound
	case errors.As(err, &emptyRegistry):
		return http.StatusServiceUnavailable
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusServiceUnavailable
	}
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

func generateRequestID() string {
	return fmt.Sprintf("req_%d_%s", time.Now().UnixNano(), generateRandomString(8))
}

func generateRandomString(length int) string {
	// Cryptographically secure random string generation
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)

	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		// Fallback to math/rand if crypto/rand fails (shouldn't happen)
		for i := range b {
			b[i] = charset[mathRand.Intn(len(charset))]
		}
		return string(b)
	}

	for i := range b {
		b[i] = charset[int(randomBytes[i])%len(charset)]
	}
	return string(b)
}
