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
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// Server serves one endpoint's A2A surface: tasks, card, and health.
type Server struct {
	endpoint *Endpoint
	baseURL  string
}

// NewServer wraps an endpoint for HTTP serving. baseURL is the address
// advertised on the agent card.
func NewServer(endpoint *Endpoint, baseURL string) *Server {
	return &Server{endpoint: endpoint, baseURL: baseURL}
}

// Handler builds the HTTP handler: routing plus CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Configure for production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r.HandleFunc("/a2a/tasks", s.taskHandler).Methods("POST")
	r.HandleFunc("/a2a/card", s.cardHandler).Methods("GET")
	r.HandleFunc("/health", s.healthHandler).Methods("GET")
	r.Handle("/prometheus", promhttp.Handler()).Methods("GET")

	return c.Handler(r)
}

// taskHandler accepts an A2A task, runs the skill, and returns the task
// with a terminal status. Skill-level refusals (missing input) ride the
// task status; infrastructure failures become HTTP errors.
func (s *Server) taskHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	var task a2a.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		promTasksTotal.WithLabelValues("error").Inc()
		sendErrorResponse(w, "Invalid task body", http.StatusBadRequest)
		return
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Status = a2a.TaskStatus{State: a2a.TaskStateWorking}

	err := s.endpoint.Handle(r.Context(), &task)

	latencyMs := time.Since(startTime).Milliseconds()
	promTaskDuration.WithLabelValues(s.endpoint.Name).Observe(float64(latencyMs))

	if err != nil {
		promTasksTotal.WithLabelValues("error").Inc()
		status := http.StatusInternalServerError
		var unavailable *llm.ProviderUnavailableError
		if errors.As(err, &unavailable) {
			status = http.StatusServiceUnavailable
		}
		sendErrorResponse(w, err.Error(), status)
		return
	}

	promTasksTotal.WithLabelValues(string(task.Status.State)).Inc()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&task); err != nil {
		log.Printf("Error encoding task response: %v", err)
	}
}

func (s *Server) cardHandler(w http.ResponseWriter, r *http.Request) {
	card := s.endpoint.Card(s.baseURL)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(card); err != nil {
		log.Printf("Error encoding card response: %v", err)
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"service":   "a2a-agent",
		"agent":     s.endpoint.Name,
		"timestamp": time.Now().UTC(),
		"version":   s.endpoint.Version,
	}); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}
