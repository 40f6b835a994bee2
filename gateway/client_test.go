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
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RavulapallySaicharan/Agents-a2a/shared/a2a"
)

// echoAgentServer serves a minimal agent endpoint: /a2a/tasks completes
// every task with a canned answer, /health answers 200, /a2a/card serves
// a card.
func echoAgentServer(t *testing.T, answer string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/a2a/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var task a2a.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
			http.Error(w, "bad task", http.StatusBadRequest)
			return
		}
		task.CompleteText(answer)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(task)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/a2a/card", func(w http.ResponseWriter, r *http.Request) {
		card := a2a.AgentCard{Name: "summarizer", Description: "Summarizes text", Version: "1.0.0"}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(card)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func descriptorFor(server *httptest.Server, name string) *AgentDescriptor {
	return &AgentDescriptor{
		Name:        name,
		Address:     server.URL,
		Description: "Agent " + name,
		Skills:      []Skill{newSkill(name+"-skill", "Skill for "+name, name)},
	}
}

func TestDispatch(t *testing.T) {
	server := echoAgentServer(t, "A concise summary.")
	client := NewDispatchClient(5 * time.Second)
	desc := descriptorFor(server, "summarizer")

	task := a2a.NewTextTask("session-1", "Summarize this long text")
	result, err := client.Dispatch(context.Background(), desc, task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status.State != a2a.TaskStateCompleted {
		t.Errorf("expected completed state, got '%s'", result.Status.State)
	}
	if result.ArtifactText() != "A concise summary." {
		t.Errorf("unexpected artifact text: %q", result.ArtifactText())
	}
	if result.SessionID != "session-1" {
		t.Errorf("expected session to round-trip, got '%s'", result.SessionID)
	}
}

func TestDispatchTrailingSlashAddress(t *testing.T) {
	server := echoAgentServer(t, "ok")
	client := NewDispatchClient(5 * time.Second)
	desc := descriptorFor(server, "summarizer")
	desc.Address = server.URL + "/"

	if _, err := client.Dispatch(context.Background(), desc, a2a.NewTextTask("s", "hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDispatchAgentFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "provider chain exhausted", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewDispatchClient(5 * time.Second)
	desc := descriptorFor(server, "summarizer")

	_, err := client.Dispatch(context.Background(), desc, a2a.NewTextTask("s", "hello"))
	if err == nil {
		t.Fatal("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status in error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "provider chain exhausted") {
		t.Errorf("expected body in error, got: %v", err)
	}
}

func TestDispatchUnreachableAgent(t *testing.T) {
	client := NewDispatchClient(time.Second)
	desc := &AgentDescriptor{
		Name:    "summarizer",
		Address: "http://127.0.0.1:1",
		Skills:  []Skill{newSkill("summarize-text", "Summarizes input text", "summarize")},
	}

	_, err := client.Dispatch(context.Background(), desc, a2a.NewTextTask("s", "hello"))
	if err == nil {
		t.Fatal("expected error for unreachable agent")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("expected unreachable error, got: %v", err)
	}
}

func TestDispatchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read detects the
		// client disconnect and cancels r.Context(); otherwise
		// server.Close deadlocks waiting on this handler.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	client := NewDispatchClient(5 * time.Second)
	desc := descriptorFor(server, "summarizer")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Dispatch(ctx, desc, a2a.NewTextTask("s", "hello"))
	if err == nil {
		t.Fatal("expected error for expired context")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("expected transport error wrapping, got: %v", err)
	}
}

func TestProbe(t *testing.T) {
	server := echoAgentServer(t, "ok")
	client := NewDispatchClient(time.Second)

	if !client.Probe(context.Background(), descriptorFor(server, "summarizer")) {
		t.Error("expected healthy agent to probe true")
	}

	down := &AgentDescriptor{Name: "down", Address: "http://127.0.0.1:1"}
	if client.Probe(context.Background(), down) {
		t.Error("expected unreachable agent to probe false")
	}
}

func TestProbeUnhealthyStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewDispatchClient(time.Second)
	if client.Probe(context.Background(), descriptorFor(server, "summarizer")) {
		t.Error("expected 503 health to probe false")
	}
}

func TestCard(t *testing.T) {
	server := echoAgentServer(t, "ok")
	client := NewDispatchClient(time.Second)

	card, err := client.Card(context.Background(), descriptorFor(server, "summarizer"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.Name != "summarizer" {
		t.Errorf("expected card name 'summarizer', got '%s'", card.Name)
	}
	if card.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got '%s'", card.Version)
	}
}
