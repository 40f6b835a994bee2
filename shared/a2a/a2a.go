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

// Package a2a defines the task, message, and agent card shapes exchanged
// between the gateway and agent endpoints.
package a2a

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TaskState is the lifecycle state of a task.
type TaskState string

const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
)

// Message roles.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Part types inside artifacts.
const (
	PartTypeText = "text"
	PartTypeJSON = "json"
)

// Content is the payload of a message.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Message carries one turn of the exchange, from the user or from the agent.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// Part is one piece of a produced artifact. Text parts carry Text; JSON
// parts carry a serialized document in Message with DataType "data".
type Part struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	DataType string `json:"dataType,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Artifact is the output of a completed task.
type Artifact struct {
	Parts []Part `json:"parts"`
}

// TaskStatus pairs a state with an optional agent message explaining it.
type TaskStatus struct {
	State   TaskState `json:"state"`
	Message *Message  `json:"message,omitempty"`
}

// Task is the unit of work exchanged between the gateway and an agent
// endpoint. The gateway submits a task with a user message; the agent
// returns it with artifacts and a terminal status.
type Task struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id,omitempty"`
	Message   *Message   `json:"message,omitempty"`
	Status    TaskStatus `json:"status"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// NewTextTask builds a submitted task wrapping a plain text query.
func NewTextTask(sessionID, text string) *Task {
	return &Task{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Message: &Message{
			Role:    RoleUser,
			Content: Content{Type: PartTypeText, Text: text},
		},
		Status: TaskStatus{State: TaskStateSubmitted},
	}
}

// Text returns the task's inbound message text, or "" when absent.
func (t *Task) Text() string {
	if t.Message == nil {
		return ""
	}
	return t.Message.Content.Text
}

// CompleteText marks the task completed with a single text artifact.
func (t *Task) CompleteText(text string) {
	t.Artifacts = []Artifact{{
		Parts: []Part{{Type: PartTypeText, Text: text}},
	}}
	t.Status = TaskStatus{State: TaskStateCompleted}
}

// CompleteJSON marks the task completed with a single JSON artifact
// carrying the serialized value.
func (t *Task) CompleteJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	t.Artifacts = []Artifact{{
		Parts: []Part{{Type: PartTypeJSON, DataType: "data", Message: string(data)}},
	}}
	t.Status = TaskStatus{State: TaskStateCompleted}
	return nil
}

// RequireInput marks the task as needing more input from the caller.
func (t *Task) RequireInput(prompt string) {
	t.Status = TaskStatus{
		State: TaskStateInputRequired,
		Message: &Message{
			Role:    RoleAgent,
			Content: Content{Type: PartTypeText, Text: prompt},
		},
	}
}

// Fail marks the task failed with an explanatory agent message.
func (t *Task) Fail(reason string) {
	t.Status = TaskStatus{
		State: TaskStateFailed,
		Message: &Message{
			Role:    RoleAgent,
			Content: Content{Type: PartTypeText, Text: reason},
		},
	}
}

// ArtifactText extracts the first artifact's payload: text for text parts,
// the serialized document for JSON parts, "" when nothing was produced.
func (t *Task) ArtifactText() string {
	for _, artifact := range t.Artifacts {
		for _, part := range artifact.Parts {
			switch part.Type {
			case PartTypeText:
				if part.Text != "" {
					return part.Text
				}
			case PartTypeJSON:
				if part.Message != "" {
					return part.Message
				}
			}
		}
	}
	return ""
}

// AgentCard is the self-description an agent serves at /a2a/card.
type AgentCard struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	Version     string      `json:"version"`
	Skills      []CardSkill `json:"skills,omitempty"`
}

// CardSkill is the card-level view of one declared skill.
type CardSkill struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}
