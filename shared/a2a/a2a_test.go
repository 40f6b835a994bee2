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

package a2a

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextTask(t *testing.T) {
	task := NewTextTask("sess-1", "Summarize this text: hello world")

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "sess-1", task.SessionID)
	assert.Equal(t, TaskStateSubmitted, task.Status.State)
	assert.Equal(t, "Summarize this text: hello world", task.Text())
	assert.Equal(t, RoleUser, task.Message.Role)
}

func TestTaskText_NoMessage(t *testing.T) {
	task := &Task{ID: "t-1"}
	assert.Empty(t, task.Text())
}

func TestCompleteText(t *testing.T) {
	task := NewTextTask("sess-1", "Translate this to French: Hello")
	task.CompleteText("Bonjour")

	assert.Equal(t, TaskStateCompleted, task.Status.State)
	require.Len(t, task.Artifacts, 1)
	require.Len(t, task.Artifacts[0].Parts, 1)

	part := task.Artifacts[0].Parts[0]
	assert.Equal(t, PartTypeText, part.Type)
	assert.Equal(t, "Bonjour", part.Text)
	assert.Equal(t, "Bonjour", task.ArtifactText())
}

func TestCompleteJSON(t *testing.T) {
	task := NewTextTask("sess-1", "how many orders")
	result := map[string]interface{}{
		"query":   "how many orders",
		"proceed": true,
	}
	require.NoError(t, task.CompleteJSON(result))

	assert.Equal(t, TaskStateCompleted, task.Status.State)
	require.Len(t, task.Artifacts, 1)

	part := task.Artifacts[0].Parts[0]
	assert.Equal(t, PartTypeJSON, part.Type)
	assert.Equal(t, "data", part.DataType)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(part.Message), &decoded))
	assert.Equal(t, true, decoded["proceed"])
	assert.Contains(t, task.ArtifactText(), "how many orders")
}

func TestCompleteJSON_UnmarshalableValue(t *testing.T) {
	task := NewTextTask("sess-1", "query")
	assert.Error(t, task.CompleteJSON(make(chan int)))
}

func TestRequireInput(t *testing.T) {
	task := NewTextTask("sess-1", "")
	task.RequireInput("Please provide text content to summarize.")

	assert.Equal(t, TaskStateInputRequired, task.Status.State)
	require.NotNil(t, task.Status.Message)
	assert.Equal(t, RoleAgent, task.Status.Message.Role)
	assert.Contains(t, task.Status.Message.Content.Text, "summarize")
}

func TestFail(t *testing.T) {
	task := NewTextTask("sess-1", "query")
	task.Fail("all providers failed")

	assert.Equal(t, TaskStateFailed, task.Status.State)
	require.NotNil(t, task.Status.Message)
	assert.Equal(t, "all providers failed", task.Status.Message.Content.Text)
}

func TestArtifactText_Empty(t *testing.T) {
	task := NewTextTask("sess-1", "query")
	assert.Empty(t, task.ArtifactText())
}

func TestTaskJSONRoundTrip(t *testing.T) {
	task := NewTextTask("sess-1", "Translate this to German: good morning")
	task.CompleteText("Guten Morgen")

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded Task
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, task.SessionID, decoded.SessionID)
	assert.Equal(t, "Guten Morgen", decoded.ArtifactText())
}
