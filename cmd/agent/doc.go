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

/*
Command agent runs one A2A agent endpoint.

Each agent process serves its skill over the A2A HTTP surface: tasks are
POSTed to /a2a/tasks, the agent card is discovered at /a2a/card, and
/health answers liveness probes. The same binary runs every registered
agent; AGENT_NAME selects which one.

# Usage

	agent [flags]

# Environment Variables

Required for summarizer and translator:
  - OPENAI_API_KEY (or OPENAI_API_KEY_ARN with AWS Secrets Manager),
    AZURE_OPENAI_ENDPOINT, or BEDROCK_MODEL_ID: at least one LLM provider

Optional:
  - AGENT_NAME: agent to run (default: summarizer)
  - PORT: HTTP server port (overrides the agent's registered port)
  - AGENT_URL: address advertised on the agent card
  - SUMMARIZER_PORT, TRANSLATOR_PORT, NLQ_RECONSTRUCTION_PORT,
    GATING_PORT, FEWSHOTS_PORT, SQL_GENERATION_PORT: per-agent ports

# Example

	export AGENT_NAME="translator"
	export OPENAI_API_KEY="sk-..."
	./agent
*/
package main
