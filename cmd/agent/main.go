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

// Package main is the entry point for an A2A Agent endpoint.
//
// One process serves one agent, selected by AGENT_NAME:
// - summarizer, translator: LLM-backed text skills
// - nlq-reconstruction, gating, fewshots, sql-generation: the text2sql pipeline
//
// Usage:
//
//	./agent
//
// Environment Variables:
//
//	AGENT_NAME - which agent to run (default: summarizer)
//	PORT - HTTP server port (default: the agent's registered port)
//	OPENAI_API_KEY - OpenAI API key for LLM-backed agents
package main

import (
	"github.com/RavulapallySaicharan/Agents-a2a/agent"
)

func main() {
	agent.Run()
}
