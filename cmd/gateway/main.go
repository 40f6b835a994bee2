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

// Package main is the entry point for the A2A Gateway service.
//
// The Gateway is the single client-facing entry point of an agent network:
// - Loads the network topology from a YAML config
// - Routes natural language queries to the best-matching agent
// - Dispatches A2A tasks to agent endpoints over HTTP
// - Tracks sessions, conversation history, and query logs
//
// Usage:
//
//	./gateway
//
// Environment Variables:
//
//	PORT - HTTP server port (default: 5000)
//	NETWORK_CONFIG - agent network YAML (default: configs/text-processing.yaml)
//	OPENAI_API_KEY - OpenAI API key for LLM routing (optional)
//	REDIS_URL - Redis URL for conversation history (optional)
//	DATABASE_URL - PostgreSQL connection string for query logs (optional)
package main

import (
	"github.com/RavulapallySaicharan/Agents-a2a/gateway"
)

func main() {
	gateway.Run()
}
