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
Package gateway provides the A2A Gateway service - the client-facing entry
point that routes natural-language queries to the agents of a declared
network.

# Overview

The gateway loads an agent network from a YAML definition, discovers agent
liveness at startup, and answers client queries by selecting the best
agent and forwarding the query as an A2A task:

	Query → Router (LLM, lexical fallback) → Dispatch → History + Query log

Routing is LLM-first: the registry is rendered into a decision prompt and
the provider chain picks an agent with a confidence and reason. When no
provider is configured or the chain is exhausted, a deterministic lexical
scorer over skill tags and descriptions takes over, so the gateway keeps
answering without credentials.

# Network configuration

Networks are declared in Kubernetes-style YAML:

	apiVersion: a2a/v1
	kind: AgentNetwork
	metadata:
	  name: text-processing
	spec:
	  agents:
	    - name: summarizer
	      address: http://localhost:5001
	      skills: [...]

Validation is fail-fast: unknown apiVersion or kind, malformed names,
non-HTTP addresses, skill-less agents, and duplicate agent names all
reject the file at load. Addresses pass through ${VAR} environment
expansion.

# HTTP API

	POST /api/v1/ask                  route a query and return the answer
	POST /api/v1/run/{agent}          bypass routing, run a named agent
	GET  /api/v1/agents               the loaded network
	GET  /api/v1/history/{session_id} conversation history
	GET  /health                      liveness plus per-agent status
	GET  /metrics                     JSON counters
	GET  /prometheus                  Prometheus native format

When JWT_SECRET is set, /api/v1 routes require a bearer token.

# Persistence

Conversation history lives in Redis when REDIS_URL is set, otherwise in an
in-process store. Completed queries are logged asynchronously to
PostgreSQL when DATABASE_URL is set; both stores degrade to no-ops rather
than failing queries.

# Usage

	gateway.Run()

	// Configuration via environment variables:
	// PORT                   - HTTP port (default: 5000)
	// NETWORK_CONFIG         - network YAML path (default: configs/text-processing.yaml)
	// SUBMIT_TIMEOUT_SECONDS - per-query budget (default: 60)
	// OPENAI_API_KEY         - primary routing provider (optional)
	// AZURE_OPENAI_ENDPOINT  - failover provider (optional)
	// BEDROCK_MODEL_ID       - failover provider (optional)
	// REDIS_URL              - history store (optional)
	// DATABASE_URL           - query log (optional)
	// JWT_SECRET             - enables bearer auth (optional)
*/
package gateway
