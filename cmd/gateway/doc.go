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
Command gateway runs the A2A Gateway service.

The Gateway sits in front of a network of A2A agent endpoints. It reads the
network definition from YAML, discovers each agent's card, and answers
client queries by routing them to the most suitable agent.

# Usage

	gateway [flags]

# Environment Variables

Optional:
  - PORT: HTTP server port (default: 5000)
  - NETWORK_CONFIG: path to the agent network YAML (default: configs/text-processing.yaml)
  - OPENAI_API_KEY: enables LLM-based routing; lexical routing otherwise
  - AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_KEY, AZURE_OPENAI_DEPLOYMENT: Azure OpenAI failover
  - BEDROCK_MODEL_ID, AWS_REGION: AWS Bedrock failover
  - REDIS_URL: Redis URL for conversation history
  - DATABASE_URL: PostgreSQL connection string for query logging
  - JWT_SECRET: secret for bearer token validation on the API
  - SUBMIT_TIMEOUT_SECONDS: per-query dispatch budget (default: 60)

# Example

	export NETWORK_CONFIG="configs/text2sql.yaml"
	export OPENAI_API_KEY="sk-..."
	./gateway
*/
package main
