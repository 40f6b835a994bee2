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
Package agent provides the A2A agent endpoint service - one process per
registered agent, selected by AGENT_NAME.

# Overview

An agent endpoint accepts A2A tasks over HTTP, runs the skill behind its
declared capability, and returns the task with artifacts and a terminal
status. Two kinds of skills exist:

  - LLM-backed skills (summarizer, translator) forward a fixed instruction
    template through the provider failover chain and return the generated
    text.
  - Deterministic text2sql pipeline skills (nlq-reconstruction, gating,
    fewshots, sql-generation) run entirely locally: pattern rewriting,
    rule-based confidence scoring, TF-IDF example retrieval, and template
    instantiation.

# HTTP surface

	POST /a2a/tasks   accept a task, run the skill, return the task
	GET  /a2a/card    the agent's self-description
	GET  /health      liveness for the gateway's status probe

The gateway discovers agents from its network config; the endpoints
themselves are self-describing through their cards and carry no knowledge
of the network they belong to.
*/
package agent
