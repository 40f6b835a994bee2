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
Package logger provides structured JSON logging for the gateway and agent
services.

# Overview

Log entries are written to stdout as single-line JSON so they can be picked
up by CloudWatch, ELK, or plain docker logs without extra configuration.

Each entry includes:
  - Timestamp (RFC3339Nano format)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (gateway, translator, sql-generation, ...)
  - Instance ID and container name (for distributed tracing)
  - Session ID (conversation correlation across requests)
  - Request ID (single request correlation across services)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("gateway")

Log messages with session and request context:

	log.Info(sessionID, requestID, "Routing query", map[string]interface{}{
	    "agent":      decision.Agent,
	    "confidence": decision.Confidence,
	})

Log errors with status codes:

	log.ErrorWithCode(sessionID, requestID, "Dispatch failed", 503, err, nil)

Log with duration tracking:

	start := time.Now()
	// ... do work ...
	log.InfoWithDuration(sessionID, requestID, "Query completed",
	    float64(time.Since(start).Milliseconds()), nil)

# Environment Variables

  - INSTANCE_ID: deployment instance identifier
  - HOSTNAME: container hostname (auto-detected)

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
