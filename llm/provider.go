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

package llm

import "context"

// Provider is the abstract text-generation capability. Implementations
// live in the openai, azure, and bedrock subpackages; the Chain in this
// package is itself a Provider so callers never see the failover.
//
// Generate returns a *ProviderError (or an error wrapping one) for
// provider-level failures so callers can classify them. A returned
// *Response is always a complete, valid completion; unhelpful-but-valid
// output is not an error.
type Provider interface {
	// Name identifies the provider instance, e.g. "openai".
	Name() string

	// Generate performs one completion call.
	Generate(ctx context.Context, req Request) (*Response, error)
}
