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

import (
	"context"
	"log"
	"strings"
)

// Chain is the ordered provider list for one deployment: primary first,
// then the secondary, then any optional extras. Generate attempts each
// provider at most once per logical call. This is substitution, not a
// retry loop; a provider that fails is not revisited within the call.
type Chain struct {
	providers []Provider
}

// NewChain builds a failover chain. Order is the failover order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

// Name implements Provider.
func (c *Chain) Name() string {
	return "failover(" + strings.Join(c.Providers(), ",") + ")"
}

// Providers returns the chain's provider names in failover order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Len returns the number of providers in the chain.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Generate implements Provider. It tries each provider once in order and
// returns the first successful response. When every provider fails the
// caller gets a *ProviderUnavailableError carrying the full cause chain.
func (c *Chain) Generate(ctx context.Context, req Request) (*Response, error) {
	if len(c.providers) == 0 {
		return nil, &ProviderUnavailableError{}
	}

	attempts := make([]Attempt, 0, len(c.providers))
	for i, provider := range c.providers {
		resp, err := provider.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		attempts = append(attempts, Attempt{Provider: provider.Name(), Err: err})
		if i+1 < len(c.providers) {
			log.Printf("[LLM] Failing over from %s to %s: %v",
				provider.Name(), c.providers[i+1].Name(), err)
		}
	}

	return nil, &ProviderUnavailableError{Attempts: attempts}
}

// unavailableProvider stands in for a provider whose initialization failed.
// Keeping it in the chain preserves the attempt-per-provider accounting and
// surfaces the init cause in the final error chain instead of dropping it.
type unavailableProvider struct {
	name  string
	cause error
}

// NewUnavailable returns a Provider whose every Generate call fails with
// the recorded initialization error.
func NewUnavailable(name string, cause error) Provider {
	return &unavailableProvider{name: name, cause: cause}
}

func (p *unavailableProvider) Name() string {
	return p.name
}

func (p *unavailableProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return nil, &ProviderError{
		Provider: p.name,
		Code:     ErrCodeInit,
		Message:  "provider not initialized",
		Cause:    p.cause,
	}
}
