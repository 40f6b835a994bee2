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

// Package llm provides the provider abstraction the router and agent
// skills generate text through, plus the single-level failover chain
// that substitutes the secondary provider when the primary fails.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// ProviderType identifies the type of provider implementation.
type ProviderType string

const (
	// ProviderTypeOpenAI represents OpenAI's chat completion API.
	ProviderTypeOpenAI ProviderType = "openai"

	// ProviderTypeAzureOpenAI represents Azure OpenAI Service deployments.
	ProviderTypeAzureOpenAI ProviderType = "azure-openai"

	// ProviderTypeBedrock represents AWS Bedrock managed models.
	ProviderTypeBedrock ProviderType = "bedrock"
)

// Request encapsulates one text-generation call.
type Request struct {
	// Prompt is the user's input text.
	Prompt string `json:"prompt"`

	// SystemPrompt is an optional system message that sets behavior.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`

	// MaxTokens limits the response length. 0 uses provider defaults.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature controls randomness. The router runs at 0 so routing
	// decisions stay as deterministic as the provider allows.
	Temperature float64 `json:"temperature,omitempty"`
}

// Response contains the result of a generation call.
type Response struct {
	// Content is the generated text.
	Content string `json:"content"`

	// Model is the model that actually served the request.
	Model string `json:"model"`

	// TokensUsed is the total token count reported by the provider.
	TokensUsed int `json:"tokens_used"`

	// Latency is the time taken to generate the response.
	Latency time.Duration `json:"latency"`
}

// ProviderError represents an error from one provider.
type ProviderError struct {
	// Provider is the name of the provider that returned the error.
	Provider string `json:"provider"`

	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// StatusCode is the HTTP status code (if applicable).
	StatusCode int `json:"status_code,omitempty"`

	// Retryable indicates if the request could succeed on retry.
	Retryable bool `json:"retryable"`

	// Cause is the underlying error (if any).
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Common error codes.
const (
	// ErrCodeInit indicates the provider was never usable (missing key,
	// bad endpoint, failed SDK setup).
	ErrCodeInit = "initialization_error"

	// ErrCodeRateLimit indicates rate limiting.
	ErrCodeRateLimit = "rate_limit"

	// ErrCodeAuth indicates authentication failure.
	ErrCodeAuth = "authentication_error"

	// ErrCodeInvalidRequest indicates a malformed request.
	ErrCodeInvalidRequest = "invalid_request"

	// ErrCodeServerError indicates a provider server error.
	ErrCodeServerError = "server_error"

	// ErrCodeTimeout indicates request timeout.
	ErrCodeTimeout = "timeout"

	// ErrCodeUnavailable indicates the provider is unreachable.
	ErrCodeUnavailable = "unavailable"
)

// NewProviderError creates a new ProviderError.
func NewProviderError(provider, code, message string) *ProviderError {
	return &ProviderError{
		Provider:  provider,
		Code:      code,
		Message:   message,
		Retryable: isRetryableCode(code),
	}
}

// isRetryableCode determines if an error code is retryable.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeRateLimit, ErrCodeServerError, ErrCodeTimeout, ErrCodeUnavailable:
		return true
	default:
		return false
	}
}

// Attempt records one failed provider attempt inside a chain call.
type Attempt struct {
	Provider string `json:"provider"`
	Err      error  `json:"-"`
}

// ProviderUnavailableError reports that every provider in the chain failed
// for one logical call. Each provider is attempted at most once, so the
// attempt list is the complete cause chain.
type ProviderUnavailableError struct {
	Attempts []Attempt
}

// Error implements the error interface.
func (e *ProviderUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Provider, a.Err))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes every attempt's cause to errors.Is and errors.As.
func (e *ProviderUnavailableError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}
