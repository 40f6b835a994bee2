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

// Package azure provides the secondary LLM provider implementation backed
// by Azure OpenAI Service deployments. The request and response formats
// are OpenAI-compatible; only the URL scheme and authentication differ.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
)

const (
	// DefaultAPIVersion is the default Azure OpenAI API version.
	DefaultAPIVersion = "2024-08-01-preview"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxTokens is the default max output tokens for completions.
	DefaultMaxTokens = 1000

	// DefaultDeployment is the deployment name used when none is configured.
	// In Azure the model is selected by deployment name, not model ID.
	DefaultDeployment = "gpt-35-turbo"
)

// HTTPClient is an interface for HTTP client operations (enables testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthType represents the authentication method for Azure OpenAI.
type AuthType string

const (
	// AuthTypeAPIKey uses the api-key header (Classic Azure OpenAI)
	AuthTypeAPIKey AuthType = "api-key"

	// AuthTypeBearer uses Authorization: Bearer header (Azure AI Foundry)
	AuthTypeBearer AuthType = "bearer"
)

// Config contains configuration for the Azure OpenAI provider.
type Config struct {
	Endpoint   string        // Required: Azure OpenAI endpoint URL
	APIKey     string        // Required: Azure OpenAI API key or Bearer token
	Deployment string        // Optional: deployment name (default: gpt-35-turbo)
	APIVersion string        // Optional: API version (default: 2024-08-01-preview)
	AuthType   AuthType      // Optional: auth type (auto-detected from endpoint if empty)
	Timeout    time.Duration // Optional: HTTP timeout (default: 120s)
}

// Provider implements llm.Provider for Azure OpenAI.
type Provider struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	authType   AuthType
	client     HTTPClient
}

// New creates a new Azure OpenAI provider instance.
func New(cfg Config) (*Provider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("azure OpenAI endpoint is required")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("azure OpenAI API key is required")
	}

	// Normalize endpoint (remove trailing slash)
	endpoint := strings.TrimRight(cfg.Endpoint, "/")

	deployment := cfg.Deployment
	if deployment == "" {
		deployment = DefaultDeployment
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	authType := cfg.AuthType
	if authType == "" {
		authType = detectAuthType(endpoint)
	}

	return &Provider{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		deployment: deployment,
		apiVersion: apiVersion,
		authType:   authType,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

// detectAuthType auto-detects the authentication type based on the endpoint URL.
// - Classic Azure OpenAI (*.openai.azure.com) uses api-key header
// - Azure AI Foundry (*.cognitiveservices.azure.com) uses Bearer token
func detectAuthType(endpoint string) AuthType {
	endpoint = strings.ToLower(endpoint)
	if strings.Contains(endpoint, ".cognitiveservices.azure.com") {
		return AuthTypeBearer
	}
	return AuthTypeAPIKey
}

// setAuthHeaders sets the appropriate authentication headers.
func (p *Provider) setAuthHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	switch p.authType {
	case AuthTypeBearer:
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	default:
		req.Header.Set("api-key", p.apiKey)
	}
}

// AuthType returns the authentication type being used.
func (p *Provider) AuthType() AuthType {
	return p.authType
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return string(llm.ProviderTypeAzureOpenAI)
}

// buildURL constructs the Azure OpenAI API URL:
// https://{resource}.openai.azure.com/openai/deployments/{deployment}/chat/completions?api-version={version}
func (p *Provider) buildURL(deployment string) string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, deployment, p.apiVersion)
}

// Generate performs one chat completion call against the deployment.
func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	start := time.Now()

	// The request model field overrides the configured deployment name.
	deployment := p.deployment
	if req.Model != "" {
		deployment = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	// Build messages
	messages := make([]map[string]string, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]string{
			"role":    "system",
			"content": req.SystemPrompt,
		})
	}
	messages = append(messages, map[string]string{
		"role":    "user",
		"content": req.Prompt,
	})

	apiReq := map[string]interface{}{
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": req.Temperature,
	}

	reqBody, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.buildURL(deployment), bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	p.setAuthHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider:  p.Name(),
			Code:      llm.ErrCodeUnavailable,
			Message:   err.Error(),
			Retryable: true,
			Cause:     err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, p.parseAPIError(resp.StatusCode, body)
	}

	// Response format is OpenAI-compatible
	var apiResp struct {
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	content := ""
	if len(apiResp.Choices) > 0 {
		content = apiResp.Choices[0].Message.Content
	}

	responseModel := apiResp.Model
	if responseModel == "" {
		responseModel = deployment
	}

	return &llm.Response{
		Content:    content,
		Model:      responseModel,
		TokensUsed: apiResp.Usage.TotalTokens,
		Latency:    time.Since(start),
	}, nil
}

// parseAPIError parses an API error response into a classified ProviderError.
func (p *Provider) parseAPIError(statusCode int, body []byte) error {
	message := string(body)
	code := ""

	var errResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		message = errResp.Error.Message
		code = errResp.Error.Code
	}

	return &llm.ProviderError{
		Provider:   p.Name(),
		Code:       codeForError(statusCode, code),
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode == http.StatusTooManyRequests || statusCode >= 500,
	}
}

// codeForError maps Azure status/error codes to provider error codes.
func codeForError(statusCode int, apiCode string) string {
	switch {
	case statusCode == http.StatusTooManyRequests || apiCode == "rate_limit_exceeded":
		return llm.ErrCodeRateLimit
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden || apiCode == "invalid_api_key":
		return llm.ErrCodeAuth
	case statusCode >= 500:
		return llm.ErrCodeServerError
	default:
		return llm.ErrCodeInvalidRequest
	}
}

// SetHTTPClient sets a custom HTTP client for testing.
func (p *Provider) SetHTTPClient(client HTTPClient) {
	p.client = client
}
