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

// Package bedrock provides the AWS Bedrock LLM provider implementation.
// It supports the Anthropic, Amazon Titan, Meta and Mistral model families,
// each of which has its own request and response body format.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/RavulapallySaicharan/Agents-a2a/llm"
)

const (
	// DefaultRegion is the AWS region used when none is configured.
	DefaultRegion = "us-east-1"

	// DefaultModelID is the Bedrock model used when none is configured.
	DefaultModelID = "anthropic.claude-3-5-sonnet-20240620-v1:0"

	// DefaultMaxTokens is the default max output tokens for completions.
	DefaultMaxTokens = 1000

	anthropicVersion = "bedrock-2023-05-31"
)

// invokeAPI is the subset of the Bedrock runtime client used by the
// provider (enables testing with a stub client).
type invokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Config contains configuration for the Bedrock provider.
type Config struct {
	Region  string // Optional: AWS region (default: us-east-1)
	ModelID string // Optional: Bedrock model ID (default: Claude 3.5 Sonnet)
}

// Provider implements llm.Provider for AWS Bedrock.
type Provider struct {
	client  invokeAPI
	modelID string
}

// New creates a new Bedrock provider using the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	region := cfg.Region
	if region == "" {
		region = DefaultRegion
	}

	modelID := cfg.ModelID
	if modelID == "" {
		modelID = DefaultModelID
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Provider{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: modelID,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return string(llm.ProviderTypeBedrock)
}

// Generate invokes the configured Bedrock model with a family-specific
// request body and parses the family-specific response.
func (p *Provider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	start := time.Now()

	modelID := p.modelID
	if req.Model != "" {
		modelID = req.Model
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	body, err := buildRequestBody(modelID, req, maxTokens)
	if err != nil {
		return nil, err
	}

	output, err := p.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider:  p.Name(),
			Code:      codeForInvokeError(err),
			Message:   err.Error(),
			Retryable: true,
			Cause:     err,
		}
	}

	content, tokens, err := parseResponseBody(modelID, output.Body)
	if err != nil {
		return nil, err
	}

	return &llm.Response{
		Content:    content,
		Model:      modelID,
		TokensUsed: tokens,
		Latency:    time.Since(start),
	}, nil
}

// codeForInvokeError classifies Bedrock invoke errors by exception name.
func codeForInvokeError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "ThrottlingException"):
		return llm.ErrCodeRateLimit
	case strings.Contains(msg, "AccessDeniedException") || strings.Contains(msg, "UnrecognizedClientException"):
		return llm.ErrCodeAuth
	case strings.Contains(msg, "ValidationException"):
		return llm.ErrCodeInvalidRequest
	default:
		return llm.ErrCodeUnavailable
	}
}

// buildRequestBody builds the request body for the model family.
func buildRequestBody(modelID string, req llm.Request, maxTokens int) ([]byte, error) {
	prompt := req.Prompt

	switch {
	case strings.HasPrefix(modelID, "anthropic."):
		apiReq := map[string]interface{}{
			"anthropic_version": anthropicVersion,
			"max_tokens":        maxTokens,
			"temperature":       req.Temperature,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
		}
		if req.SystemPrompt != "" {
			apiReq["system"] = req.SystemPrompt
		}
		return json.Marshal(apiReq)

	case strings.HasPrefix(modelID, "amazon."):
		return json.Marshal(map[string]interface{}{
			"inputText": joinPrompt(req),
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": maxTokens,
				"temperature":   req.Temperature,
				"topP":          0.9,
			},
		})

	case strings.HasPrefix(modelID, "meta."):
		return json.Marshal(map[string]interface{}{
			"prompt":      joinPrompt(req),
			"max_gen_len": maxTokens,
			"temperature": req.Temperature,
			"top_p":       0.9,
		})

	case strings.HasPrefix(modelID, "mistral."):
		return json.Marshal(map[string]interface{}{
			"prompt":      joinPrompt(req),
			"max_tokens":  maxTokens,
			"temperature": req.Temperature,
			"top_p":       0.9,
		})

	default:
		return nil, &llm.ProviderError{
			Provider: string(llm.ProviderTypeBedrock),
			Code:     llm.ErrCodeInvalidRequest,
			Message:  fmt.Sprintf("unsupported model family: %s", modelID),
		}
	}
}

// joinPrompt folds the system prompt into the user prompt for model
// families without a separate system field.
func joinPrompt(req llm.Request) string {
	if req.SystemPrompt == "" {
		return req.Prompt
	}
	return req.SystemPrompt + "\n\n" + req.Prompt
}

// parseResponseBody parses the response body for the model family and
// returns the generated text and total token count.
func parseResponseBody(modelID string, body []byte) (string, int, error) {
	switch {
	case strings.HasPrefix(modelID, "anthropic."):
		var resp struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			Usage struct {
				InputTokens  int `json:"input_tokens"`
				OutputTokens int `json:"output_tokens"`
			} `json:"usage"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", 0, fmt.Errorf("failed to parse anthropic response: %w", err)
		}
		content := ""
		if len(resp.Content) > 0 {
			content = resp.Content[0].Text
		}
		return content, resp.Usage.InputTokens + resp.Usage.OutputTokens, nil

	case strings.HasPrefix(modelID, "amazon."):
		var resp struct {
			InputTextTokenCount int `json:"inputTextTokenCount"`
			Results             []struct {
				OutputText string `json:"outputText"`
				TokenCount int    `json:"tokenCount"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", 0, fmt.Errorf("failed to parse titan response: %w", err)
		}
		content := ""
		tokens := resp.InputTextTokenCount
		if len(resp.Results) > 0 {
			content = resp.Results[0].OutputText
			tokens += resp.Results[0].TokenCount
		}
		return content, tokens, nil

	case strings.HasPrefix(modelID, "meta."):
		var resp struct {
			Generation           string `json:"generation"`
			PromptTokenCount     int    `json:"prompt_token_count"`
			GenerationTokenCount int    `json:"generation_token_count"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", 0, fmt.Errorf("failed to parse meta response: %w", err)
		}
		return resp.Generation, resp.PromptTokenCount + resp.GenerationTokenCount, nil

	case strings.HasPrefix(modelID, "mistral."):
		var resp struct {
			Outputs []struct {
				Text string `json:"text"`
			} `json:"outputs"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", 0, fmt.Errorf("failed to parse mistral response: %w", err)
		}
		content := ""
		if len(resp.Outputs) > 0 {
			content = resp.Outputs[0].Text
		}
		return content, 0, nil

	default:
		return "", 0, fmt.Errorf("unsupported model family: %s", modelID)
	}
}

// SetClient sets a custom Bedrock runtime client for testing.
func (p *Provider) SetClient(client invokeAPI) {
	p.client = client
}

// NewWithClient creates a provider with an explicit client (used in tests).
func NewWithClient(client invokeAPI, modelID string) *Provider {
	if modelID == "" {
		modelID = DefaultModelID
	}
	return &Provider{client: client, modelID: modelID}
}
