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
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type stubSecretsClient struct {
	calls  int
	secret string
	err    error
}

func (s *stubSecretsClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s.secret)}, nil
}

func newTestResolver(client secretsAPI) *KeyResolver {
	return &KeyResolver{
		client: client,
		cache:  make(map[string]*keyCacheEntry),
		ttl:    5 * time.Minute,
	}
}

func TestResolveEnvWins(t *testing.T) {
	t.Setenv("TEST_OPENAI_API_KEY", "sk-from-env")
	t.Setenv("TEST_OPENAI_API_KEY_SECRET_ARN", "arn:aws:secretsmanager:us-east-1:123456789012:secret:openai-key")

	client := &stubSecretsClient{secret: "sk-from-secrets"}
	resolver := newTestResolver(client)

	key, err := resolver.Resolve(context.Background(), "TEST_OPENAI_API_KEY", "TEST_OPENAI_API_KEY_SECRET_ARN")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "sk-from-env" {
		t.Errorf("Expected env key to win, got %q", key)
	}
	if client.calls != 0 {
		t.Errorf("Expected no Secrets Manager calls, got %d", client.calls)
	}
}

func TestResolveNotConfigured(t *testing.T) {
	t.Setenv("TEST_OPENAI_API_KEY", "")
	t.Setenv("TEST_OPENAI_API_KEY_SECRET_ARN", "")

	resolver := newTestResolver(&stubSecretsClient{})

	key, err := resolver.Resolve(context.Background(), "TEST_OPENAI_API_KEY", "TEST_OPENAI_API_KEY_SECRET_ARN")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if key != "" {
		t.Errorf("Expected empty key for unconfigured provider, got %q", key)
	}
}

func TestResolveFromSecretsManager(t *testing.T) {
	t.Setenv("TEST_OPENAI_API_KEY", "")
	t.Setenv("TEST_OPENAI_API_KEY_SECRET_ARN", "arn:aws:secretsmanager:us-east-1:123456789012:secret:openai-key")

	tests := []struct {
		name     string
		secret   string
		expected string
	}{
		{
			name:     "json secret with api_key field",
			secret:   `{"api_key": "sk-json-key"}`,
			expected: "sk-json-key",
		},
		{
			name:     "json secret with value field",
			secret:   `{"value": "sk-value-key"}`,
			expected: "sk-value-key",
		},
		{
			name:     "bare string secret",
			secret:   "sk-bare-key",
			expected: "sk-bare-key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &stubSecretsClient{secret: tt.secret}
			resolver := newTestResolver(client)

			key, err := resolver.Resolve(context.Background(), "TEST_OPENAI_API_KEY", "TEST_OPENAI_API_KEY_SECRET_ARN")
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if key != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, key)
			}
		})
	}
}

func TestResolveCachesSecret(t *testing.T) {
	t.Setenv("TEST_OPENAI_API_KEY", "")
	t.Setenv("TEST_OPENAI_API_KEY_SECRET_ARN", "arn:aws:secretsmanager:us-east-1:123456789012:secret:openai-key")

	client := &stubSecretsClient{secret: "sk-cached"}
	resolver := newTestResolver(client)

	for i := 0; i < 3; i++ {
		key, err := resolver.Resolve(context.Background(), "TEST_OPENAI_API_KEY", "TEST_OPENAI_API_KEY_SECRET_ARN")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if key != "sk-cached" {
			t.Errorf("Expected cached key, got %q", key)
		}
	}

	if client.calls != 1 {
		t.Errorf("Expected one Secrets Manager call with caching, got %d", client.calls)
	}
}

func TestResolveFetchError(t *testing.T) {
	t.Setenv("TEST_OPENAI_API_KEY", "")
	t.Setenv("TEST_OPENAI_API_KEY_SECRET_ARN", "arn:aws:secretsmanager:us-east-1:123456789012:secret:openai-key")

	client := &stubSecretsClient{err: errors.New("access denied")}
	resolver := newTestResolver(client)

	_, err := resolver.Resolve(context.Background(), "TEST_OPENAI_API_KEY", "TEST_OPENAI_API_KEY_SECRET_ARN")
	if err == nil {
		t.Fatal("Expected error from Secrets Manager failure")
	}
}

func TestMaskARN(t *testing.T) {
	tests := []struct {
		arn      string
		expected string
	}{
		{"arn:aws:secretsmanager:us-east-1:123456789012:secret:openai-key", "...nai-key"},
		{"short", "***"},
	}

	for _, tt := range tests {
		if got := maskARN(tt.arn); got != tt.expected {
			t.Errorf("maskARN(%q): expected %q, got %q", tt.arn, tt.expected, got)
		}
	}
}

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		expected string
	}{
		{"json api_key", `{"api_key": "k1"}`, "k1"},
		{"json without known field", `{"other": "k2"}`, ""},
		{"bare value", "plain-key", "plain-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAPIKey(tt.secret); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
