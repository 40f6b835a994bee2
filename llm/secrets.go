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
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretsAPI is the Secrets Manager surface used by KeyResolver.
// Declared as an interface so tests can inject a stub client.
type secretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

type keyCacheEntry struct {
	value     string
	expiresAt time.Time
}

// KeyResolver resolves provider API keys. Environment variables win; when
// the plain variable is unset and an ARN variable is set, the key is
// fetched from AWS Secrets Manager and cached with a TTL.
type KeyResolver struct {
	client secretsAPI
	cache  map[string]*keyCacheEntry
	mu     sync.RWMutex
	ttl    time.Duration
}

// NewKeyResolver creates a resolver backed by AWS Secrets Manager.
// Region and credentials come from the default AWS config chain.
func NewKeyResolver(ctx context.Context) (*KeyResolver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &KeyResolver{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  make(map[string]*keyCacheEntry),
		ttl:    5 * time.Minute,
	}, nil
}

// SetClient replaces the Secrets Manager client. Intended for tests.
func (r *KeyResolver) SetClient(client secretsAPI) {
	r.client = client
}

// Resolve returns the API key named by envName, falling back to the secret
// whose ARN is named by arnEnvName. An empty return with nil error means
// the key is simply not configured.
func (r *KeyResolver) Resolve(ctx context.Context, envName, arnEnvName string) (string, error) {
	if value := os.Getenv(envName); value != "" {
		return value, nil
	}

	arn := os.Getenv(arnEnvName)
	if arn == "" {
		return "", nil
	}

	return r.fetch(ctx, arn)
}

func (r *KeyResolver) fetch(ctx context.Context, arn string) (string, error) {
	r.mu.RLock()
	entry, exists := r.cache[arn]
	r.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	log.Printf("[Secrets] Fetching API key %s from AWS Secrets Manager", maskARN(arn))

	result, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(arn),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", maskARN(arn), err)
	}
	if result.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", maskARN(arn))
	}

	key := extractAPIKey(*result.SecretString)
	if key == "" {
		return "", fmt.Errorf("secret %s contains no api key", maskARN(arn))
	}

	r.mu.Lock()
	r.cache[arn] = &keyCacheEntry{value: key, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	return key, nil
}

// extractAPIKey handles both JSON secrets ({"api_key": "..."}) and secrets
// that are a bare key string.
func extractAPIKey(secretValue string) string {
	var fields map[string]string
	if err := json.Unmarshal([]byte(secretValue), &fields); err == nil {
		for _, name := range []string{"api_key", "apiKey", "value", "key"} {
			if v, ok := fields[name]; ok && v != "" {
				return v
			}
		}
		return ""
	}
	return secretValue
}

// maskARN masks the secret ARN for logging (shows only last 8 characters)
func maskARN(arn string) string {
	if len(arn) <= 12 {
		return "***"
	}
	return "..." + arn[len(arn)-8:]
}
