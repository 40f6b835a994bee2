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

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultHistoryTTL is how long Redis-backed session history is retained.
const DefaultHistoryTTL = 24 * time.Hour

// ConversationEntry is one exchange within a session.
type ConversationEntry struct {
	Timestamp time.Time `json:"timestamp"`
	UserInput string    `json:"user_input"`
	Response  string    `json:"response"`
	Agent     string    `json:"agent"`
}

// ConversationStore records per-session exchanges in order. The in-memory
// store is the default; the Redis store is used when REDIS_URL is set so
// history survives restarts and is shared across gateway replicas.
type ConversationStore interface {
	Append(ctx context.Context, sessionID string, entry ConversationEntry) error
	History(ctx context.Context, sessionID string) ([]ConversationEntry, error)
}

// MemoryHistory is the in-process conversation store.
type MemoryHistory struct {
	mu       sync.RWMutex
	sessions map[string][]ConversationEntry
}

// NewMemoryHistory creates an empty in-memory store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		sessions: make(map[string][]ConversationEntry),
	}
}

// Append records an entry at the end of the session's history.
func (m *MemoryHistory) Append(ctx context.Context, sessionID string, entry ConversationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append(m.sessions[sessionID], entry)
	return nil
}

// History returns the session's entries in append order. An unknown
// session yields an empty slice, not an error.
func (m *MemoryHistory) History(ctx context.Context, sessionID string) ([]ConversationEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := m.sessions[sessionID]
	out := make([]ConversationEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// RedisHistory stores conversation history as Redis lists with a TTL.
type RedisHistory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHistory connects to Redis (URL format: redis://host:port or
// redis://host:port/db) and verifies the connection before returning.
func NewRedisHistory(redisURL string, ttl time.Duration) (*RedisHistory, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl == 0 {
		ttl = DefaultHistoryTTL
	}

	return &RedisHistory{client: client, ttl: ttl}, nil
}

func historyKey(sessionID string) string {
	return fmt.Sprintf("history:%s", sessionID)
}

// Append pushes the entry onto the session's list and refreshes the TTL.
func (r *RedisHistory) Append(ctx context.Context, sessionID string, entry ConversationEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	key := historyKey(sessionID)
	pipe := r.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}

	return nil
}

// History returns the session's entries in append order.
func (r *RedisHistory) History(ctx context.Context, sessionID string) ([]ConversationEntry, error) {
	items, err := r.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]ConversationEntry, 0, len(items))
	for _, item := range items {
		var entry ConversationEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			// A corrupt entry should not hide the rest of the session.
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Close releases the Redis connection.
func (r *RedisHistory) Close() error {
	return r.client.Close()
}
