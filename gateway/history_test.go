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
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func entryAt(i int, agent string) ConversationEntry {
	return ConversationEntry{
		Timestamp: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
		UserInput: fmt.Sprintf("question %d", i),
		Response:  fmt.Sprintf("answer %d", i),
		Agent:     agent,
	}
}

func TestMemoryHistoryAppendOrder(t *testing.T) {
	store := NewMemoryHistory()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := store.Append(ctx, "session-1", entryAt(i, "summarizer")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.History(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.UserInput != fmt.Sprintf("question %d", i) {
			t.Errorf("position %d: unexpected entry %+v", i, entry)
		}
	}
}

func TestMemoryHistorySessionIsolation(t *testing.T) {
	store := NewMemoryHistory()
	ctx := context.Background()

	if err := store.Append(ctx, "session-1", entryAt(0, "summarizer")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(ctx, "session-2", entryAt(1, "translator")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	one, _ := store.History(ctx, "session-1")
	two, _ := store.History(ctx, "session-2")
	if len(one) != 1 || len(two) != 1 {
		t.Fatalf("expected 1 entry per session, got %d and %d", len(one), len(two))
	}
	if one[0].Agent != "summarizer" || two[0].Agent != "translator" {
		t.Error("entries leaked across sessions")
	}
}

func TestMemoryHistoryUnknownSession(t *testing.T) {
	store := NewMemoryHistory()

	entries, err := store.History(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestMemoryHistoryReturnsCopy(t *testing.T) {
	store := NewMemoryHistory()
	ctx := context.Background()

	if err := store.Append(ctx, "session-1", entryAt(0, "summarizer")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, _ := store.History(ctx, "session-1")
	entries[0].Response = "mutated"

	again, _ := store.History(ctx, "session-1")
	if again[0].Response != "answer 0" {
		t.Error("History must return a copy, not the backing slice")
	}
}

func TestMemoryHistoryConcurrentAppends(t *testing.T) {
	store := NewMemoryHistory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessionID := fmt.Sprintf("session-%d", i%4)
			_ = store.Append(ctx, sessionID, entryAt(i, "summarizer"))
		}(i)
	}
	wg.Wait()

	total := 0
	for i := 0; i < 4; i++ {
		entries, err := store.History(ctx, fmt.Sprintf("session-%d", i))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		total += len(entries)
	}
	if total != 20 {
		t.Errorf("expected 20 entries across sessions, got %d", total)
	}
}

func TestRedisHistoryRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisHistory("redis://"+mr.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Append(ctx, "session-1", entryAt(i, "translator")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := store.History(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.UserInput != fmt.Sprintf("question %d", i) {
			t.Errorf("position %d: unexpected entry %+v", i, entry)
		}
		if entry.Agent != "translator" {
			t.Errorf("position %d: unexpected agent '%s'", i, entry.Agent)
		}
	}
}

func TestRedisHistoryTTL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisHistory("redis://"+mr.Addr(), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	if err := store.Append(ctx, "session-1", entryAt(0, "summarizer")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl := mr.TTL(historyKey("session-1"))
	if ttl != time.Minute {
		t.Errorf("expected TTL 1m, got %v", ttl)
	}

	// Past the TTL the session is gone.
	mr.FastForward(2 * time.Minute)
	entries, err := store.History(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected expired history to be empty, got %d entries", len(entries))
	}
}

func TestRedisHistorySkipsCorruptEntries(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisHistory("redis://"+mr.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	if err := store.Append(ctx, "session-1", entryAt(0, "summarizer")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := mr.RPush(historyKey("session-1"), "not json at all"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(ctx, "session-1", entryAt(1, "summarizer")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := store.History(ctx, "session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected corrupt entry to be skipped, got %d entries", len(entries))
	}
}

func TestNewRedisHistoryBadURL(t *testing.T) {
	if _, err := NewRedisHistory("not-a-url", time.Hour); err == nil {
		t.Error("expected error for malformed Redis URL")
	}
}

func TestNewRedisHistoryUnreachable(t *testing.T) {
	if _, err := NewRedisHistory("redis://127.0.0.1:1", time.Hour); err == nil {
		t.Error("expected error for unreachable Redis")
	}
}
