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
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// QueryLogEntry records one routed query for offline analysis.
type QueryLogEntry struct {
	ID           string    `json:"id"`
	RequestID    string    `json:"request_id"`
	SessionID    string    `json:"session_id"`
	Query        string    `json:"query"`
	Agent        string    `json:"agent"`
	Confidence   float64   `json:"confidence"`
	Fallback     bool      `json:"fallback"`
	Answer       string    `json:"answer"`
	LatencyMs    int64     `json:"latency_ms"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// QueryLogger writes routed queries to Postgres in batches. Logging never
// blocks or fails a request: entries queue through a bounded channel, a
// background worker flushes them, and when the database is unavailable the
// logger degrades to a no-op.
type QueryLogger struct {
	db           *sql.DB
	queue        chan *QueryLogEntry
	shutdownChan chan struct{}
	wg           sync.WaitGroup

	mu        sync.Mutex
	batch     []*QueryLogEntry
	batchSize int
}

const (
	queryLogQueueSize = 1000
	queryLogBatchSize = 50
)

// NewQueryLogger creates a query logger. An empty database URL or an
// unreachable database yields a no-op logger so the gateway keeps serving.
func NewQueryLogger(databaseURL string) *QueryLogger {
	l := &QueryLogger{
		queue:        make(chan *QueryLogEntry, queryLogQueueSize),
		shutdownChan: make(chan struct{}),
		batchSize:    queryLogBatchSize,
	}

	if databaseURL == "" {
		return l
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Printf("Failed to connect to query log database: %v", err)
		return l
	}

	if err := createQueryLogTable(db); err != nil {
		log.Printf("Failed to create query log table: %v", err)
		_ = db.Close()
		return l
	}

	l.db = db
	l.batch = make([]*QueryLogEntry, 0, l.batchSize)

	l.wg.Add(1)
	go l.processQueue()

	return l
}

// NewQueryLoggerWithDB creates a query logger around an existing database
// handle, skipping table creation (used in tests).
func NewQueryLoggerWithDB(db *sql.DB) *QueryLogger {
	l := &QueryLogger{
		db:           db,
		queue:        make(chan *QueryLogEntry, queryLogQueueSize),
		shutdownChan: make(chan struct{}),
		batchSize:    queryLogBatchSize,
		batch:        make([]*QueryLogEntry, 0, queryLogBatchSize),
	}

	l.wg.Add(1)
	go l.processQueue()

	return l
}

// Enabled reports whether entries actually reach a database.
func (l *QueryLogger) Enabled() bool {
	return l.db != nil
}

// Log queues an entry for asynchronous writing. The entry's ID and
// timestamp are filled in here. When the queue is full the entry is
// dropped with a warning; the request path is never blocked.
func (l *QueryLogger) Log(entry *QueryLogEntry) {
	if l.db == nil {
		return
	}

	if entry.ID == "" {
		entry.ID = "qlog_" + uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	select {
	case l.queue <- entry:
	default:
		log.Printf("Query log queue full, dropping entry %s", entry.ID)
	}
}

// IsHealthy checks database reachability.
func (l *QueryLogger) IsHealthy() bool {
	if l.db == nil {
		return true // No-op logger is always healthy
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	return l.db.PingContext(ctx) == nil
}

// Close flushes pending entries and releases the database connection.
func (l *QueryLogger) Close() error {
	if l.db == nil {
		return nil
	}

	close(l.shutdownChan)
	l.wg.Wait()
	return l.db.Close()
}

// processQueue drains the entry queue into batches and flushes them on
// size or every 5 seconds, whichever comes first.
func (l *QueryLogger) processQueue() {
	defer l.wg.Done()

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case entry := <-l.queue:
			l.add(entry)
		case <-ticker.C:
			l.Flush()
		case <-l.shutdownChan:
			for {
				select {
				case entry := <-l.queue:
					l.add(entry)
				default:
					l.Flush()
					return
				}
			}
		}
	}
}

func (l *QueryLogger) add(entry *QueryLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.batch = append(l.batch, entry)
	if len(l.batch) >= l.batchSize {
		l.flushLocked()
	}
}

// Flush writes any buffered entries immediately.
func (l *QueryLogger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.flushLocked()
}

func (l *QueryLogger) flushLocked() {
	if len(l.batch) == 0 {
		return
	}

	if err := l.write(l.batch); err != nil {
		log.Printf("Failed to write query log batch: %v", err)
	}

	l.batch = l.batch[:0]
}

func (l *QueryLogger) write(entries []*QueryLogEntry) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO query_log (
			id, request_id, session_id, query, agent, confidence,
			fallback, answer, latency_ms, error_message, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, entry := range entries {
		_, err = stmt.Exec(
			entry.ID,
			entry.RequestID,
			entry.SessionID,
			entry.Query,
			entry.Agent,
			entry.Confidence,
			entry.Fallback,
			truncateAnswer(entry.Answer),
			entry.LatencyMs,
			entry.ErrorMessage,
			entry.Timestamp,
		)
		if err != nil {
			log.Printf("Failed to insert query log entry: %v", err)
		}
	}

	return tx.Commit()
}

// truncateAnswer keeps a sample of the answer, not the full payload.
func truncateAnswer(answer string) string {
	if len(answer) > 200 {
		return answer[:200] + "..."
	}
	return answer
}

// createQueryLogTable creates the query log table if it does not exist.
func createQueryLogTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS query_log (
		id VARCHAR(255) PRIMARY KEY,
		request_id VARCHAR(255) NOT NULL,
		session_id VARCHAR(255) NOT NULL,
		query TEXT NOT NULL,
		agent VARCHAR(255),
		confidence DOUBLE PRECISION,
		fallback BOOLEAN,
		answer TEXT,
		latency_ms BIGINT,
		error_message TEXT,
		timestamp TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_query_log_timestamp ON query_log(timestamp);
	CREATE INDEX IF NOT EXISTS idx_query_log_session_id ON query_log(session_id);
	CREATE INDEX IF NOT EXISTS idx_query_log_agent ON query_log(agent);
	`

	_, err := db.Exec(query)
	return err
}
