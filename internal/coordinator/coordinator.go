// Package coordinator implements the in-memory commit coordinator core:
// per-table commit ledgers with strict version monotonicity, a bounded
// unbackfilled window, disown semantics, backfill acknowledgement, and
// fault-injection hooks for testing partial-failure recovery.
//
// State is volatile by design: nothing here is persisted to disk or a
// database. This is a reference implementation usable both for tests and
// as a template for network-backed implementations.
package coordinator

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kalyankadiyala/commitcoord/pkg/metrics"
)

// Coordinator is a keyed collection of TableLedgers. The table_id -> ledger
// map is a sync.Map: lock-free reads and an atomic insert-if-absent via
// LoadOrStore, so concurrent commits to different tables never contend on
// a shared mutex. No third-party concurrent-map library appears anywhere
// in the reference corpus for this exact shape (atomic
// insert-if-absent + lock-free get over a small, unbounded-growth keyspace),
// so sync.Map — the stdlib's purpose-built answer — is used directly; see
// DESIGN.md.
type Coordinator struct {
	ledgers sync.Map // TableID -> *TableLedger

	maxUnbackfilled int

	logger  *slog.Logger
	metrics *metrics.CoordinatorMetrics

	// throwBeforeCommit and throwAfterCommit are one-shot fault-injection
	// toggles for exercising caller retry logic against simulated
	// before/after-commit I/O failures. Observation and clearing happen
	// together via CompareAndSwap so concurrent setters race benignly.
	throwBeforeCommit atomic.Bool
	throwAfterCommit  atomic.Bool
}

// Option configures a Coordinator at construction time.
type Option func(*Coordinator)

// WithLogger sets the coordinator's structured logger. Defaults to
// slog.Default() if not supplied.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics attaches a CoordinatorMetrics instance for Prometheus
// instrumentation. Metrics recording is skipped entirely if not supplied.
func WithMetrics(m *metrics.CoordinatorMetrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// New creates a Coordinator with the given unbackfilled-window limit: the
// maximum number of not-yet-backfilled commits any one table may hold at
// once.
func New(maxUnbackfilled int, opts ...Option) *Coordinator {
	c := &Coordinator{
		maxUnbackfilled: maxUnbackfilled,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Commit routes a commit or backfill-acknowledgement request to the
// target table's ledger, enforcing its precondition and ordering rules.
// Precondition checks fail in the order argument shape → URI identity →
// limit → version, so a caller always learns about the cheapest, most
// fundamental problem with its request first.
func (c *Coordinator) Commit(req CommitRequest) error {
	started := time.Now()
	tableIDStr := req.TableID.String()

	if err := req.validate(); err != nil {
		c.recordRejected(tableIDStr, err, started)
		return err
	}

	ledgerAny, existed := c.ledgers.Load(req.TableID)
	if !existed {
		if req.Payload == nil {
			// A ledger is created only by a commit call carrying a
			// non-empty payload. A backfill-only acknowledgement for an
			// unregistered table has nothing to acknowledge.
			err := &InvalidArgumentError{Reason: "table is not registered with this coordinator"}
			c.recordRejected(tableIDStr, err, started)
			return err
		}
		newLedger := newTableLedger(req.TableURI)
		actual, _ := c.ledgers.LoadOrStore(req.TableID, newLedger)
		ledgerAny = actual
		if c.metrics != nil {
			c.metrics.RegisteredLedgers.Set(c.countLedgers())
		}
	}
	ledger := ledgerAny.(*TableLedger)

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if req.LastKnownBackfilledVersion != nil {
		payloadVersion := int64(0)
		if req.Payload != nil {
			payloadVersion = req.Payload.Version
		}
		limit := ledger.lastRatifiedVersionLocked()
		if payloadVersion > limit {
			limit = payloadVersion
		}
		if *req.LastKnownBackfilledVersion > limit {
			err := &InvalidArgumentError{Reason: "last_known_backfilled_version exceeds the highest version this commit could ratify"}
			c.recordRejected(tableIDStr, err, started)
			return err
		}
	}

	if req.Payload != nil {
		if req.TableURI != ledger.tableURIUnsafe() {
			err := &InvalidTargetTableError{TableID: req.TableID, Expected: ledger.tableURIUnsafe(), Actual: req.TableURI}
			c.recordRejected(tableIDStr, err, started)
			return err
		}

		if n := ledger.countUnbackfilledLocked(); n == c.maxUnbackfilled {
			err := &CommitLimitReachedError{TableID: req.TableID, Limit: c.maxUnbackfilled}
			c.recordRejected(tableIDStr, err, started)
			return err
		}

		if c.throwBeforeCommit.CompareAndSwap(true, false) {
			if c.metrics != nil {
				c.metrics.RecordFaultInjection("before_commit")
			}
			err := &IoFailureError{Before: true}
			c.recordRejected(tableIDStr, err, started)
			return err
		}

		last := ledger.lastRatifiedVersionLocked()
		if last != -1 {
			if ledger.isDisownedLocked() {
				err := &TableDisownedError{TableID: req.TableID}
				c.recordRejected(tableIDStr, err, started)
				return err
			}
			expected := last + 1
			if req.Payload.Version != expected {
				err := &CommitConflictError{TableID: req.TableID, Expected: expected, Got: req.Payload.Version}
				c.recordRejected(tableIDStr, err, started)
				return err
			}
		}
		// last == -1: the first commit after registration accepts the
		// caller's version as supplied, establishing the table's starting
		// version rather than requiring it to be 0.

		rec := CommitRecord{
			Version: req.Payload.Version,
			FileDescriptor: FileDescriptor{
				Path:    commitFilePath(req.TableURI, req.Payload.FileName),
				Size:    req.Payload.FileSize,
				ModTime: time.Unix(req.Payload.FileModTimeUnix, 0).UTC(),
			},
			CommitTimestamp: req.Payload.CommitTimestamp,
			IsDisown:        req.IsDisown,
			Protocol:        req.Protocol,
			Metadata:        req.Metadata,
		}
		ledger.appendLocked(rec)

		c.logger.Info("commit appended",
			"table_id", tableIDStr,
			"version", rec.Version,
			"is_disown", rec.IsDisown,
			"unbackfilled_window_size", ledger.countUnbackfilledLocked(),
		)
	}

	if c.throwAfterCommit.CompareAndSwap(true, false) {
		if c.metrics != nil {
			c.metrics.RecordFaultInjection("after_commit")
		}
		err := &IoFailureError{Before: false}
		// The ledger retains the appended commit: this models a
		// coordinator that has durably accepted a commit but fails to
		// acknowledge the caller.
		c.recordRejected(tableIDStr, err, started)
		return err
	}

	if req.LastKnownBackfilledVersion != nil {
		ledger.applyBackfillLocked(*req.LastKnownBackfilledVersion)
		if c.metrics != nil {
			c.metrics.RecordBackfillTrim(tableIDStr)
		}
		c.logger.Info("backfill trim applied",
			"table_id", tableIDStr,
			"backfilled_version", *req.LastKnownBackfilledVersion,
			"remaining_window_size", ledger.countUnbackfilledLocked(),
		)
	}

	if c.metrics != nil {
		c.metrics.RecordCommitAccepted(tableIDStr, time.Since(started).Seconds())
		c.metrics.SetLedgerWindowSize(tableIDStr, ledger.countUnbackfilledLocked())
	}

	return nil
}

// GetCommits returns the current unbackfilled window for a table, plus
// its last ratified version.
func (c *Coordinator) GetCommits(tableID TableID, tableURI string, start, end *int64) (GetCommitsResponse, error) {
	started := time.Now()
	tableIDStr := tableID.String()

	ledgerAny, ok := c.ledgers.Load(tableID)
	if !ok {
		// Unregistered table: silently succeeds, even if tableURI would
		// have mismatched. The mismatch check only fires when a ledger
		// exists.
		return GetCommitsResponse{LastRatifiedVersion: -1}, nil
	}
	ledger := ledgerAny.(*TableLedger)

	ledger.mu.RLock()
	defer ledger.mu.RUnlock()

	if tableURI != ledger.tableURIUnsafe() {
		return GetCommitsResponse{}, &InvalidTargetTableError{TableID: tableID, Expected: ledger.tableURIUnsafe(), Actual: tableURI}
	}

	last := ledger.lastRatifiedVersionLocked()
	if last == -1 {
		return GetCommitsResponse{LastRatifiedVersion: -1}, nil
	}

	effStart := int64(0)
	if start != nil {
		effStart = *start
	}
	effEnd := last
	if end != nil {
		effEnd = *end
	}

	views, lastRatified := ledger.snapshotWindowLocked(effStart, effEnd)

	if c.metrics != nil {
		c.metrics.RecordGetCommits(tableIDStr, time.Since(started).Seconds())
	}

	return GetCommitsResponse{Commits: views, LastRatifiedVersion: lastRatified}, nil
}

// SetThrowBeforeCommit arms or disarms the before-commit fault hook.
// Consultation (and clearing) happens inside Commit; setting it here does
// not itself raise an error.
func (c *Coordinator) SetThrowBeforeCommit(v bool) {
	c.throwBeforeCommit.Store(v)
}

// SetThrowAfterCommit arms or disarms the after-commit fault hook.
func (c *Coordinator) SetThrowAfterCommit(v bool) {
	c.throwAfterCommit.Store(v)
}

// ListTables returns the set of table IDs currently known to the
// coordinator, in no particular order.
func (c *Coordinator) ListTables() []TableID {
	var ids []TableID
	c.ledgers.Range(func(key, _ any) bool {
		ids = append(ids, key.(TableID))
		return true
	})
	return ids
}

// Stats is an aggregate snapshot of coordinator state.
type Stats struct {
	TotalTables              int `json:"total_tables"`
	DisownedTables           int `json:"disowned_tables"`
	TotalUnbackfilledCommits int `json:"total_unbackfilled_commits"`
}

// Stats computes an aggregate snapshot across all known ledgers. Each
// ledger is read-locked only long enough to take its snapshot.
func (c *Coordinator) Stats() Stats {
	var s Stats
	c.ledgers.Range(func(_, v any) bool {
		ledger := v.(*TableLedger)
		ledger.mu.RLock()
		s.TotalTables++
		if ledger.isDisownedLocked() {
			s.DisownedTables++
		}
		s.TotalUnbackfilledCommits += ledger.countUnbackfilledLocked()
		ledger.mu.RUnlock()
		return true
	})
	if c.metrics != nil {
		c.metrics.DisownedLedgers.Set(float64(s.DisownedTables))
	}
	return s
}

func (c *Coordinator) countLedgers() float64 {
	n := 0
	c.ledgers.Range(func(_, _ any) bool {
		n++
		return true
	})
	return float64(n)
}

func (c *Coordinator) recordRejected(tableID string, err error, started time.Time) {
	c.logger.Warn("commit rejected", "table_id", tableID, "error", err)
	if c.metrics == nil {
		return
	}
	reason := "unknown"
	if coder, ok := err.(interface{ Code() ErrorCode }); ok {
		reason = string(coder.Code())
	}
	c.metrics.RecordCommitRejected(tableID, reason, time.Since(started).Seconds())
}
