package coordinator

import "sync"

// TableLedger is the ordered sequence of CommitRecords for one table. It
// enforces:
//
//  1. commits[i].Version < commits[i+1].Version for all i.
//  2. Excluding the first commit after registration, versions are
//     contiguous (commits[i+1].Version = commits[i].Version + 1).
//  3. The number of commits not marked IsBackfilled is at most
//     maxUnbackfilled, checked by Coordinator.Commit before appending;
//     a backfill sentinel is not counted.
//  4. At most one element has IsDisown = true, and it is the last.
//  5. If an IsBackfilled = true element exists, it is the last element
//     and the sole retained element of a trim-to-last.
//
// All mutation and the validation that precedes it happens under Lock;
// readers use RLock. Fields are unexported and only ever touched by
// package coordinator's own code, which is expected to hold the
// appropriate lock before reading or writing them directly.
type TableLedger struct {
	mu sync.RWMutex

	// tableURI is set at registration and immutable thereafter.
	tableURI string

	// commits is strictly increasing by Version, contiguous after the
	// first element.
	commits []CommitRecord
}

// newTableLedger creates an empty ledger for the given table_uri.
func newTableLedger(tableURI string) *TableLedger {
	return &TableLedger{tableURI: tableURI}
}

// tableURIUnsafe returns the ledger's registered table_uri. table_uri is
// immutable after registration so this is safe without a lock, but
// callers within this package should still prefer holding whatever lock
// they already have for clarity.
func (l *TableLedger) tableURIUnsafe() string {
	return l.tableURI
}

// lastRatifiedVersionLocked returns the version of the last commit, or -1
// if the ledger is empty. Caller must hold at least a read lock.
func (l *TableLedger) lastRatifiedVersionLocked() int64 {
	if len(l.commits) == 0 {
		return -1
	}
	return l.commits[len(l.commits)-1].Version
}

// isActiveLocked reports whether the ledger is non-empty and its last
// commit is not a disown marker. Caller must hold at least a read lock.
func (l *TableLedger) isActiveLocked() bool {
	if len(l.commits) == 0 {
		return false
	}
	return !l.commits[len(l.commits)-1].IsDisown
}

// isDisownedLocked reports whether the ledger's last commit carries the
// disown marker. Caller must hold at least a read lock.
func (l *TableLedger) isDisownedLocked() bool {
	if len(l.commits) == 0 {
		return false
	}
	return l.commits[len(l.commits)-1].IsDisown
}

// countUnbackfilledLocked counts commits not yet marked backfilled. The
// lone backfill sentinel (invariant 5) is excluded, so it never counts
// against the window limit. Caller must hold at least a read lock.
func (l *TableLedger) countUnbackfilledLocked() int {
	n := 0
	for _, c := range l.commits {
		if !c.IsBackfilled {
			n++
		}
	}
	return n
}

// appendLocked appends rec to the ledger, asserting the ordering and
// disown invariants. Version ordering and the MAX_UNBACKFILLED limit are
// validated by the caller (Coordinator.Commit) before this is invoked,
// since those checks interact with fault-injection hooks; appendLocked's
// own checks are a last-line invariant assertion, not the primary
// business validation, and panicking here indicates a coordinator bug
// rather than a bad request. Caller must hold the write lock.
func (l *TableLedger) appendLocked(rec CommitRecord) {
	if n := len(l.commits); n > 0 {
		last := l.commits[n-1]
		if rec.Version <= last.Version {
			panic("coordinator: non-monotonic version appended to ledger")
		}
		if last.IsDisown {
			panic("coordinator: append onto a disowned ledger")
		}
	}
	l.commits = append(l.commits, rec)
}

// applyBackfillLocked drops every commit at or below backfilled, since
// the caller has confirmed those versions are now durably materialized
// externally. If backfilled lands exactly on the last commit, that
// commit is kept as a single sentinel marked IsBackfilled so the ledger
// still remembers its own last ratified version. Caller must hold the
// write lock.
func (l *TableLedger) applyBackfillLocked(backfilled int64) {
	last := l.lastRatifiedVersionLocked()
	if last == -1 {
		return
	}

	if backfilled == last {
		sentinel := l.commits[len(l.commits)-1].withBackfilled()
		l.commits = []CommitRecord{sentinel}
		return
	}

	kept := l.commits[:0:0]
	for _, c := range l.commits {
		if c.Version > backfilled {
			kept = append(kept, c)
		}
	}
	l.commits = kept
}

// snapshotWindowLocked returns a copy of all commits in [start, end] that
// are not backfilled, in ascending version order, alongside the last
// ratified version. Caller must hold at least a read lock.
func (l *TableLedger) snapshotWindowLocked(start, end int64) ([]View, int64) {
	last := l.lastRatifiedVersionLocked()
	if last == -1 {
		return nil, -1
	}

	views := make([]View, 0, len(l.commits))
	for _, c := range l.commits {
		if c.IsBackfilled {
			continue
		}
		if c.Version < start || c.Version > end {
			continue
		}
		views = append(views, c.toView())
	}
	return views, last
}
