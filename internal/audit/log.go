// Copyright 2026 The Reflect Access Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package audit

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reflectnotes/reflect-access/internal/observability/logger"
)

// DefaultCapacity is the number of entries retained in memory. Older
// entries are evicted first once the bound is exceeded.
const DefaultCapacity = 1000

// timeLayout is ISO-8601 UTC with fixed-width millisecond precision, so
// lexicographic comparison of timestamps matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Log is an append-only, bounded, in-memory audit trail. Appends are
// serialized by a mutex; reads observe consistent snapshots. A Log is
// process-lifetime only: attach a Sink for durable history.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	sink     Sink
	now      func() time.Time
}

// Option configures a Log.
type Option func(*Log)

// WithCapacity overrides the retained-entry bound.
func WithCapacity(n int) Option {
	return func(l *Log) {
		if n > 0 {
			l.capacity = n
		}
	}
}

// WithSink forwards every recorded entry to a durable archive. Archive
// failures are logged and swallowed.
func WithSink(s Sink) Option {
	return func(l *Log) { l.sink = s }
}

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// NewLog creates an empty audit log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record assigns an id and timestamp to the entry and appends it,
// evicting the oldest entries once the capacity bound is exceeded.
// Record never fails, whatever the entry contents.
func (l *Log) Record(ctx context.Context, entry Entry) {
	l.mu.Lock()
	entry.ID = uuid.NewString()
	entry.Timestamp = l.now().UTC().Format(timeLayout)
	l.entries = append(l.entries, entry)
	if excess := len(l.entries) - l.capacity; excess > 0 {
		l.entries = append(l.entries[:0], l.entries[excess:]...)
	}
	l.mu.Unlock()

	slog.InfoContext(ctx, "permission_audit",
		slog.String("entry_id", entry.ID),
		logger.UserID(entry.UserID),
		slog.String("action", entry.Action),
		slog.String("resource", entry.Resource),
		logger.Permission(entry.Permission),
		logger.Granted(entry.Granted),
		logger.Component("audit"),
	)

	if l.sink != nil {
		if err := l.sink.Archive(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "failed to archive audit entry",
				slog.String("entry_id", entry.ID),
				logger.Error(err),
			)
		}
	}
}

// Filter narrows a Query. Zero-valued fields are ignored; present fields
// are AND-combined. Date bounds are inclusive and compared as ISO-8601
// strings.
type Filter struct {
	UserID    string
	Action    string
	Resource  string
	Granted   *bool
	StartDate string
	EndDate   string
}

func (f Filter) matches(e Entry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.Resource != "" && e.Resource != f.Resource {
		return false
	}
	if f.Granted != nil && e.Granted != *f.Granted {
		return false
	}
	if f.StartDate != "" && e.Timestamp < f.StartDate {
		return false
	}
	if f.EndDate != "" && e.Timestamp > f.EndDate {
		return false
	}
	return true
}

// Query returns the retained entries matching the filter, most recent
// first. Entries sharing a timestamp keep reverse insertion order, so
// the newest entry is always first.
func (l *Log) Query(filter Filter) []Entry {
	l.mu.RLock()
	matched := make([]Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		if filter.matches(l.entries[i]) {
			matched = append(matched, l.entries[i])
		}
	}
	l.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp > matched[j].Timestamp
	})
	return matched
}

// Stats summarizes the entire retained buffer.
type Stats struct {
	Total             int            `json:"total"`
	Granted           int            `json:"granted"`
	Denied            int            `json:"denied"`
	GrantedPercentage int            `json:"grantedPercentage"`
	ResourceStats     map[string]int `json:"resourceStats"`
	ActionStats       map[string]int `json:"actionStats"`
}

// Stats computes aggregate counts over all retained entries.
func (l *Log) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := Stats{
		Total:         len(l.entries),
		ResourceStats: make(map[string]int),
		ActionStats:   make(map[string]int),
	}
	for _, e := range l.entries {
		if e.Granted {
			stats.Granted++
		}
		stats.ResourceStats[e.Resource]++
		stats.ActionStats[e.Action]++
	}
	stats.Denied = stats.Total - stats.Granted
	if stats.Total > 0 {
		stats.GrantedPercentage = int(math.Round(float64(stats.Granted) * 100 / float64(stats.Total)))
	}
	return stats
}
