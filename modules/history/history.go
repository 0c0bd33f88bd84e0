// Package history keeps the bounded, in-memory operation log of one session.
package history

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// Channel is one of the three independent history categories.
type Channel string

const (
	ChannelGeneration Channel = "generation"
	ChannelEdit       Channel = "edit"
	ChannelAnalysis   Channel = "analysis"
)

// Channels lists every channel in display order.
var Channels = []Channel{ChannelGeneration, ChannelEdit, ChannelAnalysis}

// DefaultCapacity is the per-channel entry limit.
const DefaultCapacity = 20

// TimestampLayout is how entry timestamps are rendered.
const TimestampLayout = "2006-01-02 15:04:05"

// ParseChannel validates a channel name coming from a request.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown history channel %q", s)
}

// normalize maps anything that is not generation or edit to analysis.
func (c Channel) normalize() Channel {
	switch c {
	case ChannelGeneration, ChannelEdit:
		return c
	default:
		return ChannelAnalysis
	}
}

// Entry is one recorded operation. Payload is opaque to the log.
type Entry struct {
	Timestamp time.Time
	Channel   Channel
	Payload   map[string]interface{}
}

type entryJSON struct {
	Timestamp string                 `json:"timestamp"`
	Type      Channel                `json:"type"`
	Data      map[string]interface{} `json:"data"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	data := e.Payload
	if data == nil {
		data = map[string]interface{}{}
	}
	return json.Marshal(entryJSON{
		Timestamp: e.Timestamp.Format(TimestampLayout),
		Type:      e.Channel,
		Data:      data,
	})
}

// Log holds one bounded newest-first sequence per channel.
// len(entries[c]) <= capacity holds after every Record.
type Log struct {
	capacity int
	now      func() time.Time

	mu      sync.RWMutex
	entries map[Channel][]Entry
}

// New returns an empty log. A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		now:      time.Now,
		entries:  make(map[Channel][]Entry, len(Channels)),
	}
}

// Capacity returns the per-channel limit.
func (l *Log) Capacity() int {
	return l.capacity
}

// Record inserts a new entry at the front of the channel and evicts the oldest
// entry once the channel exceeds capacity. The payload map is shallow-copied.
func (l *Log) Record(channel Channel, payload map[string]interface{}) Entry {
	channel = channel.normalize()
	entry := Entry{
		Timestamp: l.now(),
		Channel:   channel,
		Payload:   maps.Clone(payload),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	list := append(l.entries[channel], Entry{})
	copy(list[1:], list)
	list[0] = entry
	if len(list) > l.capacity {
		list[len(list)-1] = Entry{}
		list = list[:len(list)-1]
	}
	l.entries[channel] = list

	return entry
}

// List returns a newest-first copy of the channel.
func (l *Log) List(channel Channel) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	list := slices.Clone(l.entries[channel])
	if list == nil {
		list = []Entry{}
	}
	return list
}

// Clear empties one channel.
func (l *Log) Clear(channel Channel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, channel)
}

// ClearAll empties every channel.
func (l *Log) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	clear(l.entries)
}

// Count returns the current length of one channel.
func (l *Log) Count(channel Channel) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries[channel])
}

// TotalCount returns the sum of all channel lengths.
func (l *Log) TotalCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0
	for _, c := range Channels {
		total += len(l.entries[c])
	}
	return total
}

// Counts returns the length of every channel keyed by name.
func (l *Log) Counts() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[string]int, len(Channels))
	for _, c := range Channels {
		counts[string(c)] = len(l.entries[c])
	}
	return counts
}

// UsageCount is how many retained entries share one edit type.
type UsageCount struct {
	EditType string `json:"edit_type"`
	Count    int    `json:"count"`
}

// EditUsage tallies the retained edit entries by their "edit_type" payload,
// most used first (ties by name). Entries without an edit type are skipped.
func (l *Log) EditUsage() []UsageCount {
	l.mu.RLock()
	tally := map[string]int{}
	for _, e := range l.entries[ChannelEdit] {
		if t, ok := e.Payload["edit_type"].(string); ok && t != "" {
			tally[t]++
		}
	}
	l.mu.RUnlock()

	usage := make([]UsageCount, 0, len(tally))
	for _, t := range slices.Sorted(maps.Keys(tally)) {
		usage = append(usage, UsageCount{EditType: t, Count: tally[t]})
	}
	slices.SortStableFunc(usage, func(a, b UsageCount) int {
		return b.Count - a.Count
	})
	return usage
}

// ExportDocument is the usage report layout, grouped by channel.
type ExportDocument struct {
	Generations []Entry `json:"generations"`
	Edits       []Entry `json:"edits"`
	Analyses    []Entry `json:"analyses"`
}

// Snapshot copies every channel into an export document.
func (l *Log) Snapshot() ExportDocument {
	return ExportDocument{
		Generations: l.List(ChannelGeneration),
		Edits:       l.List(ChannelEdit),
		Analyses:    l.List(ChannelAnalysis),
	}
}

// Export serializes the current entries as an indented JSON usage report.
func (l *Log) Export() ([]byte, error) {
	data, err := json.MarshalIndent(l.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history export: %w", err)
	}
	return data, nil
}
