package stats

import "sync/atomic"

// Counters holds the process-wide counters backing get_stats and the admin
// /stats endpoint. They are in-memory only and reset on restart.
type Counters struct {
	connections atomic.Int64
	dataEntries atomic.Int64
	exports     atomic.Int64
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) ConnectionOpened() {
	c.connections.Add(1)
}

func (c *Counters) EntrySaved() {
	c.dataEntries.Add(1)
}

func (c *Counters) ExportCompleted() {
	c.exports.Add(1)
}

// Snapshot is the wire shape of the counters.
type Snapshot struct {
	Connections int64 `json:"connections"`
	DataEntries int64 `json:"data_entries"`
	Exports     int64 `json:"exports"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Connections: c.connections.Load(),
		DataEntries: c.dataEntries.Load(),
		Exports:     c.exports.Load(),
	}
}
