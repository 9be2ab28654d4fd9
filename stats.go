// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"fmt"
	"log"
	"time"
)

// GCStats describes one garbage collection and the running totals. A copy
// is handed to the GC handler after every collection.
type GCStats struct {
	Num         int           // number of collections so far
	Nodes       int           // allocated slots at collection time
	Freenodes   int           // free slots after the collection
	Reusednodes int           // slots recycled since the previous collection
	Time        time.Duration // duration of this collection
	Sumtime     time.Duration // cumulated collection time
}

func (s GCStats) String() string {
	return fmt.Sprintf("Garbage collection #%d: %d nodes / %d free / %d reused / %.3fs / %.3fs total",
		s.Num, s.Nodes, s.Freenodes, s.Reusednodes, s.Time.Seconds(), s.Sumtime.Seconds())
}

// CacheStats counts accesses to the unique node table and to the operator
// caches.
type CacheStats struct {
	UniqueAccess  int // accesses to the unique node table
	UniqueChain   int // iterations through the bucket chains
	UniqueHit     int // nodes found in the unique table
	UniqueMiss    int // nodes not found in the unique table
	UniqueTrivial int // makenode calls resolved by the reduction rule
	OpHit         int // entries found in the operator caches
	OpMiss        int // entries not found in the operator caches
	OpOverwrite   int // cache insertions that evicted an entry
}

func (c CacheStats) String() string {
	res := fmt.Sprintf("Unique Trivial: %d\n", c.UniqueTrivial)
	res += fmt.Sprintf("Unique Access:  %d\n", c.UniqueAccess)
	res += fmt.Sprintf("Unique Chain:   %d\n", c.UniqueChain)
	res += fmt.Sprintf("Unique Hit:     %d\n", c.UniqueHit)
	res += fmt.Sprintf("Unique Miss:    %d\n", c.UniqueMiss)
	res += fmt.Sprintf("Operator Hits:  %d\n", c.OpHit)
	res += fmt.Sprintf("Operator Miss:  %d\n", c.OpMiss)
	res += fmt.Sprintf("Operator Overwrite: %d", c.OpOverwrite)
	return res
}

// GetGCStats returns the statistics of the most recent garbage collection.
func (f *Factory) GetGCStats() GCStats {
	return f.gcstat
}

// GetCacheStats returns the current table and cache counters.
func (f *Factory) GetCacheStats() CacheStats {
	return f.cachestat
}

// SetGCHandler installs fn as the garbage collection report handler. A nil
// handler silences the reports; the default handler logs them.
func (f *Factory) SetGCHandler(fn func(GCStats)) {
	f.gchandler = fn
}

func defaultGCHandler(s GCStats) {
	log.Printf("bdd: %s", s)
}

func (f *Factory) recordGC(nodes, freenodes, reused int, elapsed time.Duration) {
	f.gcstat.Num++
	f.gcstat.Nodes = nodes
	f.gcstat.Freenodes = freenodes
	f.gcstat.Reusednodes = reused
	f.gcstat.Time = elapsed
	f.gcstat.Sumtime += elapsed
	if f.gchandler != nil {
		f.gchandler(f.gcstat)
	}
}

// PrintStat outputs the table and cache counters on the standard output.
func (f *Factory) PrintStat() {
	fmt.Println("==============")
	fmt.Println(f.Stats())
	fmt.Println("==============")
	fmt.Println(f.cachestat)
	fmt.Println("==============")
}

func humanSize(count int, size uintptr) string {
	total := float64(count) * float64(size)
	switch {
	case total >= 1<<30:
		return fmt.Sprintf("%.1f GB", total/(1<<30))
	case total >= 1<<20:
		return fmt.Sprintf("%.1f MB", total/(1<<20))
	case total >= 1<<10:
		return fmt.Sprintf("%.1f KB", total/(1<<10))
	}
	return fmt.Sprintf("%.0f B", total)
}
