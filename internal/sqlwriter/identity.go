package sqlwriter

import (
	"time"

	"github.com/ginjaninja78/gem-stock-importer/internal/types"
)

const (
	appendBase   = 1_000_000
	appendWindow = 1_000_000
	appendStride = 1000
)

// AppendSeed returns the first storage id used for batches in append mode:
// 1,000,000 + (unix seconds mod 1,000,000) * 1000.
//
// Two appends that land on the same seed, or whose ranges overlap rows from
// an earlier append, collide on the primary key and the whole import rolls
// back.
func AppendSeed(now time.Time) int64 {
	return appendBase + (now.Unix()%appendWindow)*appendStride
}

// AssignIdentities maps each batch id to the id stored in the database. With
// truncate the ids are kept as they are; otherwise batches are numbered from
// AppendSeed(now) in order.
func AssignIdentities(batches []types.UsageBatch, truncate bool, now time.Time) map[int]int64 {
	ids := make(map[int]int64, len(batches))

	if truncate {
		for _, b := range batches {
			ids[b.ID] = int64(b.ID)
		}
		return ids
	}

	seed := AppendSeed(now)
	for i, b := range batches {
		ids[b.ID] = seed + int64(i)
	}
	return ids
}
