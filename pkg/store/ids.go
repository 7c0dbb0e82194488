package store

import (
	"fmt"
	"sync/atomic"
)

// idCounter disambiguates ids minted within the same millisecond. It is process wide so separate stores in one
// process never hand out the same id; it gives no guarantee across processes.
var idCounter atomic.Uint64

func (s *Store) newID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, s.now().UnixMilli(), idCounter.Add(1))
}
