// Package pool provides pooled scratch buffers for encode hot paths.
package pool

import "sync"

// scratchDefaultSize covers typical payloads (tens of fields) without a
// regrow; oversized buffers are dropped instead of pooled so one huge
// payload does not pin memory.
const (
	scratchDefaultSize  = 512
	scratchMaxThreshold = 64 * 1024
)

var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, scratchDefaultSize)
		return &b
	},
}

// GetScratch returns an empty byte buffer from the pool.
func GetScratch() *[]byte {
	ptr, _ := scratchPool.Get().(*[]byte)
	*ptr = (*ptr)[:0]

	return ptr
}

// PutScratch returns a buffer to the pool unless it grew past the
// retention threshold.
func PutScratch(ptr *[]byte) {
	if cap(*ptr) > scratchMaxThreshold {
		return
	}
	scratchPool.Put(ptr)
}
