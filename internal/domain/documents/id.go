package documents

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	idMu   sync.Mutex
	idRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewDocumentID builds a document ID from the invocation timestamp plus a
// random suffix: doc-<epochMillis>-<randAlnum9>. The timestamp keeps IDs
// roughly sortable; the suffix makes collisions within the same millisecond
// negligible.
func NewDocumentID(now time.Time) DocumentID {
	suffix := make([]byte, 9)
	idMu.Lock()
	for i := range suffix {
		suffix[i] = idAlphabet[idRand.Intn(len(idAlphabet))]
	}
	idMu.Unlock()
	return DocumentID(fmt.Sprintf("doc-%d-%s", now.UnixMilli(), suffix))
}

// NewViewURL returns the placeholder fragment identifier for a result.
// No real storage sits behind it; the dashboard resolves it client-side.
func NewViewURL(now time.Time) string {
	return fmt.Sprintf("#document-%d", now.UnixMilli())
}
