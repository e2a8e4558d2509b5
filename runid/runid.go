// Package runid hands out monotonic ULIDs used to tag selection runs in logs
// and traces.
package runid

import (
	cryptorand "crypto/rand"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// entropyPool holds monotonic entropy readers. A reader is not safe for
// concurrent use, so each Make borrows one for the duration of the call.
var entropyPool = sync.Pool{
	New: func() any { return newEntropy() },
}

// newEntropy returns a monotonic reader over a ChaCha8 stream with a fresh
// random key. IDs drawn from one reader within the same millisecond are
// strictly increasing.
func newEntropy() io.Reader {
	var seed [32]byte
	cryptorand.Read(seed[:]) // never returns an error
	return ulid.Monotonic(rand.NewChaCha8(seed), 0)
}

// Make returns a new ULID with the timestamp of t.
func Make(t time.Time) (ulid.ULID, error) {
	entropy := entropyPool.Get().(io.Reader)
	defer entropyPool.Put(entropy)

	return ulid.New(ulid.Timestamp(t), entropy)
}
