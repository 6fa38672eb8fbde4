package consensushashing

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"

	"github.com/pkg/errors"
)

// hashWriter accumulates the fields of a block or transaction into a
// SHA-256 digest
type hashWriter struct {
	inner hash.Hash
}

func newHashWriter() hashWriter {
	return hashWriter{inner: sha256.New()}
}

func (h hashWriter) writeBytes(b []byte) {
	_, err := h.inner.Write(b)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. SHA256's digest should never return an error"))
	}
}

func (h hashWriter) writeString(s string) {
	h.writeBytes([]byte(s))
}

func (h hashWriter) writeUint64(n uint64) {
	h.writeString(formatUint(n))
}

func (h hashWriter) writeInt64(n int64) {
	h.writeString(formatInt(n))
}

// finalize returns the lowercase hex encoding of the digest
func (h hashWriter) finalize() string {
	return hex.EncodeToString(h.inner.Sum(nil))
}

func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
