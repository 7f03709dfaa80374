// Package verifier checks that the header pass and the write pass of a run
// read the same input.
//
// Both passes re-open the source. A file that is appended to, or a table
// that changes between the passes, would otherwise produce rows whose
// columns were never discovered and are silently dropped.
package verifier

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	"github.com/dbsmedya/ndjson2csv/internal/record"
)

// VerificationMethod defines how passes are compared.
type VerificationMethod string

const (
	// MethodCount compares record counts (fast)
	MethodCount VerificationMethod = "count"
	// MethodSHA256 compares a SHA256 hash of every record (slower but more thorough)
	MethodSHA256 VerificationMethod = "sha256"
	// MethodSkip skips verification entirely
	MethodSkip VerificationMethod = "skip"
)

// ErrSourceChanged is returned when the two passes saw different input.
var ErrSourceChanged = errors.New("input changed between passes")

// Digest accumulates what one pass read.
type Digest struct {
	count int64
	h     hash.Hash
}

// NewDigest returns a Digest for method. Only MethodSHA256 hashes records.
func NewDigest(method VerificationMethod) *Digest {
	d := &Digest{}
	if method == MethodSHA256 {
		d.h = sha256.New()
	}
	return d
}

// Add records one input record.
func (d *Digest) Add(rec *record.Object) {
	d.count++
	if d.h != nil {
		d.h.Write([]byte(record.Encode(rec)))
		d.h.Write([]byte{'\n'})
	}
}

// Count returns the number of records added.
func (d *Digest) Count() int64 {
	return d.count
}

// Sum returns the hex hash of the records added, or "" when not hashing.
func (d *Digest) Sum() string {
	if d.h == nil {
		return ""
	}
	return hex.EncodeToString(d.h.Sum(nil))
}

// VerifyResult holds the comparison of two passes.
type VerifyResult struct {
	Method       VerificationMethod
	FirstCount   int64
	SecondCount  int64
	FirstHash    string
	SecondHash   string
	Match        bool
	ErrorMessage string
}

// Verifier compares pass digests.
type Verifier struct {
	method VerificationMethod
}

// NewVerifier returns a Verifier for method. An empty method means count.
func NewVerifier(method VerificationMethod) (*Verifier, error) {
	switch method {
	case "":
		method = MethodCount
	case MethodCount, MethodSHA256, MethodSkip:
	default:
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}
	return &Verifier{method: method}, nil
}

// Method returns the configured method.
func (v *Verifier) Method() VerificationMethod {
	return v.method
}

// NewDigest returns an empty digest matching the verifier's method.
func (v *Verifier) NewDigest() *Digest {
	return NewDigest(v.method)
}

// Compare checks the digests of the two passes. A mismatch returns the
// result together with an error wrapping ErrSourceChanged.
func (v *Verifier) Compare(first, second *Digest) (*VerifyResult, error) {
	result := &VerifyResult{Method: v.method, Match: true}
	if v.method == MethodSkip {
		return result, nil
	}

	result.FirstCount = first.Count()
	result.SecondCount = second.Count()
	if result.FirstCount != result.SecondCount {
		result.Match = false
		result.ErrorMessage = fmt.Sprintf("record count mismatch: first pass=%d, second pass=%d",
			result.FirstCount, result.SecondCount)
		return result, fmt.Errorf("%w: %s", ErrSourceChanged, result.ErrorMessage)
	}

	if v.method == MethodSHA256 {
		result.FirstHash = first.Sum()
		result.SecondHash = second.Sum()
		if result.FirstHash != result.SecondHash {
			result.Match = false
			result.ErrorMessage = fmt.Sprintf("hash mismatch: first pass=%s, second pass=%s",
				result.FirstHash[:16], result.SecondHash[:16])
			return result, fmt.Errorf("%w: %s", ErrSourceChanged, result.ErrorMessage)
		}
	}

	return result, nil
}
