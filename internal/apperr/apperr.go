// Package apperr classifies the ledger's error taxonomy
// (SerializationError, InvalidSignature, InvalidKey, RecordsError,
// BlockError, NotFound, StorageError) into a single reportable Kind.
// Core packages keep returning their own concrete sentinel errors and
// types (codec.ErrUnsupportedType, crypto.ErrInvalidSignature,
// chain.ErrNotFound, block.RecordsError, ...); this package only
// translates those into a stable code for callers that need one.
package apperr

import (
	"errors"
	"fmt"

	"github.com/nisaacdz/blockify/internal/jsonx"
)

// Kind is a taxonomy code, not a Go type; many concrete error values map
// onto the same Kind.
type Kind string

const (
	KindSerialization   Kind = "serialization_error"
	KindInvalidSignature Kind = "invalid_signature"
	KindInvalidKey       Kind = "invalid_key"
	KindRecords          Kind = "records_error"
	KindBlock            Kind = "block_error"
	KindNotFound         Kind = "not_found"
	KindStorage          Kind = "storage_error"
	KindUnknown          Kind = "unknown_error"
)

// Problem is the JSON-reportable shape of a classified error.
type Problem struct {
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

func (p *Problem) Error() string {
	b, err := jsonx.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%s: %s", p.Code, p.Message)
	}
	return string(b)
}

// New builds a Problem directly from a kind and message.
func New(kind Kind, message string) error {
	return &Problem{Code: kind, Message: message}
}

// classifier matches a predicate against err; matchers run in
// registration order and the first match wins. KindUnknown is not
// registered; Classify returns it when no matcher matches.
type classifier struct {
	kind  Kind
	match func(error) bool
}

var classifiers []classifier

// Register lets a package declare which of its sentinel errors or error
// types map onto a Kind, without apperr importing that package (which
// would create an import cycle back into crypto/record/block/chain).
// Packages call this from an init() function.
func Register(kind Kind, match func(error) bool) {
	classifiers = append(classifiers, classifier{kind: kind, match: match})
}

// Classify maps err onto its taxonomy Kind using the matchers packages
// have registered, falling back to KindUnknown.
func Classify(err error) Kind {
	for _, c := range classifiers {
		if c.match(err) {
			return c.kind
		}
	}
	return KindUnknown
}

// AsProblem classifies err and wraps it as a reportable Problem.
func AsProblem(err error) *Problem {
	if err == nil {
		return nil
	}
	var p *Problem
	if errors.As(err, &p) {
		return p
	}
	return &Problem{Code: Classify(err), Message: err.Error()}
}
