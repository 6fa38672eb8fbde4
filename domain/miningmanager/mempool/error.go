package mempool

import (
	"fmt"

	"github.com/moecoin/moecoind/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// RuleError identifies a rule violation. It is used to indicate that
// admission of a transaction failed due to one of the mempool or consensus
// rules. The underlying error in Err is either a TxRuleError or a
// ruleerrors.RuleError.
type RuleError struct {
	Err error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.Err == nil {
		return "<nil>"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e RuleError) Unwrap() error {
	return e.Err
}

// RejectCode represents a numeric value by which a rejection is classified.
type RejectCode uint8

// These constants define the various supported reject codes.
const (
	RejectMalformed RejectCode = 0x01
	RejectInvalid   RejectCode = 0x10
	RejectDuplicate RejectCode = 0x12
)

var rejectCodeStrings = map[RejectCode]string{
	RejectMalformed: "REJECT_MALFORMED",
	RejectInvalid:   "REJECT_INVALID",
	RejectDuplicate: "REJECT_DUPLICATE",
}

// String returns the RejectCode in human-readable form.
func (code RejectCode) String() string {
	if s, ok := rejectCodeStrings[code]; ok {
		return s
	}

	return fmt.Sprintf("Unknown RejectCode (%d)", uint8(code))
}

// TxRuleError identifies a mempool-specific rule violation, such as a
// transaction whose inputs collide with a transaction already in the pool.
type TxRuleError struct {
	RejectCode  RejectCode // The code classifying the rejection
	Description string     // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e TxRuleError) Error() string {
	return e.Description
}

// txRuleError creates an underlying TxRuleError with the given a set of
// arguments and returns a RuleError that encapsulates it.
func txRuleError(c RejectCode, desc string) RuleError {
	return RuleError{
		Err: TxRuleError{RejectCode: c, Description: desc},
	}
}

// invalidTransactionError wraps a consensus validation failure into a
// RuleError.
func invalidTransactionError(err error) RuleError {
	return RuleError{Err: err}
}

// ExtractRejectCode attempts to return a relevant reject code for a given
// error by examining the error for known types. It will return true if a
// code was successfully extracted.
func ExtractRejectCode(err error) (RejectCode, bool) {
	var txRuleErr TxRuleError
	if errors.As(err, &txRuleErr) {
		return txRuleErr.RejectCode, true
	}

	var consensusRuleErr ruleerrors.RuleError
	if errors.As(err, &consensusRuleErr) {
		if consensusRuleErr.Category() == ruleerrors.CategoryStructuralInvalid {
			return RejectMalformed, true
		}
		return RejectInvalid, true
	}

	return RejectInvalid, false
}

// IsDuplicateInput returns whether err was returned because a transaction
// spends an outpoint already spent by a pooled transaction.
func IsDuplicateInput(err error) bool {
	code, ok := ExtractRejectCode(err)
	return ok && code == RejectDuplicate
}

// IsInvalidTransaction returns whether err was returned because a
// transaction failed consensus validation against the UTXO set.
func IsInvalidTransaction(err error) bool {
	var consensusRuleErr ruleerrors.RuleError
	return errors.As(err, &consensusRuleErr)
}
