package ruleerrors

import (
	"fmt"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// Category classifies a RuleError by the kind of rule it violates
type Category uint8

// Category constants.
const (
	// CategoryStructuralInvalid marks malformed shapes or field types.
	CategoryStructuralInvalid Category = iota

	// CategoryCryptoInvalid marks bad signatures and hash or id mismatches.
	CategoryCryptoInvalid

	// CategoryConsensusInvalid marks bad index, link, timestamp, proof of
	// work or difficulty.
	CategoryConsensusInvalid

	// CategoryEconomicInvalid marks amount mismatches, double spends and
	// references to outputs that aren't spendable.
	CategoryEconomicInvalid
)

var categoryStrings = [...]string{"StructuralInvalid", "CryptoInvalid", "ConsensusInvalid", "EconomicInvalid"}

func (c Category) String() string {
	if int(c) < len(categoryStrings) {
		return categoryStrings[c]
	}
	return fmt.Sprintf("Unknown(%d)", c)
}

// These constants are used to identify a specific RuleError.
var (
	// ErrMalformedBlock indicates a block whose fields are missing or
	// malformed, e.g. a hash which isn't 64 hex characters or a genesis
	// index paired with a previous hash.
	ErrMalformedBlock = newRuleError("ErrMalformedBlock", CategoryStructuralInvalid)

	// ErrNoTransactions indicates the block does not have a least one
	// transaction. A valid block must have at least the reward transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions", CategoryStructuralInvalid)

	// ErrMalformedTransaction indicates a transaction whose id, inputs or
	// outputs are missing or malformed.
	ErrMalformedTransaction = newRuleError("ErrMalformedTransaction", CategoryStructuralInvalid)

	// ErrBadAddress indicates an output address which isn't a 130 character
	// hex encoded uncompressed public key.
	ErrBadAddress = newRuleError("ErrBadAddress", CategoryStructuralInvalid)

	// ErrNoTxInputs indicates a transaction does not have any inputs.
	ErrNoTxInputs = newRuleError("ErrNoTxInputs", CategoryStructuralInvalid)

	// ErrNoTxOutputs indicates a transaction does not have any outputs.
	ErrNoTxOutputs = newRuleError("ErrNoTxOutputs", CategoryStructuralInvalid)

	// ErrTransactionIDMismatch indicates the id recomputed from a
	// transaction's fields differs from its stored id.
	ErrTransactionIDMismatch = newRuleError("ErrTransactionIDMismatch", CategoryCryptoInvalid)

	// ErrInvalidSignature indicates an input signature that doesn't verify
	// against the address owning the output it spends.
	ErrInvalidSignature = newRuleError("ErrInvalidSignature", CategoryCryptoInvalid)

	// ErrWrongOwner indicates an attempt to sign an input with a key that
	// doesn't own the referenced output.
	ErrWrongOwner = newRuleError("ErrWrongOwner", CategoryCryptoInvalid)

	// ErrBlockHashMismatch indicates the hash recomputed from a block's
	// fields differs from its stored hash.
	ErrBlockHashMismatch = newRuleError("ErrBlockHashMismatch", CategoryCryptoInvalid)

	// ErrBadGenesis indicates a chain whose first block isn't the
	// hard-coded genesis block.
	ErrBadGenesis = newRuleError("ErrBadGenesis", CategoryConsensusInvalid)

	// ErrBadIndex indicates a block whose index doesn't follow its
	// predecessor's.
	ErrBadIndex = newRuleError("ErrBadIndex", CategoryConsensusInvalid)

	// ErrBadPreviousHash indicates a block that doesn't point at its
	// predecessor's hash.
	ErrBadPreviousHash = newRuleError("ErrBadPreviousHash", CategoryConsensusInvalid)

	// ErrTimeTooOld indicates the block timestamp is too far behind its
	// predecessor's.
	ErrTimeTooOld = newRuleError("ErrTimeTooOld", CategoryConsensusInvalid)

	// ErrTimeTooMuchInTheFuture indicates that the block timestamp is too much in the future.
	ErrTimeTooMuchInTheFuture = newRuleError("ErrTimeTooMuchInTheFuture", CategoryConsensusInvalid)

	// ErrInvalidPoW indicates that the block proof-of-work is invalid.
	ErrInvalidPoW = newRuleError("ErrInvalidPoW", CategoryConsensusInvalid)

	// ErrUnexpectedDifficulty indicates the block difficulty doesn't match
	// the difficulty the adjustment rule yields for its chain.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty", CategoryConsensusInvalid)

	// ErrFirstTxNotReward indicates the first transaction in a block
	// is not a valid reward transaction.
	ErrFirstTxNotReward = newRuleError("ErrFirstTxNotReward", CategoryConsensusInvalid)

	// ErrBadRewardTransaction indicates a reward transaction that isn't
	// built as expected.
	ErrBadRewardTransaction = newRuleError("ErrBadRewardTransaction", CategoryConsensusInvalid)

	// ErrAmountMismatch indicates a transaction whose outputs don't add up
	// to exactly its inputs.
	ErrAmountMismatch = newRuleError("ErrAmountMismatch", CategoryEconomicInvalid)

	// ErrBadTxOutValue indicates output amounts that overflow when summed.
	ErrBadTxOutValue = newRuleError("ErrBadTxOutValue", CategoryEconomicInvalid)

	// ErrDuplicateTxInputs indicates a transaction references the same
	// input more than once.
	ErrDuplicateTxInputs = newRuleError("ErrDuplicateTxInputs", CategoryEconomicInvalid)

	// ErrDoubleSpendInSameBlock indicates a transaction
	// that spends an output that was already spent by another
	// transaction in the same block.
	ErrDoubleSpendInSameBlock = newRuleError("ErrDoubleSpendInSameBlock", CategoryEconomicInvalid)
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many validation
// rules. The caller can use errors.As to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message  string
	category Category
	inner    error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// Category returns the kind of rule this error violates
func (e RuleError) Category() Category {
	return e.category
}

func newRuleError(message string, category Category) RuleError {
	return RuleError{message: message, category: category, inner: nil}
}

// CategoryOf returns the category of the RuleError in err's chain, and false
// if err isn't a rule violation.
func CategoryOf(err error) (Category, bool) {
	var ruleErr RuleError
	if !errors.As(err, &ruleErr) {
		return 0, false
	}
	return ruleErr.category, true
}

// ErrMissingTxOut indicates a transaction output referenced by an input
// either does not exist or has already been spent.
type ErrMissingTxOut struct {
	MissingOutpoints []externalapi.DomainOutpoint
}

func (e ErrMissingTxOut) Error() string {
	return fmt.Sprintf("missing the following outpoint: %v", e.MissingOutpoints)
}

// NewErrMissingTxOut Creates a new ErrMissingTxOut error wrapped in a RuleError
func NewErrMissingTxOut(missingOutpoints []externalapi.DomainOutpoint) error {
	return errors.WithStack(RuleError{
		message:  "ErrMissingTxOut",
		category: CategoryEconomicInvalid,
		inner:    ErrMissingTxOut{missingOutpoints},
	})
}

// InvalidTransaction is a struct containing an invalid transaction, and the error explaining why it's invalid.
type InvalidTransaction struct {
	Transaction *externalapi.DomainTransaction
	Error       error
}

func (invalid InvalidTransaction) String() string {
	return fmt.Sprintf("(%s: %s)", invalid.Transaction.ID, invalid.Error)
}

// ErrInvalidTransactionsInNewBlock indicates that some transactions in a new block are invalid
type ErrInvalidTransactionsInNewBlock struct {
	InvalidTransactions []InvalidTransaction
}

func (e ErrInvalidTransactionsInNewBlock) Error() string {
	return fmt.Sprint(e.InvalidTransactions)
}

// NewErrInvalidTransactionsInNewBlock creates a new ErrInvalidTransactionsInNewBlock error
// wrapped in a RuleError. The category is the category of the first invalid transaction.
func NewErrInvalidTransactionsInNewBlock(invalidTransactions []InvalidTransaction) error {
	category := CategoryEconomicInvalid
	if len(invalidTransactions) > 0 {
		if innerCategory, ok := CategoryOf(invalidTransactions[0].Error); ok {
			category = innerCategory
		}
	}
	return errors.WithStack(RuleError{
		message:  "ErrInvalidTransactionsInNewBlock",
		category: category,
		inner:    ErrInvalidTransactionsInNewBlock{invalidTransactions},
	})
}
