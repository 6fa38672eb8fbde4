package transactionvalidator

// TransactionValidator exposes a set of validation classes, after which
// it's possible to determine whether either a transaction is valid
type TransactionValidator struct {
	blockReward uint64
}

// New instantiates a new TransactionValidator
func New(blockReward uint64) *TransactionValidator {
	return &TransactionValidator{
		blockReward: blockReward,
	}
}
