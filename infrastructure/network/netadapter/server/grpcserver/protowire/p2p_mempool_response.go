package protowire

import (
	"encoding/json"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

func transactionsToWire(transactions []*externalapi.DomainTransaction) []*externalapi.DomainTransaction {
	if transactions == nil {
		return []*externalapi.DomainTransaction{}
	}
	return transactions
}

func transactionsFromWire(data json.RawMessage) ([]*externalapi.DomainTransaction, error) {
	var transactions []*externalapi.DomainTransaction
	if len(data) > 0 {
		err := json.Unmarshal(data, &transactions)
		if err != nil {
			return nil, err
		}
	}
	err := checkTransactionsNotNil(transactions)
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func checkTransactionsNotNil(transactions []*externalapi.DomainTransaction) error {
	for i, tx := range transactions {
		if tx == nil {
			return errors.Wrapf(errorNil, "transaction #%d is nil", i)
		}
		for j, input := range tx.Inputs {
			if input == nil {
				return errors.Wrapf(errorNil, "input #%d of transaction #%d is nil", j, i)
			}
		}
		for j, output := range tx.Outputs {
			if output == nil {
				return errors.Wrapf(errorNil, "output #%d of transaction #%d is nil", j, i)
			}
		}
	}
	return nil
}
