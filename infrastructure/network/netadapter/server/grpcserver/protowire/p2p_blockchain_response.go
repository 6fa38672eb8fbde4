package protowire

import (
	"encoding/json"

	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

func blocksToWire(blocks []*externalapi.DomainBlock) []*externalapi.DomainBlock {
	if blocks == nil {
		return []*externalapi.DomainBlock{}
	}
	return blocks
}

// blocksFromWire decodes a list of blocks. A null list decodes as an
// empty one.
func blocksFromWire(data json.RawMessage) ([]*externalapi.DomainBlock, error) {
	var blocks []*externalapi.DomainBlock
	if len(data) > 0 {
		err := json.Unmarshal(data, &blocks)
		if err != nil {
			return nil, err
		}
	}
	for i, block := range blocks {
		if block == nil {
			return nil, errors.Wrapf(errorNil, "block #%d is nil", i)
		}
		err := checkTransactionsNotNil(block.Transactions)
		if err != nil {
			return nil, errors.Wrapf(err, "block #%d", i)
		}
	}
	return blocks, nil
}
