// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainconfig

import (
	"github.com/moecoin/moecoind/domain/consensus/model/externalapi"
)

const (
	genesisTimestamp = 1527900734

	// genesisAddress receives the output of the genesis transaction
	genesisAddress = "04aaceddcefd4e1e8fab5d19df53901c46106c45a67a3606a8250e4c549947e036d3b965f602cfb9eb1809ef27dacd4ca5ad1a172e81f982f5eb54953f23d15d20"

	genesisTransactionID = "5dc478b5b2d30a20b37c749b11be8d0951799c1a67fab9f6a5e5dfebc9e5a787"

	genesisHash = "ccdd8c9e32bc91458a65dd3b86cd534aec970958f99f2bf933e469c8c2b4f1b7"
)

// genesisTransaction pays 50 coins to genesisAddress. It is shaped like a
// reward transaction for block 0.
func genesisTransaction() *externalapi.DomainTransaction {
	return &externalapi.DomainTransaction{
		ID: genesisTransactionID,
		Inputs: []*externalapi.DomainTransactionInput{{
			OutputID:    "",
			OutputIndex: 0,
			BlockIndex:  0,
			Signature:   "",
		}},
		Outputs: []*externalapi.DomainTransactionOutput{{
			Address: genesisAddress,
			Amount:  50,
		}},
		Timestamp: genesisTimestamp,
	}
}

// genesisBlock returns a fresh copy of the first block of every chain
func genesisBlock() *externalapi.DomainBlock {
	return &externalapi.DomainBlock{
		Index:        0,
		Hash:         genesisHash,
		PreviousHash: nil,
		Timestamp:    genesisTimestamp,
		Transactions: []*externalapi.DomainTransaction{genesisTransaction()},
		Difficulty:   0,
		Nonce:        0,
	}
}
