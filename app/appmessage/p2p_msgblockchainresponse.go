package appmessage

import "github.com/moecoin/moecoind/domain/consensus/model/externalapi"

// MsgBlockchainResponse implements the Message interface and represents a
// moecoin BLOCKCHAIN_RESPONSE message. It carries either a single block (an
// answer to GET_LATEST or an announcement) or a whole chain (an answer to
// GET_ALL), ordered from the lowest index.
type MsgBlockchainResponse struct {
	baseMessage
	Blocks []*externalapi.DomainBlock
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgBlockchainResponse) Command() MessageCommand {
	return CmdBlockchainResponse
}

// LastBlock returns the highest block in the message, or nil if it holds
// no blocks
func (msg *MsgBlockchainResponse) LastBlock() *externalapi.DomainBlock {
	if len(msg.Blocks) == 0 {
		return nil
	}
	return msg.Blocks[len(msg.Blocks)-1]
}

// NewMsgBlockchainResponse returns a new moecoin BLOCKCHAIN_RESPONSE message
// that conforms to the Message interface.
func NewMsgBlockchainResponse(blocks []*externalapi.DomainBlock) *MsgBlockchainResponse {
	return &MsgBlockchainResponse{
		Blocks: blocks,
	}
}
