package appmessage

// MsgGetLatest implements the Message interface and represents a moecoin
// GET_LATEST message. It asks the peer for its latest block.
//
// This message has no payload.
type MsgGetLatest struct {
	baseMessage
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGetLatest) Command() MessageCommand {
	return CmdGetLatest
}

// NewMsgGetLatest returns a new moecoin GET_LATEST message that conforms to
// the Message interface.
func NewMsgGetLatest() *MsgGetLatest {
	return &MsgGetLatest{}
}
