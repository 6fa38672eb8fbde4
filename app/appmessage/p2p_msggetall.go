package appmessage

// MsgGetAll implements the Message interface and represents a moecoin
// GET_ALL message. It asks the peer for its whole chain.
//
// This message has no payload.
type MsgGetAll struct {
	baseMessage
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGetAll) Command() MessageCommand {
	return CmdGetAll
}

// NewMsgGetAll returns a new moecoin GET_ALL message that conforms to the
// Message interface.
func NewMsgGetAll() *MsgGetAll {
	return &MsgGetAll{}
}
