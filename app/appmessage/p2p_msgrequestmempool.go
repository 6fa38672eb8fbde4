package appmessage

// MsgRequestMempool implements the Message interface and represents a
// moecoin REQUEST_MEMPOOL message. It asks the peer for every transaction in
// its mempool.
//
// This message has no payload.
type MsgRequestMempool struct {
	baseMessage
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgRequestMempool) Command() MessageCommand {
	return CmdRequestMempool
}

// NewMsgRequestMempool returns a new moecoin REQUEST_MEMPOOL message that
// conforms to the Message interface.
func NewMsgRequestMempool() *MsgRequestMempool {
	return &MsgRequestMempool{}
}
