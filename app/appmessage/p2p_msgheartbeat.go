package appmessage

// MsgHeartbeat implements the Message interface and represents a moecoin
// HEARTBEAT message, sent periodically to keep the connection alive.
// Receivers ignore it.
type MsgHeartbeat struct {
	baseMessage
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgHeartbeat) Command() MessageCommand {
	return CmdHeartbeat
}

// NewMsgHeartbeat returns a new moecoin HEARTBEAT message that conforms to
// the Message interface.
func NewMsgHeartbeat() *MsgHeartbeat {
	return &MsgHeartbeat{}
}
