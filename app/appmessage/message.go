package appmessage

import (
	"fmt"
	"time"
)

// MaxMessagePayload is the maximum bytes a message can be regardless of other
// individual limits imposed by messages themselves.
const MaxMessagePayload = 1024 * 1024 * 32 // 32MB

// MessageCommand is a number that represents the type of a message.
type MessageCommand uint32

func (cmd MessageCommand) String() string {
	cmdString, ok := ProtocolMessageCommandToString[cmd]
	if !ok {
		cmdString = "unknown command"
	}
	return fmt.Sprintf("%s [code %d]", cmdString, uint8(cmd))
}

// Commands used in moecoin messages which describe the type of message.
const (
	CmdGetLatest MessageCommand = iota
	CmdGetAll
	CmdBlockchainResponse
	CmdRequestMempool
	CmdMempoolResponse
	CmdHeartbeat
)

// ProtocolMessageCommandToString maps all MessageCommands to the type name
// they carry on the wire
var ProtocolMessageCommandToString = map[MessageCommand]string{
	CmdGetLatest:          "GET_LATEST",
	CmdGetAll:             "GET_ALL",
	CmdBlockchainResponse: "BLOCKCHAIN_RESPONSE",
	CmdRequestMempool:     "REQUEST_MEMPOOL",
	CmdMempoolResponse:    "MEMPOOL_RESPONSE",
	CmdHeartbeat:          "HEARTBEAT",
}

var protocolMessageStringToCommand = func() map[string]MessageCommand {
	stringToCommand := make(map[string]MessageCommand, len(ProtocolMessageCommandToString))
	for command, commandString := range ProtocolMessageCommandToString {
		stringToCommand[commandString] = command
	}
	return stringToCommand
}()

// ProtocolMessageStringToCommand returns the MessageCommand whose wire type
// name is commandString
func ProtocolMessageStringToCommand(commandString string) (MessageCommand, bool) {
	command, ok := protocolMessageStringToCommand[commandString]
	return command, ok
}

// Message is an interface that describes a moecoin message. A type that
// implements Message has complete control over the representation of its data
// and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	Command() MessageCommand
	MessageNumber() uint64
	SetMessageNumber(index uint64)
	ReceivedAt() time.Time
	SetReceivedAt(receivedAt time.Time)
}

type baseMessage struct {
	messageNumber uint64
	receivedAt    time.Time
}

func (b *baseMessage) MessageNumber() uint64 {
	return b.messageNumber
}

func (b *baseMessage) SetMessageNumber(messageNumber uint64) {
	b.messageNumber = messageNumber
}

func (b *baseMessage) ReceivedAt() time.Time {
	return b.receivedAt
}

func (b *baseMessage) SetReceivedAt(receivedAt time.Time) {
	b.receivedAt = receivedAt
}
