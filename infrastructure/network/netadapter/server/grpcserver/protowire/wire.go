package protowire

import (
	"encoding/json"

	"github.com/moecoin/moecoind/app/appmessage"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	// ErrMalformedMessage is returned when a frame's payload is not a valid
	// message envelope, or its data doesn't match its type
	ErrMalformedMessage = errors.New("malformed message")

	// ErrUnknownMessageType is returned when a frame carries a message type
	// this node doesn't know
	ErrUnknownMessageType = errors.New("unknown message type")

	errorNil = errors.New("a required field is nil")
)

// MoecoinMessage is the envelope carried by every P2P frame
type MoecoinMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// FromAppMessage encodes message into a P2P frame
func FromAppMessage(message appmessage.Message) (*wrapperspb.BytesValue, error) {
	messageType, ok := appmessage.ProtocolMessageCommandToString[message.Command()]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMessageType, "command %d", message.Command())
	}

	var data interface{}
	switch message := message.(type) {
	case *appmessage.MsgBlockchainResponse:
		data = blocksToWire(message.Blocks)
	case *appmessage.MsgMempoolResponse:
		data = transactionsToWire(message.Transactions)
	}

	encodedData, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed encoding %s data", messageType)
	}
	payload, err := json.Marshal(&MoecoinMessage{Type: messageType, Data: encodedData})
	if err != nil {
		return nil, errors.Wrapf(err, "failed encoding %s envelope", messageType)
	}
	return wrapperspb.Bytes(payload), nil
}

// ToAppMessage decodes a P2P frame. The returned error wraps
// ErrMalformedMessage or ErrUnknownMessageType when the frame should be
// dropped.
func ToAppMessage(frame *wrapperspb.BytesValue) (appmessage.Message, error) {
	if frame == nil {
		return nil, errors.Wrap(ErrMalformedMessage, "frame is nil")
	}

	var envelope MoecoinMessage
	err := json.Unmarshal(frame.Value, &envelope)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedMessage, "failed decoding envelope: %s", err)
	}

	command, ok := appmessage.ProtocolMessageStringToCommand(envelope.Type)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMessageType, "type '%s'", envelope.Type)
	}

	switch command {
	case appmessage.CmdGetLatest:
		return appmessage.NewMsgGetLatest(), nil
	case appmessage.CmdGetAll:
		return appmessage.NewMsgGetAll(), nil
	case appmessage.CmdRequestMempool:
		return appmessage.NewMsgRequestMempool(), nil
	case appmessage.CmdHeartbeat:
		return appmessage.NewMsgHeartbeat(), nil
	case appmessage.CmdBlockchainResponse:
		blocks, err := blocksFromWire(envelope.Data)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedMessage, "%s: %s", envelope.Type, err)
		}
		return appmessage.NewMsgBlockchainResponse(blocks), nil
	case appmessage.CmdMempoolResponse:
		transactions, err := transactionsFromWire(envelope.Data)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedMessage, "%s: %s", envelope.Type, err)
		}
		return appmessage.NewMsgMempoolResponse(transactions), nil
	}
	return nil, errors.Wrapf(ErrUnknownMessageType, "type '%s'", envelope.Type)
}
