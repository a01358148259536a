package snmp

import (
	"sync"

	"github.com/davidjspooner/asn1map/pkg/asn1"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1map"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1reflect"
)

var (
	mapperOnce    sync.Once
	messageMapper *asn1map.Mapper
)

func getMapper() *asn1map.Mapper {
	mapperOnce.Do(func() {
		m, err := asn1map.New(MessageSchema())
		if err != nil {
			panic(err)
		}
		messageMapper = m
	})
	return messageMapper
}

// ErrNotSNMP is returned for well formed BER that is not an SNMPv1/v2c
// message.
var ErrNotSNMP = asn1error.NewErrorf("snmp: not an SNMPv1 or SNMPv2c message").WithType(asn1error.StructuralError)

// DecodeFrame decodes one SNMP message, typically a UDP payload.
func DecodeFrame(frame []byte) (*Message, error) {
	node, _, err := asn1.NewDecoder(asn1binary.BER).Decode(frame, 0)
	if err != nil {
		return nil, err
	}
	return MessageFromNode(node)
}

// MessageFromNode maps an already decoded message.
func MessageFromNode(node *asn1binary.Node) (*Message, error) {
	result, ok := getMapper().Map(node)
	if !ok {
		return nil, ErrNotSNMP
	}
	fields := result.(asn1map.Fields)

	msg := &Message{}
	if err := asn1reflect.Bind(fields, msg); err != nil {
		return nil, err
	}

	data, _ := fields.Get("data")
	msg.PDU.Type = PDUType(node.Children[2].Tag)
	if msg.PDU.Type == TRAP {
		trap := &Trap{}
		if err := asn1reflect.Bind(data, trap); err != nil {
			return nil, err
		}
		msg.PDU.Trap = trap
		msg.PDU.VarBinds = trap.VarBinds
		return msg, nil
	}
	if err := asn1reflect.Bind(data, &msg.PDU); err != nil {
		return nil, err
	}
	return msg, nil
}

// Walk passes each varbind of the message to h and then flushes it.
func (m *Message) Walk(h VarBindHandler) error {
	for i := range m.PDU.VarBinds {
		if err := h.Handle(&m.PDU.VarBinds[i]); err != nil {
			return err
		}
	}
	return h.Flush()
}
