package snmp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/davidjspooner/asn1map/pkg/asn1"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
)

const DefaultPort = "161"

// Protocol holds the settings shared by every connection to an agent.
type Protocol struct {
	community      string
	version        Version
	bufferSize     int
	receiveTimeout time.Duration
}

type ProtocolOption func(p *Protocol) error

func NewProtocol(options ...ProtocolOption) (*Protocol, error) {
	p := &Protocol{
		version:        -1,
		bufferSize:     4096,
		receiveTimeout: 2 * time.Second,
	}
	for _, option := range options {
		err := option(p)
		if err != nil {
			return nil, err
		}
	}
	if p.version == -1 {
		return nil, fmt.Errorf("version is required")
	}
	return p, nil
}

func WithV1(community string) ProtocolOption {
	return func(p *Protocol) error {
		p.community = community
		p.version = V1
		return nil
	}
}

func WithV2(community string) ProtocolOption {
	return func(p *Protocol) error {
		p.community = community
		p.version = V2c
		return nil
	}
}

func WithBufferSize(size int) ProtocolOption {
	return func(p *Protocol) error {
		if size < 484 {
			return fmt.Errorf("buffer size %d is below the SNMP minimum of 484", size)
		}
		p.bufferSize = size
		return nil
	}
}

func WithReceiveTimeout(timeout time.Duration) ProtocolOption {
	return func(p *Protocol) error {
		p.receiveTimeout = timeout
		return nil
	}
}

// EncodePDU encodes pdu in a message carrying the protocol's version and
// community. A varbind without a value is sent as NULL.
func (p *Protocol) EncodePDU(pdu *PDU) ([]byte, error) {
	reg := asn1.DefaultRegistry()
	// only Go integers are passed, which always encode
	integer := func(v any) *asn1binary.Node {
		n, _ := reg.NewPrimitive(asn1core.TagInteger, v)
		return n
	}

	varBinds := asn1binary.NewSequence()
	for _, vb := range pdu.VarBinds {
		oid, err := reg.NewPrimitive(asn1core.TagOID, vb.OID)
		if err != nil {
			return nil, fmt.Errorf("varbind %s: %w", vb.OID, err)
		}
		value := vb.Value
		if value == nil {
			value = asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagNull, nil)
		}
		varBinds.SetChildren(append(varBinds.Children, asn1binary.NewSequence(oid, value))...)
	}

	var body []*asn1binary.Node
	if pdu.Type == TRAP {
		trap := pdu.Trap
		if trap == nil {
			return nil, asn1error.NewErrorf("trap PDU without trap fields").WithType(asn1error.StructuralError)
		}
		enterprise, err := reg.NewPrimitive(asn1core.TagOID, trap.Enterprise)
		if err != nil {
			return nil, err
		}
		timeStamp := integer(trap.TimeStamp)
		body = []*asn1binary.Node{
			enterprise,
			asn1binary.NewPrimitive(asn1core.ClassApplication, TagIPAddress, trap.AgentAddr),
			integer(trap.GenericTrap),
			integer(trap.SpecificTrap),
			asn1binary.NewPrimitive(asn1core.ClassApplication, TagTimeTicks, timeStamp.Content),
			varBinds,
		}
	} else {
		body = []*asn1binary.Node{
			integer(pdu.RequestID),
			integer(pdu.ErrorStatus),
			integer(pdu.ErrorIndex),
			varBinds,
		}
	}

	msg := asn1binary.NewSequence(
		integer(int(p.version)),
		asn1binary.NewPrimitive(asn1core.ClassUniversal, asn1core.TagOctetString, []byte(p.community)),
		asn1binary.NewConstructed(asn1core.ClassContextSpecific, asn1core.Tag(pdu.Type), body...),
	)
	bytes, err := asn1binary.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("error marshaling SNMP message: %w", err)
	}
	return bytes, nil
}

// Dial connects to an agent. The port defaults to 161.
func (p *Protocol) Dial(ctx context.Context, address string) (*Connection, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(strings.Trim(address, "[]"), DefaultPort)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", address, err)
	}
	return &Connection{protocol: p, conn: conn}, nil
}

// ErrClosed is returned by a Connection after Close.
var ErrClosed = asn1error.NewErrorf("snmp: connection closed")

type Connection struct {
	protocol *Protocol
	conn     net.Conn
}

func (c *Connection) Close() error {
	if c.conn == nil {
		return ErrClosed
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Connection) Send(pdu *PDU) error {
	if c.conn == nil {
		return ErrClosed
	}
	bytes, err := c.protocol.EncodePDU(pdu)
	if err != nil {
		return err
	}
	_, err = c.conn.Write(bytes)
	if err != nil {
		return fmt.Errorf("error sending SNMP message: %w", err)
	}
	return nil
}

// Receive waits for the next message until the receive timeout or the
// context deadline, whichever is earlier.
func (c *Connection) Receive(ctx context.Context) (*Message, error) {
	frame, err := c.read(ctx)
	if err != nil {
		return nil, err
	}
	return DecodeFrame(frame)
}

func (c *Connection) read(ctx context.Context) ([]byte, error) {
	if c.conn == nil {
		return nil, ErrClosed
	}
	deadline := time.Now().Add(c.protocol.receiveTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	buffer := make([]byte, c.protocol.bufferSize)
	n, err := c.conn.Read(buffer)
	if err != nil {
		return nil, fmt.Errorf("error reading SNMP message: %w", err)
	}
	return buffer[:n], nil
}

// Request sends pdu and returns the first response carrying its request id.
// Responses to other requests and datagrams that are not SNMP messages are
// discarded.
func (c *Connection) Request(ctx context.Context, pdu *PDU) (*Message, error) {
	if err := c.Send(pdu); err != nil {
		return nil, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := c.read(ctx)
		if err != nil {
			return nil, err
		}
		msg, err := DecodeFrame(frame)
		if err != nil {
			continue
		}
		if msg.PDU.Type == RESPONSE && msg.PDU.RequestID == pdu.RequestID {
			return msg, nil
		}
	}
}

// Get requests the values of oids.
func (c *Connection) Get(ctx context.Context, requestID int, oids ...asn1go.OID) (*Message, error) {
	pdu := &PDU{Type: GET, RequestID: requestID}
	for _, oid := range oids {
		pdu.VarBinds = append(pdu.VarBinds, VarBind{OID: oid})
	}
	return c.Request(ctx, pdu)
}
