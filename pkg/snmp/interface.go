package snmp

import (
	"fmt"

	"github.com/davidjspooner/asn1map/pkg/asn1/asn1binary"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1go"
)

// PDUType is the context specific tag number of a PDU.
type PDUType asn1core.Tag

const (
	GET      = PDUType(0)
	GET_NEXT = PDUType(1)
	RESPONSE = PDUType(2)
	SET      = PDUType(3)
	TRAP     = PDUType(4)
	GET_BULK = PDUType(5)
	INFORM   = PDUType(6)
	TRAP_V2  = PDUType(7)
	REPORT   = PDUType(8)
)

func (t PDUType) String() string {
	switch t {
	case GET:
		return "GetRequest"
	case GET_NEXT:
		return "GetNextRequest"
	case RESPONSE:
		return "Response"
	case SET:
		return "SetRequest"
	case TRAP:
		return "Trap"
	case GET_BULK:
		return "GetBulkRequest"
	case INFORM:
		return "InformRequest"
	case TRAP_V2:
		return "SNMPv2-Trap"
	case REPORT:
		return "Report"
	}
	return fmt.Sprintf("pdu=%d", int(t))
}

type Version int

const (
	V1  = Version(0)
	V2c = Version(1)
)

func (v Version) String() string {
	switch v {
	case V1:
		return "v1"
	case V2c:
		return "v2c"
	}
	return "unknown"
}

type VarBind struct {
	OID   asn1go.OID       `asn1:"name"`
	Value *asn1binary.Node `asn1:"value"`
}

// PDU is the body of a message. For GetBulkRequest ErrorStatus and ErrorIndex
// hold non-repeaters and max-repetitions.
type PDU struct {
	Type        PDUType   `asn1:"-"`
	RequestID   int       `asn1:"request-id"`
	ErrorStatus int       `asn1:"error-status"`
	ErrorIndex  int       `asn1:"error-index"`
	VarBinds    []VarBind `asn1:"variable-bindings"`

	// Trap is only set for SNMPv1 Trap PDUs.
	Trap *Trap `asn1:"-"`
}

// Trap holds the SNMPv1 specific trap fields.
type Trap struct {
	Enterprise   asn1go.OID `asn1:"enterprise"`
	AgentAddr    []byte     `asn1:"agent-addr"`
	GenericTrap  int        `asn1:"generic-trap"`
	SpecificTrap int        `asn1:"specific-trap"`
	TimeStamp    uint32     `asn1:"time-stamp"`
	VarBinds     []VarBind  `asn1:"variable-bindings"`
}

type Message struct {
	Version   Version `asn1:"version"`
	Community string  `asn1:"community"`
	PDU       PDU     `asn1:"-"`
}
