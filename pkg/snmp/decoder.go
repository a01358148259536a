package snmp

import (
	"fmt"
	"io"
)

type VarBindHandler interface {
	Handle(VarBind *VarBind) error
	Flush() error
}

//-------------------------------------

type VarBindHandlerFunc func(VarBind *VarBind) error

func (f VarBindHandlerFunc) Handle(vb *VarBind) error {
	return f(vb)
}
func (f VarBindHandlerFunc) Flush() error {
	return f(nil)
}

//-------------------------------------

// VarBindPrinter writes one line per varbind.
type VarBindPrinter struct {
	w io.Writer
}

var _ VarBindHandler = &VarBindPrinter{}

func NewVarBindPrinter(w io.Writer) *VarBindPrinter {
	return &VarBindPrinter{w: w}
}

func (printer *VarBindPrinter) Handle(vb *VarBind) error {
	s, t, err := DecodeValue(vb.Value)
	if err != nil {
		_, err = fmt.Fprintf(printer.w, "%s = %s\n", vb.OID, vb.Value)
		return err
	}
	_, err = fmt.Fprintf(printer.w, "%s = %s: %s\n", vb.OID, t, s)
	return err
}

func (printer *VarBindPrinter) Flush() error {
	return nil
}
