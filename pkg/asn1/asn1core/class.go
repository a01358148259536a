package asn1core

import "fmt"

// Class is the tag class held in bits 8-7 of the first identifier octet.
type Class int

const (
	ClassUniversal       = Class(0)
	ClassApplication     = Class(1)
	ClassContextSpecific = Class(2)
	ClassPrivate         = Class(3)
)

var classNames = newNames[Class]("class")

func init() {
	classNames.add(ClassUniversal, "Universal")
	classNames.add(ClassApplication, "Application")
	classNames.add(ClassContextSpecific, "ContextSpecific", "Context", "Context-Specific")
	classNames.add(ClassPrivate, "Private")
}

func (c Class) String() string {
	if name, ok := classNames.name(c); ok {
		return name
	}
	return fmt.Sprintf("class=%02X", int(c))
}

// IsValid reports whether c fits in the two class bits.
func (c Class) IsValid() bool {
	return c >= ClassUniversal && c <= ClassPrivate
}

func ParseClass(class string) (Class, error) {
	return classNames.value(class)
}
