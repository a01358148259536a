package asn1schema

import (
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1core"
	"github.com/davidjspooner/asn1map/pkg/asn1/asn1error"
)

type errorList struct {
	list asn1error.List
}

func (l *errorList) addf(path string, format string, args ...any) {
	args = append([]any{path}, args...)
	l.list = append(l.list, asn1error.NewErrorf("%s: "+format, args...).
		WithType(asn1error.StructuralError).WithCause(asn1error.ErrInvalidSchema))
}

// Validate checks s for shapes that can never match anything sensibly. All
// problems are reported together and each wraps ErrInvalidSchema.
func Validate(s Schema) error {
	errs := &errorList{}
	validateChild("$", s, errs)
	return errs.list.ErrorOrNil()
}

func validateChild(path string, s Schema, errs *errorList) {
	if isNil(s) {
		errs.addf(path, "missing schema")
		return
	}
	s.validate(path, errs)
}

// isNil also catches typed nil pointers, eg Required("x", (*Leaf)(nil)).
func isNil(s Schema) bool {
	switch v := s.(type) {
	case nil:
		return true
	case *Leaf:
		return v == nil
	case *Any:
		return v == nil
	case *Choice:
		return v == nil
	case *Sequence:
		return v == nil
	case *Set:
		return v == nil
	case *SequenceOf:
		return v == nil
	case *SetOf:
		return v == nil
	case *Tagged:
		return v == nil
	}
	return false
}

func (s *Leaf) validate(path string, errs *errorList) {
	if !s.Class.IsValid() {
		errs.addf(path, "invalid class %s", s.Class)
	}
	if s.Class == asn1core.ClassUniversal && s.Tag == asn1core.TagEndOfContents {
		errs.addf(path, "end-of-contents cannot be matched")
	}
}

func (s *Any) validate(path string, errs *errorList) {}

func (s *Choice) validate(path string, errs *errorList) {
	if len(s.Alternatives) == 0 {
		errs.addf(path, "CHOICE without alternatives")
	}
	for _, alt := range s.Alternatives {
		if alt.Optional {
			errs.addf(path+"."+alt.Name, "CHOICE alternative cannot be optional")
		}
	}
	validateFields(path, s.Alternatives, errs)
}

func (s *Sequence) validate(path string, errs *errorList) {
	validateFields(path, s.Fields, errs)
}

func (s *Set) validate(path string, errs *errorList) {
	validateFields(path, s.Fields, errs)
}

func validateFields(path string, fields []Field, errs *errorList) {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			errs.addf(path, "field %d has no name", i)
		} else if seen[f.Name] {
			errs.addf(path, "duplicate field %q", f.Name)
		}
		seen[f.Name] = true
		validateChild(path+"."+f.Name, f.Schema, errs)
	}
}

func validateBounds(path string, minCount, maxCount int, errs *errorList) {
	if minCount < 0 {
		errs.addf(path, "min %d is negative", minCount)
	}
	if maxCount < Unbounded {
		errs.addf(path, "max %d is invalid", maxCount)
	}
	if maxCount != Unbounded && maxCount < minCount {
		errs.addf(path, "max %d is less than min %d", maxCount, minCount)
	}
}

func (s *SequenceOf) validate(path string, errs *errorList) {
	validateBounds(path, s.Min, s.Max, errs)
	validateChild(path+"[]", s.Element, errs)
}

func (s *SetOf) validate(path string, errs *errorList) {
	validateBounds(path, s.Min, s.Max, errs)
	validateChild(path+"[]", s.Element, errs)
}

func (s *Tagged) validate(path string, errs *errorList) {
	if s.Mode != ModeExplicit && s.Mode != ModeImplicit {
		errs.addf(path, "tag mode %s is neither explicit nor implicit", s.Mode)
	}
	if !s.Class.IsValid() {
		errs.addf(path, "invalid class %s", s.Class)
	}
	if s.Mode == ModeImplicit && !isNil(s.Inner) {
		if _, _, ok := Identity(s.Inner); !ok {
			errs.addf(path, "%s cannot be implicitly tagged", s.Inner.Kind())
		}
	}
	validateChild(path, s.Inner, errs)
}
