package distribution

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmptySpec    = errors.New("empty distribution spec")
	ErrUnknownKind  = errors.New("unknown distribution kind")
	ErrMissingField = errors.New("missing distribution parameter")
	ErrBadNumber    = errors.New("invalid distribution parameter")
)

// SpecError describes why a distribution spec could not be parsed.
type SpecError struct {
	Spec  string
	Field string
	Err   error
}

func (e *SpecError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("distribution spec %q: %v", e.Spec, e.Err)
	}
	return fmt.Sprintf("distribution spec %q: %s: %v", e.Spec, e.Field, e.Err)
}

func (e *SpecError) Unwrap() error { return e.Err }

// Parse builds a Distribution from a colon separated spec:
//
//	u:MIN:MAX | n:MEAN:STDDEV | g:SHAPE:SCALE | p:MEAN
//
// Only the first character of the first token selects the variant, so
// "uniform:1:10" is accepted as well. Fields past the ones a variant needs
// are ignored.
func Parse(spec string) (Distribution, error) {
	fields := strings.Split(strings.TrimSpace(spec), ":")
	if fields[0] == "" {
		return nil, &SpecError{Spec: spec, Err: ErrEmptySpec}
	}

	p := specParser{spec: spec, fields: fields}
	switch Kind(fields[0][0]) {
	case KindUniform:
		min := p.int(1, "min")
		max := p.int(2, "max")
		if p.err != nil {
			return nil, p.err
		}
		return NewUniform(min, max), nil
	case KindNormal:
		mean := p.float(1, "mean")
		stddev := p.float(2, "stddev")
		if p.err != nil {
			return nil, p.err
		}
		return NewNormal(mean, stddev), nil
	case KindGamma:
		shape := p.float(1, "shape")
		scale := p.float(2, "scale")
		if p.err != nil {
			return nil, p.err
		}
		return NewGamma(shape, scale), nil
	case KindPoisson:
		mean := p.float(1, "mean")
		if p.err != nil {
			return nil, p.err
		}
		return NewPoisson(mean), nil
	}
	return nil, &SpecError{Spec: spec, Field: fields[0], Err: ErrUnknownKind}
}

// MustParse is Parse for specs known to be valid, such as built-in defaults.
func MustParse(spec string) Distribution {
	d, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return d
}

// specParser records the first failure so variants can read every field
// before checking.
type specParser struct {
	spec   string
	fields []string
	err    error
}

func (p *specParser) field(i int, name string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	if i >= len(p.fields) || strings.TrimSpace(p.fields[i]) == "" {
		p.err = &SpecError{Spec: p.spec, Field: name, Err: ErrMissingField}
		return "", false
	}
	return strings.TrimSpace(p.fields[i]), true
}

func (p *specParser) int(i int, name string) int64 {
	raw, ok := p.field(i, name)
	if !ok {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.err = &SpecError{Spec: p.spec, Field: name, Err: fmt.Errorf("%w: %q", ErrBadNumber, raw)}
		return 0
	}
	return v
}

func (p *specParser) float(i int, name string) float64 {
	raw, ok := p.field(i, name)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = &SpecError{Spec: p.spec, Field: name, Err: fmt.Errorf("%w: %q", ErrBadNumber, raw)}
		return 0
	}
	return v
}
