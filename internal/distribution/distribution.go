// Package distribution provides the random sources used to size generated
// decks. The set of variants is closed: Uniform, Normal, Gamma and Poisson.
package distribution

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind identifies a distribution variant by its spec prefix.
type Kind byte

const (
	KindUniform Kind = 'u'
	KindNormal  Kind = 'n'
	KindGamma   Kind = 'g'
	KindPoisson Kind = 'p'
)

func (k Kind) String() string {
	switch k {
	case KindUniform:
		return "uniform"
	case KindNormal:
		return "normal"
	case KindGamma:
		return "gamma"
	case KindPoisson:
		return "poisson"
	}
	return fmt.Sprintf("kind(%q)", byte(k))
}

// Kinds lists every variant.
func Kinds() []Kind {
	return []Kind{KindUniform, KindNormal, KindGamma, KindPoisson}
}

// Distribution is a parametrised random source plus its analytic mean.
type Distribution interface {
	// Sample draws one value from the shared engine.
	Sample() float64
	// Mean is the analytic expectation. It never touches the engine.
	Mean() float64
	Kind() Kind
	// String renders the distribution as a spec accepted by Parse.
	String() string

	sealed()
}

// Uniform draws integers from the closed range [Min, Max].
type Uniform struct {
	Min, Max int64
}

// NewUniform returns a Uniform over [min, max]. Bounds are not checked.
func NewUniform(min, max int64) Uniform {
	ensureSeeded()
	return Uniform{Min: min, Max: max}
}

// Sample returns an integer in [Min, Max]. Inverted bounds sample [Max, Min].
func (u Uniform) Sample() float64 {
	lo, hi := u.Min, u.Max
	if hi < lo {
		lo, hi = hi, lo
	}
	span := uint64(hi) - uint64(lo) + 1
	if span == 0 {
		return float64(int64(rng().Uint64()))
	}
	return float64(lo + int64(rng().Uint64n(span)))
}

func (u Uniform) Mean() float64 {
	return (float64(u.Min) + float64(u.Max)) / 2
}

func (Uniform) Kind() Kind { return KindUniform }

func (u Uniform) String() string {
	return fmt.Sprintf("u:%d:%d", u.Min, u.Max)
}

func (Uniform) sealed() {}

// Normal is a Gaussian with mean Mu and standard deviation Sigma.
type Normal struct {
	Mu, Sigma float64
}

func NewNormal(mu, sigma float64) Normal {
	ensureSeeded()
	return Normal{Mu: mu, Sigma: sigma}
}

func (n Normal) Sample() float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma, Src: source()}.Rand()
}

func (n Normal) Mean() float64 { return n.Mu }

func (Normal) Kind() Kind { return KindNormal }

func (n Normal) String() string {
	return "n:" + formatFloat(n.Mu) + ":" + formatFloat(n.Sigma)
}

func (Normal) sealed() {}

// Gamma uses the shape/scale parametrisation; its mean is Shape*Scale.
type Gamma struct {
	Shape, Scale float64
}

func NewGamma(shape, scale float64) Gamma {
	ensureSeeded()
	return Gamma{Shape: shape, Scale: scale}
}

// Sample draws from Gamma(Shape, Scale). A non-positive shape or scale has
// no support and yields 0.
func (g Gamma) Sample() float64 {
	if g.Shape <= 0 || g.Scale <= 0 {
		return 0
	}
	return distuv.Gamma{Alpha: g.Shape, Beta: 1 / g.Scale, Src: source()}.Rand()
}

func (g Gamma) Mean() float64 { return g.Shape * g.Scale }

func (Gamma) Kind() Kind { return KindGamma }

func (g Gamma) String() string {
	return "g:" + formatFloat(g.Shape) + ":" + formatFloat(g.Scale)
}

func (Gamma) sealed() {}

// Poisson draws non-negative integers with mean Lambda.
type Poisson struct {
	Lambda float64
}

func NewPoisson(lambda float64) Poisson {
	ensureSeeded()
	return Poisson{Lambda: lambda}
}

// Sample returns a Poisson count. Lambda <= 0 always yields 0.
func (p Poisson) Sample() float64 {
	return distuv.Poisson{Lambda: p.Lambda, Src: source()}.Rand()
}

func (p Poisson) Mean() float64 { return p.Lambda }

func (Poisson) Kind() Kind { return KindPoisson }

func (p Poisson) String() string {
	return "p:" + formatFloat(p.Lambda)
}

func (Poisson) sealed() {}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
