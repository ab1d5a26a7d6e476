package sipm

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// PRNG is the random-number capability the event engine treats as a
// black box: uniform, Gaussian, Poisson, Exponential and bounded-integer
// draws.
type PRNG interface {
	Uniform() float64
	Gaussian(mu, sigma float64) float64
	GaussianN(mu, sigma float64, n int) []float64
	Exponential(mean float64) float64
	Poisson(mean float64) uint64
	Integer(max int32) int32
}

// DefaultPRNG is the concrete PRNG a Sensor uses unless the caller
// supplies its own. It draws Gaussian, Poisson and Exponential deviates
// from gonum's stat/distuv distributions over a single x/exp/rand
// source, so a Sensor seeded with the same value always reproduces the
// same sequence of draws.
type DefaultPRNG struct {
	src rand.Source
	rng *rand.Rand
}

// NewPRNG builds a DefaultPRNG seeded from seed. Two sensors built with
// the same seed draw identical sequences.
func NewPRNG(seed uint64) *DefaultPRNG {
	src := rand.NewSource(seed)
	return &DefaultPRNG{src: src, rng: rand.New(src)}
}

func (p *DefaultPRNG) Uniform() float64 {
	return p.rng.Float64()
}

func (p *DefaultPRNG) Gaussian(mu, sigma float64) float64 {
	if sigma == 0 {
		return mu
	}
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: p.src}.Rand()
}

func (p *DefaultPRNG) GaussianN(mu, sigma float64, n int) []float64 {
	out := make([]float64, n)
	if sigma == 0 {
		for i := range out {
			out[i] = mu
		}
		return out
	}
	d := distuv.Normal{Mu: mu, Sigma: sigma, Src: p.src}
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}

func (p *DefaultPRNG) Exponential(mean float64) float64 {
	if mean <= 0 {
		return 0
	}
	return distuv.Exponential{Rate: 1 / mean, Src: p.src}.Rand()
}

func (p *DefaultPRNG) Poisson(mean float64) uint64 {
	if mean <= 0 {
		return 0
	}
	n := distuv.Poisson{Lambda: mean, Src: p.src}.Rand()
	return uint64(n + 0.5)
}

// Integer returns a uniform draw in [0, max], inclusive on both ends as
// required by the hit-cell and neighbour-selection samplers.
func (p *DefaultPRNG) Integer(max int32) int32 {
	if max <= 0 {
		return 0
	}
	return int32(p.rng.Int63n(int64(max) + 1))
}
