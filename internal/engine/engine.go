// Package engine bundles the scoring configuration into ready-to-use scorers,
// aggregator and composer, and lets it be swapped atomically at runtime.
package engine

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"sync/atomic"

	"ims/internal/compliance"
	"ims/internal/dashboard"
	"ims/internal/scoring"
)

// Tables is the tunable part of scoring. Risk and aspect bands are configured
// independently.
type Tables struct {
	Risk     scoring.Table              `yaml:"risk" json:"risk"`
	Aspect   scoring.Table              `yaml:"aspect" json:"aspect"`
	Exposure compliance.ExposureWeights `yaml:"exposure" json:"exposure"`
}

func DefaultTables() Tables {
	return Tables{
		Risk:     scoring.DefaultRiskTable(),
		Aspect:   scoring.DefaultAspectTable(),
		Exposure: compliance.DefaultExposureWeights(),
	}
}

// Engine is immutable once built.
type Engine struct {
	Tables Tables
	// Fingerprint identifies Tables; equal tables give equal fingerprints in
	// every process.
	Fingerprint string
	Scorers     scoring.Scorers
	Aggregator  *compliance.Aggregator
	Composer    *dashboard.Composer
}

func New(t Tables) (*Engine, error) {
	risk, err := scoring.NewOrdinalScorer(t.Risk)
	if err != nil {
		return nil, fmt.Errorf("risk table: %w", err)
	}
	aspect, err := scoring.NewOrdinalScorer(t.Aspect)
	if err != nil {
		return nil, fmt.Errorf("aspect table: %w", err)
	}
	if t.Exposure == nil {
		t.Exposure = compliance.DefaultExposureWeights()
	}
	if err := t.Exposure.Validate(); err != nil {
		return nil, err
	}
	fp, err := fingerprint(t)
	if err != nil {
		return nil, err
	}
	agg := compliance.NewAggregator(risk, t.Exposure)
	return &Engine{
		Tables:      t,
		Fingerprint: fp,
		Scorers:     scoring.Scorers{Risk: risk, Aspect: aspect},
		Aggregator:  agg,
		Composer:    dashboard.NewComposer(risk, agg),
	}, nil
}

// fingerprint hashes the JSON form of t. Map keys marshal sorted, so the
// result does not depend on exposure map order.
func fingerprint(t Tables) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("fingerprint tables: %w", err)
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return strconv.FormatUint(h.Sum64(), 16), nil
}

func Default() *Engine {
	e, err := New(DefaultTables())
	if err != nil {
		panic(err)
	}
	return e
}

// Holder publishes the current engine. Readers take one Current() per request
// so a reload never mixes two configurations inside a response.
type Holder struct {
	p atomic.Pointer[Engine]
}

func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.p.Store(e)
	return h
}

func (h *Holder) Current() *Engine { return h.p.Load() }

func (h *Holder) Swap(e *Engine) { h.p.Store(e) }
