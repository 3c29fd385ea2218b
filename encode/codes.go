// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

// Codes are the spike-encoding schemes for converting static patterns into
// spike trains
type Codes int

//go:generate stringer -type=Codes

var KiT_Codes = kit.Enums.AddEnum(CodesN, kit.NotBitFlag, nil)

func (ev Codes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Codes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Latency coding: one spike per unit, earlier for stronger inputs
	Latency Codes = iota

	// Rate coding: Bernoulli spikes each step, more for stronger inputs
	Rate

	CodesN
)

// Params selects and parameterizes the spike encoding of input patterns
type Params struct {
	Code    Codes         `desc:"which encoding scheme to use"`
	Latency LatencyParams `view:"inline" desc:"parameters for latency coding"`
	Rate    RateParams    `view:"inline" desc:"parameters for rate coding"`
}

func (ep *Params) Defaults() {
	ep.Code = Latency
	ep.Latency.Defaults()
	ep.Rate.Defaults()
}

func (ep *Params) Update() {
	ep.Latency.Update()
	ep.Rate.Update()
}

// Encode converts the given static pattern into a spike train over nsteps
// time steps, into the given tensor which is shaped [nsteps, pattern len].
// Pattern values are expected in the 0..1 range.
func (ep *Params) Encode(spikes *etensor.Float32, pat etensor.Tensor, nsteps int) {
	switch ep.Code {
	case Rate:
		ep.Rate.Encode(spikes, pat, nsteps)
	default:
		ep.Latency.Encode(spikes, pat, nsteps)
	}
}
