// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/etable/etensor"
)

// RateParams converts input intensities into Bernoulli spike trains: at
// every time step, each unit spikes independently with probability
// proportional to its intensity.
type RateParams struct {
	Gain float32 `def:"1" min:"0" desc:"multiplier on intensity for the per-step spike probability -- resulting probability is clipped to 0..1"`
}

func (rt *RateParams) Defaults() {
	rt.Gain = 1
}

func (rt *RateParams) Update() {
}

// P returns the per-step spike probability for given intensity
func (rt *RateParams) P(x float32) float32 {
	p := rt.Gain * x
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Encode converts the given static pattern into a rate-coded spike train
// over nsteps time steps, into the given tensor which is shaped
// [nsteps, pattern len]
func (rt *RateParams) Encode(spikes *etensor.Float32, pat etensor.Tensor, nsteps int) {
	n := pat.Len()
	spikes.SetShape([]int{nsteps, n}, nil, []string{"Step", "Unit"})
	for i := 0; i < n; i++ {
		p := float64(rt.P(float32(pat.FloatVal1D(i))))
		for st := 0; st < nsteps; st++ {
			if erand.BoolP(p, -1) {
				spikes.Values[st*n+i] = 1
			} else {
				spikes.Values[st*n+i] = 0
			}
		}
	}
}
