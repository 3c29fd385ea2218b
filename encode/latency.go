// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/kit"
)

// LatencyModes are the ways of mapping input intensity to spike time
type LatencyModes int

//go:generate stringer -type=LatencyModes

var KiT_LatencyModes = kit.Enums.AddEnum(LatencyModesN, kit.NotBitFlag, nil)

func (ev LatencyModes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *LatencyModes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Linear maps intensity to spike time as t = (1 - x) * (nsteps - 1),
	// so x = 1 fires on the first step and x = 0 on the last
	Linear LatencyModes = iota

	// RC maps intensity through the charging time of an RC membrane to
	// reach threshold: t = Tau * log(x / (x - Thr)) -- stronger inputs
	// charge faster and fire earlier, with a logarithmic stretch
	RC

	LatencyModesN
)

// LatencyParams converts input intensities into single spike times:
// stronger inputs spike earlier.  Each unit spikes exactly once per trial
// (or not at all, for sub-threshold inputs with Clip on).
type LatencyParams struct {
	Mode      LatencyModes `desc:"how to map intensity to spike time"`
	Tau       float32      `def:"5" min:"0" desc:"time constant for RC mode -- stretches the time axis"`
	Thr       float32      `def:"0.01" min:"0" desc:"minimum intensity: inputs at or below this are treated as sub-threshold"`
	Clip      bool         `def:"true" desc:"drop spikes for sub-threshold inputs entirely -- otherwise they fire on the last step"`
	Normalize bool         `def:"true" desc:"rescale the spike times to span the full trial window -- especially useful for RC mode, where raw times bunch up early"`
}

func (lt *LatencyParams) Defaults() {
	lt.Mode = Linear
	lt.Tau = 5
	lt.Thr = 0.01
	lt.Clip = true
	lt.Normalize = true
}

func (lt *LatencyParams) Update() {
}

// Time returns the raw (unnormalized) spike time for given intensity,
// before clamping into the step range.  Sub-threshold inputs return
// +Inf.
func (lt *LatencyParams) Time(x float32, nsteps int) float32 {
	if x <= lt.Thr {
		return math32.Inf(1)
	}
	switch lt.Mode {
	case RC:
		return lt.Tau * math32.Log(x/(x-lt.Thr))
	default:
		if x > 1 {
			x = 1
		}
		return (1 - x) * float32(nsteps-1)
	}
}

// Encode converts the given static pattern into a latency-coded spike
// train over nsteps time steps, into the given tensor which is shaped
// [nsteps, pattern len]
func (lt *LatencyParams) Encode(spikes *etensor.Float32, pat etensor.Tensor, nsteps int) {
	n := pat.Len()
	spikes.SetShape([]int{nsteps, n}, nil, []string{"Step", "Unit"})
	for i := range spikes.Values {
		spikes.Values[i] = 0
	}
	times := make([]float32, n)
	mn := math32.Inf(1)
	mx := math32.Inf(-1)
	for i := 0; i < n; i++ {
		tv := lt.Time(float32(pat.FloatVal1D(i)), nsteps)
		times[i] = tv
		if math32.IsInf(tv, 1) {
			continue
		}
		if tv < mn {
			mn = tv
		}
		if tv > mx {
			mx = tv
		}
	}
	if lt.Normalize && mx > mn {
		sc := float32(nsteps-1) / (mx - mn)
		for i := range times {
			if !math32.IsInf(times[i], 1) {
				times[i] = (times[i] - mn) * sc
			}
		}
	}
	for i := 0; i < n; i++ {
		tv := times[i]
		if math32.IsInf(tv, 1) {
			if lt.Clip {
				continue
			}
			tv = float32(nsteps - 1)
		}
		st := int(tv)
		if st < 0 {
			st = 0
		}
		if st > nsteps-1 {
			st = nsteps - 1
		}
		spikes.Values[st*n+i] = 1
	}
}
