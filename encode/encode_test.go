// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"math/rand"
	"testing"

	"github.com/emer/etable/etensor"
)

func pattern(vals ...float32) *etensor.Float32 {
	pat := etensor.NewFloat32([]int{len(vals)}, nil, nil)
	copy(pat.Values, vals)
	return pat
}

// spikeTimes returns the step of the single spike per unit, -1 if none
func spikeTimes(t *testing.T, spikes *etensor.Float32) []int {
	nsteps := spikes.Dim(0)
	n := spikes.Dim(1)
	times := make([]int, n)
	for i := range times {
		times[i] = -1
	}
	for st := 0; st < nsteps; st++ {
		for i := 0; i < n; i++ {
			if spikes.Values[st*n+i] == 0 {
				continue
			}
			if times[i] >= 0 {
				t.Fatalf("unit %v spiked more than once", i)
			}
			times[i] = st
		}
	}
	return times
}

func TestLatencyDefaults(t *testing.T) {
	lt := LatencyParams{}
	lt.Defaults()
	if !lt.Clip || !lt.Normalize {
		t.Fatalf("latency defaults: Clip %v, Normalize %v -- both should be on", lt.Clip, lt.Normalize)
	}
	spikes := &etensor.Float32{}
	nsteps := 30

	// raw times 0, 7.25, 14.5 rescale by exactly 2 to span the window
	lt.Encode(spikes, pattern(1, 0.75, 0.5, 0), nsteps)
	times := spikeTimes(t, spikes)
	if times[0] != 0 {
		t.Errorf("full intensity should spike on first step, got %v", times[0])
	}
	if times[1] != 14 {
		t.Errorf("0.75 intensity spike time: %v != 14", times[1])
	}
	if times[2] != nsteps-1 {
		t.Errorf("weakest supra-threshold input should spike on last step, got %v", times[2])
	}
	// sub-threshold dropped entirely by default
	if times[3] != -1 {
		t.Errorf("sub-threshold input should not spike, got step %v", times[3])
	}
}

func TestLatencyLinear(t *testing.T) {
	lt := LatencyParams{}
	lt.Defaults()
	lt.Clip = false
	lt.Normalize = false
	spikes := &etensor.Float32{}
	nsteps := 30

	lt.Encode(spikes, pattern(1, 0.5, 0.1, 0), nsteps)
	times := spikeTimes(t, spikes)

	if times[0] != 0 {
		t.Errorf("full intensity should spike on first step, got %v", times[0])
	}
	// (1 - 0.5) * 29 = 14.5 -> step 14
	if times[1] != 14 {
		t.Errorf("half intensity spike time: %v != 14", times[1])
	}
	if !(times[0] < times[1] && times[1] < times[2]) {
		t.Errorf("stronger inputs must spike earlier: %v", times)
	}
	// sub-threshold without clip: last step
	if times[3] != nsteps-1 {
		t.Errorf("sub-threshold input should spike on last step, got %v", times[3])
	}
}

func TestLatencyClip(t *testing.T) {
	lt := LatencyParams{}
	lt.Defaults()
	lt.Clip = true
	spikes := &etensor.Float32{}

	lt.Encode(spikes, pattern(0.5, 0.005, 0), 30)
	times := spikeTimes(t, spikes)
	if times[0] < 0 {
		t.Errorf("supra-threshold input should spike")
	}
	if times[1] >= 0 || times[2] >= 0 {
		t.Errorf("clip should drop sub-threshold spikes, got %v", times)
	}
}

func TestLatencyRC(t *testing.T) {
	lt := LatencyParams{}
	lt.Defaults()
	lt.Mode = RC
	lt.Normalize = true
	spikes := &etensor.Float32{}
	nsteps := 30

	lt.Encode(spikes, pattern(1, 0.5, 0.05), nsteps)
	times := spikeTimes(t, spikes)
	if !(times[0] < times[1] && times[1] < times[2]) {
		t.Errorf("stronger inputs must spike earlier: %v", times)
	}
	// normalized times span the full window (last step can truncate by one)
	if times[0] != 0 || times[2] < nsteps-2 {
		t.Errorf("normalize should span the full window: %v", times)
	}
}

func TestRate(t *testing.T) {
	rand.Seed(3)
	rt := RateParams{}
	rt.Defaults()
	spikes := &etensor.Float32{}
	nsteps := 1000

	rt.Encode(spikes, pattern(0, 0.2, 0.8, 1), nsteps)
	counts := make([]int, 4)
	for st := 0; st < nsteps; st++ {
		for i := 0; i < 4; i++ {
			if spikes.Values[st*4+i] > 0 {
				counts[i]++
			}
		}
	}
	if counts[0] != 0 {
		t.Errorf("zero intensity should never spike, got %v", counts[0])
	}
	if counts[3] != nsteps {
		t.Errorf("full intensity should spike every step, got %v", counts[3])
	}
	// expected counts 200 and 800, well within 4 sigma
	if counts[1] < 140 || counts[1] > 260 {
		t.Errorf("rate for 0.2 intensity out of range: %v", counts[1])
	}
	if counts[2] < 740 || counts[2] > 860 {
		t.Errorf("rate for 0.8 intensity out of range: %v", counts[2])
	}
}

func TestCodesParams(t *testing.T) {
	ep := Params{}
	ep.Defaults()
	if ep.Code != Latency {
		t.Errorf("default code should be latency")
	}
	spikes := &etensor.Float32{}
	ep.Encode(spikes, pattern(1, 0), 10)
	if spikes.Dim(0) != 10 || spikes.Dim(1) != 2 {
		t.Errorf("encoded shape: %v", spikes.Shapes())
	}
}
