// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"testing"
)

func TestAdamFirstStep(t *testing.T) {
	ad := AdamParams{}
	ad.Defaults()

	// on the first update the bias-corrected moments reduce to the raw
	// gradient, so the step is Lrate * g / (|g| + eps) ~= Lrate * sign(g)
	for _, g := range []float32{0.5, -0.25, 2} {
		sy := Synapse{Wt: 1, DWt: g}
		ad.WtFromDWt(&sy, 1)
		exp := 1 - ad.Lrate*sign32(g)
		if absf32(sy.Wt-exp) > 1e-6 {
			t.Errorf("g %v: Wt %v != expected %v", g, sy.Wt, exp)
		}
		if sy.DWt != 0 {
			t.Errorf("g %v: DWt should be cleared after update, got %v", g, sy.DWt)
		}
	}
}

func TestAdamMoments(t *testing.T) {
	ad := AdamParams{}
	ad.Defaults()
	sy := Synapse{DWt: 1}
	ad.WtFromDWt(&sy, 1)
	if absf32(sy.M-0.1) > 1e-6 {
		t.Errorf("M after first update: %v != 0.1", sy.M)
	}
	if absf32(sy.V-0.001) > 1e-7 {
		t.Errorf("V after first update: %v != 0.001", sy.V)
	}
	// zero gradient: moments decay, weight still moves slightly along M
	wt1 := sy.Wt
	ad.WtFromDWt(&sy, 2)
	if absf32(sy.M-0.09) > 1e-6 {
		t.Errorf("M after decay: %v != 0.09", sy.M)
	}
	if sy.Wt >= wt1 {
		t.Errorf("positive momentum should keep decreasing Wt: %v -> %v", wt1, sy.Wt)
	}
}

func TestWtInitScale(t *testing.T) {
	// zero variance: all weights at the (zero) mean regardless of fan-in
	wp := WtInitParams{}
	wp.Defaults()
	wp.Var = 0
	for i := 0; i < 10; i++ {
		if w := wp.Gen(-1); w != 0 {
			t.Errorf("zero-variance init should generate the mean, got %v", w)
		}
	}
}

func sign32(x float32) float32 {
	if x < 0 {
		return -1
	}
	return 1
}
