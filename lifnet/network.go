// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/prjn"
)

// lifnet.Network implements the feed-forward spiking network: layers run
// the LIF dynamics forward over the steps of a trial, and the backward pass
// through time accumulates gradients that the Adam optimizer applies.
type Network struct {
	NetworkStru
	AdamT int `inactive:"+" desc:"count of optimizer updates so far -- shared across all synapses for the Adam bias-correction schedule"`
}

// NewNetwork returns a new lifnet Network
func NewNetwork(name string) *Network {
	nt := &Network{}
	nt.InitName(name)
	return nt
}

// Defaults sets all the default parameters for all layers and pathways
func (nt *Network) Defaults() {
	nt.AdamT = 0
	for _, ly := range nt.Layers {
		ly.Defaults()
	}
}

// UpdateParams updates all the derived parameters if any have changed, for
// all layers and pathways
func (nt *Network) UpdateParams() {
	for _, ly := range nt.Layers {
		ly.UpdateParams()
	}
}

// ConnectLayersFull connects two layers with a full all-to-all forward
// pathway, the standard connectivity for this network
func (nt *Network) ConnectLayersFull(send, recv *Layer) *Path {
	return nt.ConnectLayers(send, recv, prjn.NewFull(), emer.Forward)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitWeights initializes synaptic weights and all other associated
// long-term state variables including the Adam moments, and resets the
// optimizer update counter
func (nt *Network) InitWeights() {
	nt.AdamT = 0
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.InitWeights()
	}
}

// InitGrads initializes the accumulated gradients and per-unit gradient
// temporaries -- called when discarding a partial batch
func (nt *Network) InitGrads() {
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.InitGrads()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Trial-level running

// TrialInit handles all initialization at start of new trial: resets the
// membrane state and gradient temporaries, sizes the recording buffers,
// and starts the trial's step counter.  Accumulated weight gradients carry
// across trials within a minibatch.
func (nt *Network) TrialInit(tm *Time) {
	tm.TrialStart()
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.TrialInit(tm)
	}
}

// StepCycle runs one time step of the forward dynamics over all layers, in
// feed-forward order, so that spikes emitted this step reach receivers
// within the same step.  Does not increment the step counter: caller calls
// tm.StepInc after.
func (nt *Network) StepCycle(tm *Time) {
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.StepCycle(tm)
	}
}

// Backward runs the backward pass through time over the recorded trial:
// steps in reverse order, layers in reverse feed-forward order within each
// step, accumulating weight and bias gradients.  Call after the forward
// steps of a trial complete.
func (nt *Network) Backward(tm *Time) {
	nl := len(nt.Layers)
	for step := tm.NSteps - 1; step >= 0; step-- {
		for li := nl - 1; li >= 0; li-- {
			ly := nt.Layers[li]
			if ly.IsOff() {
				continue
			}
			ly.BackwardStep(step)
		}
	}
}

// WtFromDWt updates the weights from accumulated gradients via the Adam
// optimizer, and clears the gradients.  Call once per minibatch.
func (nt *Network) WtFromDWt() {
	nt.AdamT++
	for _, ly := range nt.Layers {
		if ly.IsOff() {
			continue
		}
		ly.WtFromDWt(nt.AdamT)
	}
}

// TrialLoss returns the total cross-entropy loss accumulated over the
// current trial, summed over all Target layers
func (nt *Network) TrialLoss() float32 {
	loss := float32(0)
	for _, ly := range nt.Layers {
		if ly.IsOff() || ly.Typ != emer.Target {
			continue
		}
		loss += ly.TrialLoss
	}
	return loss
}
