// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"github.com/chewxy/math32"
	"github.com/emer/etable/minmax"
	"github.com/goki/ki/kit"
	"github.com/lifnet/lifnet/surrogate"
)

///////////////////////////////////////////////////////////////////////
//  act.go contains the activation params and functions for lifnet

// lifnet.LIFParams contains the leaky integrate-and-fire neuron parameters
// and step functions, at the neuron level.
// This is included in lifnet.Layer to drive the computation.
// The per-step update is: Vm <- Beta * Vm + Ge - reset, with a binary spike
// emitted whenever Vm exceeds Thr.  The reset term is driven by the spike
// from the previous step: Thr is subtracted for SubReset (default), or the
// decayed potential is zeroed for ZeroReset.
type LIFParams struct {
	Beta    float32          `def:"0.95" min:"0" max:"1" desc:"membrane potential decay factor per time step -- the fraction of Vm retained from the previous step before input is added"`
	Thr     float32          `def:"1" desc:"firing threshold on the membrane potential -- a spike is emitted whenever Vm > Thr"`
	Reset   ResetTypes       `desc:"how the membrane potential is reset on the step after a spike"`
	Sur     surrogate.Params `view:"inline" desc:"surrogate gradient function standing in for the spike threshold derivative in the backward pass"`
	Init    ActInitParams    `view:"inline" desc:"initial values for key neuron state variables -- initialized at start of trial with InitActs or DecayState"`
	VmRange minmax.F32       `view:"inline" desc:"range for Vm membrane potential -- [-10, 10] by default -- guards against runaway potentials under extreme parameters"`
}

func (ac *LIFParams) Defaults() {
	ac.Beta = 0.95
	ac.Thr = 1
	ac.Reset = SubReset
	ac.Sur.Defaults()
	ac.Init.Defaults()
	ac.VmRange.Set(-10, 10)
	ac.Update()
}

// Update must be called after any changes to parameters
func (ac *LIFParams) Update() {
	ac.Sur.Update()
	ac.Init.Update()
}

///////////////////////////////////////////////////////////////////////
//  Init

// InitGInc initializes the Ge excitatory input accumulation states.
// called at start of trial, and at start of each step via GeFromInc.
func (ac *LIFParams) InitGInc(nrn *Neuron) {
	nrn.Ge = ac.Init.Ge
	nrn.GeRaw = 0
}

// InitGrads initializes the gradient temporaries, called at start of trial
// before a new forward + backward pass.
func (ac *LIFParams) InitGrads(nrn *Neuron) {
	nrn.DVm = 0
	nrn.DSpk = 0
	nrn.DGe = 0
}

// DecayState decays the activation state toward initial values in
// proportion to given decay parameter.  Called with ac.Init.Decay by Layer
// during TrialInit.  With the default Decay = 1 this is a full reset of the
// membrane state, as required for independent trials.
func (ac *LIFParams) DecayState(nrn *Neuron, decay float32) {
	if decay > 0 {
		nrn.Vm -= decay * (nrn.Vm - ac.Init.Vm)
		nrn.Ge -= decay * (nrn.Ge - ac.Init.Ge)
	}
	nrn.Spike = 0
	nrn.SpkSum = 0
	ac.InitGrads(nrn)
}

// InitActs initializes activation state in neuron -- called during
// InitWeights but otherwise not automatically called (DecayState is used
// instead)
func (ac *LIFParams) InitActs(nrn *Neuron) {
	nrn.Vm = ac.Init.Vm
	nrn.Spike = 0
	nrn.SpkSum = 0
	nrn.Ext = 0
	nrn.Targ = 0
	ac.InitGInc(nrn)
	ac.InitGrads(nrn)
}

///////////////////////////////////////////////////////////////////////
//  Step

// GeFromInc integrates the Ge input current from the raw increments sent by
// spiking units this step, plus the given bias weight, and clears the raw
// accumulator for the next step.
func (ac *LIFParams) GeFromInc(nrn *Neuron, bias float32) {
	nrn.Ge = nrn.GeRaw + bias
	nrn.GeRaw = 0
}

// VmFromGe computes the new membrane potential from the decayed previous
// potential, the integrated input current, and the reset driven by the
// previous step's spike.
func (ac *LIFParams) VmFromGe(nrn *Neuron) {
	var nwVm float32
	switch {
	case ac.Reset == ZeroReset && nrn.Spike > 0:
		nwVm = nrn.Ge
	default:
		nwVm = ac.Beta*nrn.Vm + nrn.Ge - ac.Thr*nrn.Spike
	}
	nrn.Vm = ac.VmRange.ClipVal(nwVm)
}

// SpikeFromVm computes the binary spike output from the membrane potential,
// and accumulates the per-trial spike count.
func (ac *LIFParams) SpikeFromVm(nrn *Neuron) {
	if nrn.Vm > ac.Thr {
		nrn.Spike = 1
		nrn.SpkSum += 1
	} else {
		nrn.Spike = 0
	}
}

// SpikeDeriv returns the surrogate derivative of the spike output with
// respect to the membrane potential, at the given recorded Vm value.
func (ac *LIFParams) SpikeDeriv(vm float32) float32 {
	return ac.Sur.Deriv(vm - ac.Thr)
}

//////////////////////////////////////////////////////////////////////////////////////
//  ActInitParams

// ActInitParams are initial values for key neuron state variables.
// Initialized at start of trial with InitActs or DecayState.
type ActInitParams struct {
	Decay float32 `def:"1" max:"1" min:"0" desc:"proportion to decay membrane state toward initial values at start of every trial -- 1 = full reset, required for trials to be independent"`
	Vm    float32 `def:"0" desc:"initial membrane potential -- 0 for the standard normalized LIF model"`
	Ge    float32 `def:"0" desc:"baseline level of excitatory input current -- Ge is initialized to this value, capturing tonic background input not represented in the model"`
}

func (ai *ActInitParams) Update() {
}

func (ai *ActInitParams) Defaults() {
	ai.Decay = 1
	ai.Vm = 0
	ai.Ge = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  ResetTypes

// ResetTypes are different ways of resetting the membrane potential after
// a spike
type ResetTypes int

//go:generate stringer -type=ResetTypes

var KiT_ResetTypes = kit.Enums.AddEnum(ResetTypesN, kit.NotBitFlag, nil)

func (ev ResetTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ResetTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// SubReset subtracts the firing threshold from the decayed membrane
	// potential on the step after a spike -- retains any input above
	// threshold, giving a more graded response to strong drive
	SubReset ResetTypes = iota

	// ZeroReset discards the decayed membrane potential entirely on the
	// step after a spike, starting over from the new input alone
	ZeroReset

	ResetTypesN
)

// note: kept as a helper for parameter exploration -- the surrogate slope
// interacts with Beta in determining how far gradients propagate in time.
func (ac *LIFParams) EffTimeConst() float32 {
	if ac.Beta >= 1 {
		return math32.Inf(1)
	}
	return 1 / (1 - ac.Beta)
}
