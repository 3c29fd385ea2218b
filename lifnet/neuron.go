// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"fmt"
	"unsafe"

	"github.com/goki/ki/kit"
)

// NeuronVarStart is the byte offset of fields in the Neuron structure
// where the float32 named variables start.
// Note: all non-float32 infrastructure variables must be at the start!
const NeuronVarStart = 4

// lifnet.Neuron holds all of the neuron (unit) level variables.
// This is the discrete-spiking LIF version: a decaying membrane potential
// with binary spike output, plus the gradient temporaries used during the
// backward pass through time.
// All variables accessible via the Unit interface must be float32 and start
// at the top, in contiguous order.
type Neuron struct {
	Flags NeurFlags `desc:"bit flags for binary state variables"`

	Ge     float32 `desc:"total excitatory synaptic input current for the current step -- weighted sum of same-step spikes from all sending layers, plus bias"`
	GeRaw  float32 `desc:"raw excitatory input received from sending units this step -- accumulated by SendSpike, transferred to Ge and zeroed by GeFromInc"`
	Vm     float32 `desc:"membrane potential -- decays by Beta per step and integrates Ge -- reset after spiking"`
	Spike  float32 `desc:"whether neuron has spiked or not on this step (0 or 1)"`
	Ext    float32 `desc:"external input -- drives spiking of input-layer units directly from the encoded spike train"`
	Targ   float32 `desc:"target value: 1 for the true class unit on output layers, 0 otherwise"`
	SpkSum float32 `desc:"total number of spikes emitted over the current trial -- argmax over output units is the predicted class"`
	DVm    float32 `desc:"dL/dVm gradient of the trial loss with respect to the membrane potential, at the step currently being processed in the backward pass"`
	DSpk   float32 `desc:"dL/dSpike gradient accumulated from receiving pathways at the current backward step"`
	DGe    float32 `desc:"dL/dGe gradient with respect to the input current -- drives the weight and bias gradients"`
}

var NeuronVars = []string{"Ge", "GeRaw", "Vm", "Spike", "Ext", "Targ", "SpkSum", "DVm", "DSpk", "DGe"}

var NeuronVarsMap map[string]int

var NeuronVarProps = map[string]string{
	"Vm":   `min:"-2" max:"2"`,
	"DVm":  `auto-scale:"+"`,
	"DSpk": `auto-scale:"+"`,
	"DGe":  `auto-scale:"+"`,
}

func init() {
	NeuronVarsMap = make(map[string]int, len(NeuronVars))
	for i, v := range NeuronVars {
		NeuronVarsMap[v] = i
	}
}

func (nrn *Neuron) VarNames() []string {
	return NeuronVars
}

// NeuronVarIdxByName returns the index of the variable in the Neuron, or error
func NeuronVarIdxByName(varNm string) (int, error) {
	i, ok := NeuronVarsMap[varNm]
	if !ok {
		return -1, fmt.Errorf("Neuron VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in NeuronVars list)
func (nrn *Neuron) VarByIndex(idx int) float32 {
	fv := (*float32)(unsafe.Pointer(uintptr(unsafe.Pointer(nrn)) + uintptr(NeuronVarStart+4*idx)))
	return *fv
}

// VarByName returns variable by name, or error
func (nrn *Neuron) VarByName(varNm string) (float32, error) {
	i, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return 0, err
	}
	return nrn.VarByIndex(i), nil
}

func (nrn *Neuron) HasFlag(flag NeurFlags) bool {
	return (nrn.Flags & (1 << uint32(flag))) != 0
}

func (nrn *Neuron) SetFlag(flag NeurFlags) {
	nrn.Flags |= (1 << uint32(flag))
}

func (nrn *Neuron) ClearFlag(flag NeurFlags) {
	nrn.Flags &^= (1 << uint32(flag))
}

// IsOff returns true if the neuron has been turned off (lesioned)
func (nrn *Neuron) IsOff() bool {
	return nrn.HasFlag(NeurOff)
}

// NeurFlags are bit-flags encoding relevant binary state for neurons
type NeurFlags int32

//go:generate stringer -type=NeurFlags

var KiT_NeurFlags = kit.Enums.AddEnum(NeurFlagsN, kit.BitFlag, nil)

func (ev NeurFlags) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *NeurFlags) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The neuron flags
const (
	// NeurOff flag indicates that this neuron has been turned off (i.e., lesioned)
	NeurOff NeurFlags = iota

	// NeurHasExt means the neuron has an external spike train clamped in ExtRec
	NeurHasExt

	// NeurHasTarg means the neuron has an external target class in its Targ field
	NeurHasTarg

	NeurFlagsN
)
