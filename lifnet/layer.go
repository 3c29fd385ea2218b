// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"fmt"
	"io"
	"log"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/params"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/indent"
)

// lifnet.Layer implements the discrete-time LIF spiking computation for a
// layer of units.  The layer type determines its role: Input layers are
// clamped to an externally-applied spike train, Hidden layers run the LIF
// dynamics, and Target layers additionally accumulate the per-step
// cross-entropy loss on their membrane potentials and seed the backward
// pass.  Per-step spike and membrane histories are recorded over the trial
// for use in the backward pass through time.
type Layer struct {
	LayerStru
	Act       LIFParams       `view:"add-fields" desc:"LIF activation parameters and methods for computing neuron state"`
	Learn     LearnParams     `view:"add-fields" desc:"bias weight initialization and optimizer parameters"`
	Neurons   []Neuron        `desc:"slice of neuron state for this layer -- flat list of len = Shp.Len()"`
	Bias      []Synapse       `view:"-" desc:"per-unit bias weights, as a synapse per unit so the same optimizer applies"`
	SpkRec    etensor.Float32 `view:"-" desc:"recorded spikes over the trial: [step, unit]"`
	VmRec     etensor.Float32 `view:"-" desc:"recorded membrane potentials over the trial: [step, unit]"`
	ExtRec    etensor.Float32 `view:"-" desc:"externally-applied spike train for Input layers: [step, unit]"`
	TrialLoss float32         `inactive:"+" desc:"for Target layers, total cross-entropy loss accumulated over the steps of the current trial"`

	probs []float32 // softmax scratch, Target layers only
}

func (ly *Layer) Defaults() {
	ly.Act.Defaults()
	ly.Learn.Defaults()
	for _, pj := range ly.RcvPaths {
		pj.Defaults()
	}
}

// UpdateParams updates all params given any changes that might have been
// made to individual values, including those in receiving pathways of this
// layer
func (ly *Layer) UpdateParams() {
	ly.Act.Update()
	ly.Learn.Update()
	for _, pj := range ly.RcvPaths {
		pj.UpdateParams()
	}
}

// ApplyParams applies given parameter style Sheet to this layer and its
// recv pathways.  Calls UpdateParams if anything set to ensure derived
// parameters are all updated.  If setMsg is true, then a message is printed
// to confirm each parameter that is set.  it always prints a message if a
// parameter fails to be set.  returns true if any params were set, and
// error if there were any errors.
func (ly *Layer) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(ly, setMsg)
	if app {
		ly.UpdateParams()
	}
	for _, pj := range ly.RcvPaths {
		papp, perr := pj.ApplyParams(pars, setMsg)
		if papp {
			app = true
		}
		if perr != nil {
			err = perr
		}
	}
	return app, err
}

//////////////////////////////////////////////////////////////////////////////////////
//  Build

// Build constructs the layer state, including calling Build on the
// pathways.
func (ly *Layer) Build() error {
	nu := ly.Shp.Len()
	if nu == 0 {
		return fmt.Errorf("Build Layer %v: no units specified in SetShape", ly.Nm)
	}
	ly.Neurons = make([]Neuron, nu)
	ly.Bias = make([]Synapse, nu)
	if ly.Typ == emer.Target {
		ly.probs = make([]float32, nu)
	}
	var err error
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		if berr := pj.Build(); berr != nil {
			err = berr
		}
	}
	return err
}

// ConfigRec configures the per-trial recording buffers for given number of
// time steps.  Called from TrialInit so the buffers track the current
// Time.NSteps.
func (ly *Layer) ConfigRec(nsteps int) {
	nu := len(ly.Neurons)
	if ly.SpkRec.Len() == nsteps*nu {
		return
	}
	shp := []int{nsteps, nu}
	nms := []string{"Step", "Unit"}
	ly.SpkRec.SetShape(shp, nil, nms)
	ly.VmRec.SetShape(shp, nil, nms)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init

// InitWeights initializes the weight values in the network, i.e., resetting
// learning.  Biases start at zero.  Also initializes activations.
func (ly *Layer) InitWeights() {
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		pj.InitWeights()
	}
	for bi := range ly.Bias {
		b := &ly.Bias[bi]
		b.Wt = 0
		b.DWt = 0
		b.M = 0
		b.V = 0
	}
	ly.InitActs()
}

// InitActs fully initializes activation state -- only called automatically
// during InitWeights
func (ly *Layer) InitActs() {
	for ni := range ly.Neurons {
		ly.Act.InitActs(&ly.Neurons[ni])
	}
	ly.TrialLoss = 0
}

// InitGrads initializes the per-unit gradient temporaries and the
// accumulated bias gradients -- called when discarding a partial batch
func (ly *Layer) InitGrads() {
	for ni := range ly.Neurons {
		ly.Act.InitGrads(&ly.Neurons[ni])
	}
	for bi := range ly.Bias {
		ly.Bias[bi].DWt = 0
	}
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		pj.InitGrads()
	}
}

// DecayState decays activation state by given proportion (1 = full reset)
func (ly *Layer) DecayState(decay float32) {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		ly.Act.DecayState(nrn, decay)
		ly.Act.InitGInc(nrn)
	}
}

// TrialInit handles all initialization at start of new trial: decays the
// membrane state, clears the gradient temporaries and loss, and sizes the
// recording buffers for the trial's steps.  Accumulated DWt gradients are
// NOT cleared here: they carry across the trials of a minibatch until
// WtFromDWt applies them.
func (ly *Layer) TrialInit(tm *Time) {
	ly.DecayState(ly.Act.Init.Decay)
	for ni := range ly.Neurons {
		ly.Act.InitGrads(&ly.Neurons[ni])
	}
	ly.ConfigRec(tm.NSteps)
	ly.TrialLoss = 0
}

//////////////////////////////////////////////////////////////////////////////////////
//  External inputs

// ApplyExt applies the given spike train as external input to this (Input)
// layer for the trial.  The tensor's outer dimension is the time step, and
// the remaining dimensions must match the layer shape.  Values are copied,
// so the tensor can be reused.
func (ly *Layer) ApplyExt(spikes etensor.Tensor) error {
	nu := len(ly.Neurons)
	if spikes.NumDims() < 2 {
		return fmt.Errorf("Layer.ApplyExt %v: spike train must have a leading step dimension", ly.Nm)
	}
	nsteps := spikes.Dim(0)
	if spikes.Len() != nsteps*nu {
		return fmt.Errorf("Layer.ApplyExt %v: spike train size %v does not match steps %v x units %v", ly.Nm, spikes.Len(), nsteps, nu)
	}
	ly.ExtRec.SetShape([]int{nsteps, nu}, nil, []string{"Step", "Unit"})
	for i := 0; i < spikes.Len(); i++ {
		ly.ExtRec.Values[i] = float32(spikes.FloatVal1D(i))
	}
	for ni := range ly.Neurons {
		ly.Neurons[ni].SetFlag(NeurHasExt)
	}
	return nil
}

// ApplyTarget applies the given class index as the target for this (Target)
// layer for the trial: Targ = 1 for the class unit, 0 for all others.
func (ly *Layer) ApplyTarget(class int) error {
	if class < 0 || class >= len(ly.Neurons) {
		return fmt.Errorf("Layer.ApplyTarget %v: class %v out of range for %v units", ly.Nm, class, len(ly.Neurons))
	}
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if ni == class {
			nrn.Targ = 1
		} else {
			nrn.Targ = 0
		}
		nrn.SetFlag(NeurHasTarg)
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Step-level forward

// StepCycle runs one time step of the forward dynamics for this layer:
// gather spike input from sending layers, update the membrane potential,
// emit spikes, record the step, and propagate the spikes onward.
// Layers must be processed in feed-forward order so that spikes emitted
// this step reach their receivers within the same step.
func (ly *Layer) StepCycle(tm *Time) {
	if ly.Typ == emer.Input {
		ly.clampSpikes(tm)
	} else {
		ly.RecvGInc()
		for ni := range ly.Neurons {
			nrn := &ly.Neurons[ni]
			if nrn.IsOff() {
				continue
			}
			ly.Act.GeFromInc(nrn, ly.Bias[ni].Wt)
			ly.Act.VmFromGe(nrn)
			ly.Act.SpikeFromVm(nrn)
		}
	}
	ly.RecordStep(tm)
	if ly.Typ == emer.Target {
		ly.LossFromVm(tm)
	}
	ly.SendSpike()
}

// clampSpikes drives the input layer spikes directly from the applied
// external spike train for the current step.  If the applied train has
// fewer steps than the trial, the remaining steps are silent.
func (ly *Layer) clampSpikes(tm *Time) {
	nu := len(ly.Neurons)
	st := tm.Step * nu
	if st+nu > len(ly.ExtRec.Values) {
		if st > 0 && st == len(ly.ExtRec.Values) { // only at the first step past the end
			log.Printf("Layer %v: applied spike train has %v steps, trial has %v -- no spikes for the remainder\n", ly.Nm, ly.ExtRec.Dim(0), tm.NSteps)
		}
		for ni := range ly.Neurons {
			ly.Neurons[ni].Spike = 0
		}
		return
	}
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() || !nrn.HasFlag(NeurHasExt) {
			nrn.Spike = 0
			continue
		}
		nrn.Ext = ly.ExtRec.Values[st+ni]
		nrn.Spike = nrn.Ext
		nrn.SpkSum += nrn.Spike
	}
}

// RecvGInc transfers the accumulated spike input from all receiving
// pathways into the neurons' raw input
func (ly *Layer) RecvGInc() {
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		pj.RecvGInc()
	}
}

// RecordStep records the current spike and membrane state into the
// per-trial history buffers
func (ly *Layer) RecordStep(tm *Time) {
	nu := len(ly.Neurons)
	st := tm.Step * nu
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		ly.SpkRec.Values[st+ni] = nrn.Spike
		ly.VmRec.Values[st+ni] = nrn.Vm
	}
}

// SendSpike propagates the spikes emitted this step to the receiving
// layers, accumulating weights into their pathway input buffers
func (ly *Layer) SendSpike() {
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.IsOff() || nrn.Spike == 0 {
			continue
		}
		for _, pj := range ly.SndPaths {
			if pj.IsOff() {
				continue
			}
			pj.SendSpike(ni)
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Loss

// LossFromVm accumulates the cross-entropy loss between the softmax of the
// current step's membrane potentials and the clamped target class.
// The per-step losses sum to the trial loss.
func (ly *Layer) LossFromVm(tm *Time) {
	ly.softMax(tm.Step)
	for ni := range ly.Neurons {
		nrn := &ly.Neurons[ni]
		if nrn.Targ > 0 {
			ly.TrialLoss += -math32.Log(math32.Max(ly.probs[ni], 1e-30))
		}
	}
}

// softMax computes the softmax of the recorded membrane potentials at the
// given step into the probs scratch slice, with max subtraction for
// numerical stability
func (ly *Layer) softMax(step int) {
	nu := len(ly.Neurons)
	vms := ly.VmRec.Values[step*nu : (step+1)*nu]
	mx := vms[0]
	for _, vm := range vms {
		if vm > mx {
			mx = vm
		}
	}
	sum := float32(0)
	for ni, vm := range vms {
		e := math32.Exp(vm - mx)
		ly.probs[ni] = e
		sum += e
	}
	for ni := range ly.probs {
		ly.probs[ni] /= sum
	}
}

// Pred returns the predicted class for the trial: the index of the unit
// with the most spikes over the trial
func (ly *Layer) Pred() int {
	mxi := 0
	mx := float32(-1)
	for ni := range ly.Neurons {
		if ly.Neurons[ni].SpkSum > mx {
			mx = ly.Neurons[ni].SpkSum
			mxi = ni
		}
	}
	return mxi
}

//////////////////////////////////////////////////////////////////////////////////////
//  Backward

// BackwardStep runs one time step of the backward pass for this layer, for
// the given step index (steps are processed in reverse order, layers in
// reverse feed-forward order).  Computes the membrane and input gradients
// for this step from the loss (Target layers) or the accumulated spike
// gradients (Hidden layers), accumulates the bias gradients, and propagates
// gradients to sending layers through the receiving pathways.
// The spike reset pathway is treated as constant: under SubReset the
// subtracted threshold carries no gradient, and under ZeroReset the carry
// from the next step is dropped entirely at steps where the unit spiked,
// since the forward pass discards the decayed membrane there.
func (ly *Layer) BackwardStep(step int) {
	if ly.Typ == emer.Input {
		return
	}
	nu := len(ly.Neurons)
	spks := ly.SpkRec.Values[step*nu : (step+1)*nu]
	switch ly.Typ {
	case emer.Target:
		ly.softMax(step)
		for ni := range ly.Neurons {
			nrn := &ly.Neurons[ni]
			carry := ly.Act.Beta * nrn.DVm
			if ly.Act.Reset == ZeroReset && spks[ni] > 0 {
				carry = 0
			}
			nrn.DVm = (ly.probs[ni] - nrn.Targ) + carry
			nrn.DGe = nrn.DVm
		}
	default:
		vms := ly.VmRec.Values[step*nu : (step+1)*nu]
		for ni := range ly.Neurons {
			nrn := &ly.Neurons[ni]
			carry := ly.Act.Beta * nrn.DVm
			if ly.Act.Reset == ZeroReset && spks[ni] > 0 {
				carry = 0
			}
			nrn.DVm = nrn.DSpk*ly.Act.SpikeDeriv(vms[ni]) + carry
			nrn.DSpk = 0
			nrn.DGe = nrn.DVm
		}
	}
	for ni := range ly.Neurons {
		ly.Bias[ni].DWt += ly.Neurons[ni].DGe
	}
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		pj.BackwardStep(step)
	}
}

// WtFromDWt updates the weights from accumulated gradients, for the recv
// pathways and the bias weights.  t is the 1-based network-level count of
// optimizer updates.
func (ly *Layer) WtFromDWt(t int) {
	for _, pj := range ly.RcvPaths {
		if pj.IsOff() {
			continue
		}
		pj.WtFromDWt(t)
	}
	if !ly.Learn.Learn {
		return
	}
	for bi := range ly.Bias {
		ly.Learn.Adam.WtFromDWt(&ly.Bias[bi], t)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit access

// UnitVals fills in values of given variable name on unit for each unit in
// the layer, into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (ly *Layer) UnitVals(vals *[]float32, varNm string) error {
	vi, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	nu := len(ly.Neurons)
	if *vals == nil || cap(*vals) < nu {
		*vals = make([]float32, nu)
	} else if len(*vals) < nu {
		*vals = (*vals)[0:nu]
	}
	for i := range ly.Neurons {
		(*vals)[i] = ly.Neurons[i].VarByIndex(vi)
	}
	return nil
}

// UnitValsTensor fills in values of given variable name on unit for each
// unit in the layer, into given tensor, which is reshaped to the layer
// shape if not already
func (ly *Layer) UnitValsTensor(tsr etensor.Tensor, varNm string) error {
	if tsr == nil {
		return fmt.Errorf("Layer.UnitValsTensor %v: tensor is nil", ly.Nm)
	}
	vi, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return err
	}
	tsr.SetShape(ly.Shp.Shp, ly.Shp.Strd, ly.Shp.Nms)
	for i := range ly.Neurons {
		tsr.SetFloat1D(i, float64(ly.Neurons[i].VarByIndex(vi)))
	}
	return nil
}

// UnitVal returns value of given variable name on given unit, using flat
// 1D index.  Returns NaN on invalid var name or index.
func (ly *Layer) UnitVal(varNm string, idx int) float32 {
	vi, err := NeuronVarIdxByName(varNm)
	if err != nil {
		return math32.NaN()
	}
	if idx < 0 || idx >= len(ly.Neurons) {
		return math32.NaN()
	}
	return ly.Neurons[idx].VarByIndex(vi)
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// WriteWtsJSON writes the weights from this layer (bias and recv pathways)
// in a JSON text format.
func (ly *Layer) WriteWtsJSON(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Layer\": %q,\n", ly.Nm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Bias\": [ "))
	nu := len(ly.Bias)
	for bi := range ly.Bias {
		w.Write([]byte(fmt.Sprintf("%g", ly.Bias[bi].Wt)))
		if bi == nu-1 {
			w.Write([]byte(" "))
		} else {
			w.Write([]byte(", "))
		}
	}
	w.Write([]byte("],\n"))
	onps := make([]*Path, 0, len(ly.RcvPaths))
	for _, pj := range ly.RcvPaths {
		if !pj.IsOff() {
			onps = append(onps, pj)
		}
	}
	np := len(onps)
	if np == 0 {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Paths\": null\n"))
	} else {
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Paths\": [\n"))
		depth++
		for pi, pj := range onps {
			pj.WriteWtsJSON(w, depth) // path leaves unterminated
			if pi == np-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// SetWts sets the weights for this layer from weights file data
func (ly *Layer) SetWts(lw *WtsLayer) error {
	var err error
	for bi := range lw.Bias {
		if bi >= len(ly.Bias) {
			break
		}
		ly.Bias[bi].Wt = lw.Bias[bi]
	}
	for i := range lw.Paths {
		pw := &lw.Paths[i]
		pj, perr := ly.RecvPathBySendName(pw.From)
		if perr != nil {
			err = perr
			continue
		}
		if serr := pj.SetWts(pw); serr != nil {
			err = serr
		}
	}
	return err
}

// RecvPathBySendName returns the receiving pathway from the layer with the
// given name, or error if not found
func (ly *Layer) RecvPathBySendName(sender string) (*Path, error) {
	for _, pj := range ly.RcvPaths {
		if pj.Send.Name() == sender {
			return pj, nil
		}
	}
	return nil, fmt.Errorf("Layer.RecvPathBySendName %v: no pathway from sender %v", ly.Nm, sender)
}
