// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/params"
	"github.com/goki/ki/indent"
	"github.com/goki/mat32"
)

// lifnet.Path is a dense pathway of synaptic connections between two
// layers.  The forward pass is event-driven: only units that spiked on the
// current step propagate their weights to receivers (SendSpike).  The
// backward pass runs over the receiver-ordered indexes, accumulating the
// weight gradients and the senders' spike gradients (BackwardStep).
type Path struct {
	PathStru
	Learn LearnParams `view:"add-fields" desc:"weight initialization and Adam optimizer parameters"`
	Syns  []Synapse   `desc:"synaptic state values, ordered by the sending layer units which owns them"`
	GInc  []float32   `view:"-" desc:"per-recv-unit accumulator of weighted spike input for the current step -- transferred to the receiving neurons' GeRaw in RecvGInc"`
}

func (pj *Path) Defaults() {
	pj.Learn.Defaults()
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (pj *Path) UpdateParams() {
	pj.Learn.Update()
}

// ApplyParams applies given parameter style Sheet to this pathway.
// Calls UpdateParams if anything set to ensure derived parameters are all
// updated.  If setMsg is true, then a message is printed to confirm each
// parameter that is set.  it always prints a message if a parameter fails
// to be set.  returns true if any params were set, and error if there were
// any errors.
func (pj *Path) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	app, err := pars.Apply(pj, setMsg)
	if app {
		pj.UpdateParams()
	}
	return app, err
}

// Build constructs the full connectivity among the layers as specified in
// this pathway, and allocates the synapses and step accumulators.
func (pj *Path) Build() error {
	if err := pj.BuildStru(); err != nil {
		return err
	}
	pj.Syns = make([]Synapse, len(pj.SConIdx))
	pj.GInc = make([]float32, pj.Recv.NUnits())
	return nil
}

// InitWeights initializes weight values according to Learn.WtInit params,
// scaled by 1 / sqrt of the average fan-in, and resets the gradient and
// optimizer state.
func (pj *Path) InitWeights() {
	sc := float32(1)
	if pj.RConNAvgMax.Avg > 0 {
		sc = 1 / mat32.Sqrt(pj.RConNAvgMax.Avg)
	}
	for si := range pj.Syns {
		sy := &pj.Syns[si]
		sy.Wt = sc * float32(pj.Learn.WtInit.Gen(-1))
		sy.DWt = 0
		sy.M = 0
		sy.V = 0
	}
	pj.InitGInc()
}

// InitGrads initializes the accumulated weight gradients -- called when
// discarding a partial batch, not between normal updates (WtFromDWt clears
// DWt itself)
func (pj *Path) InitGrads() {
	for si := range pj.Syns {
		pj.Syns[si].DWt = 0
	}
}

// InitGInc initializes the per-pathway spike input accumulator
func (pj *Path) InitGInc() {
	for ri := range pj.GInc {
		pj.GInc[ri] = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Act methods

// SendSpike sends a spike from sending neuron index si, accumulating
// synaptic weights onto the per-receiver input increments
func (pj *Path) SendSpike(si int) {
	nc := pj.SConN[si]
	st := pj.SConIdxSt[si]
	syns := pj.Syns[st : st+nc]
	scons := pj.SConIdx[st : st+nc]
	for ci := range syns {
		ri := scons[ci]
		pj.GInc[ri] += syns[ci].Wt
	}
}

// RecvGInc increments the receivers' raw input from this pathway's
// accumulated spike input, and clears the accumulator for the next step
func (pj *Path) RecvGInc() {
	rlay := pj.Recv
	for ri := range rlay.Neurons {
		rn := &rlay.Neurons[ri]
		rn.GeRaw += pj.GInc[ri]
		pj.GInc[ri] = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Learn methods

// BackwardStep accumulates, for the given time step, the weight gradients
// from the receivers' input-current gradients and the recorded sender
// spikes, and propagates the spike gradients back onto the sending units:
//
//	DWt[ri,si] += DGe[ri] * Spk[si](step);  DSpk[si] += Wt[ri,si] * DGe[ri]
func (pj *Path) BackwardStep(step int) {
	slay := pj.Send
	sn := slay.NUnits()
	spk := slay.SpkRec.Values
	for ri := range pj.Recv.Neurons {
		dge := pj.Recv.Neurons[ri].DGe
		if dge == 0 {
			continue
		}
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			sy := &pj.Syns[pj.RSynIdx[st+ci]]
			sy.DWt += dge * spk[step*sn+si]
			slay.Neurons[si].DSpk += sy.Wt * dge
		}
	}
}

// WtFromDWt updates the weights from accumulated gradients via the Adam
// optimizer.  t is the 1-based network-level count of optimizer updates.
func (pj *Path) WtFromDWt(t int) {
	if !pj.Learn.Learn {
		return
	}
	for si := range pj.Syns {
		pj.Learn.Adam.WtFromDWt(&pj.Syns[si], t)
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Syn access

// SynIdx returns the index of the synapse between given send, recv unit
// indexes (-1 if not found)
func (pj *Path) SynIdx(sidx, ridx int) int {
	nc := int(pj.SConN[sidx])
	st := int(pj.SConIdxSt[sidx])
	for ci := 0; ci < nc; ci++ {
		ri := int(pj.SConIdx[st+ci])
		if ri != ridx {
			continue
		}
		return st + ci
	}
	return -1
}

// SynVals sets values of given variable name for each synapse, using the
// natural ordering of the synapses (sender based), into given float32 slice
// (only resized if not big enough).  Returns error on invalid var name.
func (pj *Path) SynVals(vals *[]float32, varNm string) error {
	vi, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	ns := len(pj.Syns)
	if *vals == nil || cap(*vals) < ns {
		*vals = make([]float32, ns)
	} else if len(*vals) < ns {
		*vals = (*vals)[0:ns]
	}
	for i := range pj.Syns {
		(*vals)[i] = pj.Syns[i].VarByIndex(vi)
	}
	return nil
}

// SynVal returns value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat).  Returns math32.NaN() for access
// errors.
func (pj *Path) SynVal(varNm string, sidx, ridx int) float32 {
	vi, err := SynapseVarByName(varNm)
	if err != nil {
		return math32.NaN()
	}
	si := pj.SynIdx(sidx, ridx)
	if si < 0 {
		return math32.NaN()
	}
	return pj.Syns[si].VarByIndex(vi)
}

// SetSynVal sets value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat).  Returns error for access errors.
func (pj *Path) SetSynVal(varNm string, sidx, ridx int, val float32) error {
	vi, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	si := pj.SynIdx(sidx, ridx)
	if si < 0 {
		return fmt.Errorf("Path.SetSynVal: synapse not found for send %v recv %v", sidx, ridx)
	}
	pj.Syns[si].SetVarByIndex(vi, val)
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// WriteWtsJSON writes the weights from this pathway from the
// receiver-side perspective in a JSON text format.
// Leaves the path unterminated, as the outer loop adds , or \n.
func (pj *Path) WriteWtsJSON(w io.Writer, depth int) {
	slay := pj.Send
	rlay := pj.Recv
	nr := len(rlay.Neurons)
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"From\": %q,\n", slay.Name())))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Rs\": [\n"))
	depth++
	for ri := 0; ri < nr; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("{\n"))
		depth++
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"Ri\": %v,\n", ri)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"N\": %v,\n", nc)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Si\": [ "))
		for ci := 0; ci < nc; ci++ {
			si := pj.RConIdx[st+ci]
			w.Write([]byte(fmt.Sprintf("%v", si)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("],\n"))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Wt\": [ "))
		for ci := 0; ci < nc; ci++ {
			sy := &pj.Syns[pj.RSynIdx[st+ci]]
			w.Write([]byte(fmt.Sprintf("%g", sy.Wt)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("]\n"))
		depth--
		w.Write(indent.TabBytes(depth))
		if ri == nr-1 {
			w.Write([]byte("}\n"))
		} else {
			w.Write([]byte("},\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// SetWts sets the weights for this pathway from weights file data
func (pj *Path) SetWts(pw *WtsPath) error {
	var err error
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		for si := range pr.Si {
			er := pj.SetSynVal("Wt", int(pr.Si[si]), pr.Ri, pr.Wt[si])
			if er != nil {
				err = er
			}
		}
	}
	return err
}
