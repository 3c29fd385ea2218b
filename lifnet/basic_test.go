// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
)

// Note: subsequent params applied after Base
var ParamSets = params.Sets{
	{Name: "Base", Desc: "base testing", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "Path", Desc: "for reproducibility, identical weights",
				Params: params.Params{
					"Path.Learn.WtInit.Var": "0",
				}},
		},
	}},
	{Name: "FastLearn", Desc: "high learning rate for learning tests", Sheets: params.Sheets{
		"Network": &params.Sheet{
			{Sel: "Path", Desc: "fast",
				Params: params.Params{
					"Path.Learn.Adam.Lrate": "0.01",
				}},
			{Sel: "Layer", Desc: "fast",
				Params: params.Params{
					"Layer.Learn.Adam.Lrate": "0.01",
				}},
		},
	}},
}

func newTestNet(t *testing.T) *Network {
	testNet := NewNetwork("TestNet")
	inLay := testNet.AddLayer("Input", []int{1, 4}, emer.Input)
	hidLay := testNet.AddLayer("Hidden", []int{1, 4}, emer.Hidden)
	outLay := testNet.AddLayer("Output", []int{1, 2}, emer.Target)

	testNet.ConnectLayers(inLay, hidLay, prjn.NewFull(), emer.Forward)
	testNet.ConnectLayers(hidLay, outLay, prjn.NewFull(), emer.Forward)

	testNet.Defaults()
	if err := testNet.Build(); err != nil {
		t.Fatal(err)
	}
	return testNet
}

// onesSpikes returns an all-ones spike train for nsteps x n units
func onesSpikes(nsteps, n int) *etensor.Float32 {
	spk := etensor.NewFloat32([]int{nsteps, n}, nil, []string{"Step", "Unit"})
	for i := range spk.Values {
		spk.Values[i] = 1
	}
	return spk
}

// runTrial runs one full forward + backward trial
func runTrial(t *testing.T, nt *Network, tm *Time, spk *etensor.Float32, class int) {
	nt.TrialInit(tm)
	if err := nt.LayerByName("Input").ApplyExt(spk); err != nil {
		t.Fatal(err)
	}
	if err := nt.LayerByName("Output").ApplyTarget(class); err != nil {
		t.Fatal(err)
	}
	for si := 0; si < tm.NSteps; si++ {
		nt.StepCycle(tm)
		tm.StepInc()
	}
	nt.Backward(tm)
	tm.TrialInc()
}

func TestNetBuild(t *testing.T) {
	nt := newTestNet(t)
	hid := nt.LayerByName("Hidden")
	if len(hid.Neurons) != 4 {
		t.Errorf("Hidden units: %v != 4", len(hid.Neurons))
	}
	pj := hid.RcvPaths[0]
	if len(pj.Syns) != 16 {
		t.Errorf("Input -> Hidden synapses: %v != 16", len(pj.Syns))
	}
	if pj.RConNAvgMax.Avg != 4 {
		t.Errorf("Input -> Hidden fan-in avg: %v != 4", pj.RConNAvgMax.Avg)
	}
	out := nt.LayerByName("Output")
	if len(out.RcvPaths[0].Syns) != 8 {
		t.Errorf("Hidden -> Output synapses: %v != 8", len(out.RcvPaths[0].Syns))
	}
}

func TestBuildValidate(t *testing.T) {
	nt := NewNetwork("TestNet")
	inLay := nt.AddLayer("Input", []int{1, 4}, emer.Input)
	hidLay := nt.AddLayer("Hidden", []int{1, 4}, emer.Hidden)
	nt.ConnectLayers(inLay, hidLay, nil, emer.Forward)
	nt.Defaults()
	if err := nt.Build(); err == nil {
		t.Errorf("Build with nil connectivity pattern should return an error")
	}
}

func TestApplyExtShortTrain(t *testing.T) {
	nt := newTestNet(t)
	nt.ApplyParams(ParamSets[0].Sheets["Network"], false)
	nt.InitWeights()
	tm := NewTime()

	// spike train covering only half the trial: remaining steps are silent
	spk := onesSpikes(tm.NSteps/2, 4)
	runTrial(t, nt, tm, spk, 0)

	in := nt.LayerByName("Input")
	for ni := range in.Neurons {
		if in.Neurons[ni].SpkSum != float32(tm.NSteps/2) {
			t.Errorf("input unit %v SpkSum: %v != %v", ni, in.Neurons[ni].SpkSum, tm.NSteps/2)
		}
	}
}

func TestBackwardZeroReset(t *testing.T) {
	ly := &Layer{}
	ly.InitName("Hidden")
	ly.Config([]int{1, 1}, emer.Hidden)
	ly.Defaults()
	ly.Act.Reset = ZeroReset
	if err := ly.Build(); err != nil {
		t.Fatal(err)
	}
	ly.ConfigRec(2)

	// unit spiked at step 0, so the forward pass discards the decayed
	// membrane at step 1 and the carried gradient must be dropped
	nrn := &ly.Neurons[0]
	ly.SpkRec.Values[0] = 1
	ly.VmRec.Values[0] = 1.2
	nrn.DVm = 0.5 // gradient carried back from step 1
	nrn.DSpk = 0.3
	ly.BackwardStep(0)
	exp := float32(0.3) * ly.Act.SpikeDeriv(1.2)
	if absf32(nrn.DVm-exp) > 1e-6 {
		t.Errorf("ZeroReset membrane gradient at spiking step: %v != %v", nrn.DVm, exp)
	}

	// SubReset keeps the Beta-weighted carry
	ly.Act.Reset = SubReset
	nrn.DVm = 0.5
	nrn.DSpk = 0.3
	ly.BackwardStep(0)
	exp = float32(0.3)*ly.Act.SpikeDeriv(1.2) + ly.Act.Beta*0.5
	if absf32(nrn.DVm-exp) > 1e-6 {
		t.Errorf("SubReset membrane gradient at spiking step: %v != %v", nrn.DVm, exp)
	}
}

func TestNetTrial(t *testing.T) {
	nt := newTestNet(t)
	nt.ApplyParams(ParamSets[0].Sheets["Network"], false)
	nt.InitWeights()
	tm := NewTime()

	spk := onesSpikes(tm.NSteps, 4)
	runTrial(t, nt, tm, spk, 0)

	in := nt.LayerByName("Input")
	for ni := range in.Neurons {
		if in.Neurons[ni].SpkSum != float32(tm.NSteps) {
			t.Errorf("input unit %v SpkSum: %v != %v", ni, in.Neurons[ni].SpkSum, tm.NSteps)
		}
	}

	// zero weights: hidden stays silent, output membrane stays at zero, so
	// the per-step loss is exactly log(2) for 2 equiprobable classes
	hid := nt.LayerByName("Hidden")
	for ni := range hid.Neurons {
		if hid.Neurons[ni].SpkSum != 0 {
			t.Errorf("hidden unit %v should be silent with zero weights", ni)
		}
	}
	out := nt.LayerByName("Output")
	expLoss := float32(float64(tm.NSteps) * math.Log(2))
	if absf32(out.TrialLoss-expLoss) > 1e-3 {
		t.Errorf("TrialLoss: %v != expected %v", out.TrialLoss, expLoss)
	}
	if nt.TrialLoss() != out.TrialLoss {
		t.Errorf("network TrialLoss should match single output layer")
	}

	// loss gradient: true class unit pushed up (negative bias gradient),
	// other unit pushed down, symmetrically
	b0 := out.Bias[0].DWt
	b1 := out.Bias[1].DWt
	if b0 >= 0 || b1 <= 0 {
		t.Errorf("output bias gradients: got %v, %v; want negative, positive", b0, b1)
	}
	if absf32(b0+b1) > 1e-4 {
		t.Errorf("output bias gradients should be symmetric: %v vs %v", b0, b1)
	}

	// no spikes from hidden, zero weights: upstream gradients all zero
	for si := range out.RcvPaths[0].Syns {
		if out.RcvPaths[0].Syns[si].DWt != 0 {
			t.Errorf("Hidden -> Output DWt should be zero without sender spikes")
			break
		}
	}
	for si := range hid.RcvPaths[0].Syns {
		if hid.RcvPaths[0].Syns[si].DWt != 0 {
			t.Errorf("Input -> Hidden DWt should be zero with zero forward weights")
			break
		}
	}

	// applying the update moves the true class bias up
	nt.WtFromDWt()
	if nt.AdamT != 1 {
		t.Errorf("AdamT after one update: %v != 1", nt.AdamT)
	}
	if out.Bias[0].Wt <= 0 || out.Bias[1].Wt >= 0 {
		t.Errorf("output bias weights after update: got %v, %v; want positive, negative", out.Bias[0].Wt, out.Bias[1].Wt)
	}
	if out.Bias[0].DWt != 0 {
		t.Errorf("bias DWt should be cleared by update")
	}
}

func TestTrainLoss(t *testing.T) {
	rand.Seed(10)
	nt := newTestNet(t)
	nt.ApplyParams(ParamSets[1].Sheets["Network"], false)
	nt.InitWeights()
	tm := NewTime()

	spk := onesSpikes(tm.NSteps, 4)
	ntrl := 25
	losses := make([]float32, ntrl)
	for trl := 0; trl < ntrl; trl++ {
		runTrial(t, nt, tm, spk, 0)
		losses[trl] = nt.TrialLoss()
		nt.WtFromDWt()
	}
	if losses[ntrl-1] >= losses[0] {
		t.Errorf("training on a repeated pattern should reduce the loss: first %v, last %v", losses[0], losses[ntrl-1])
	}
}

func TestWtsSaveLoad(t *testing.T) {
	rand.Seed(42)
	nt := newTestNet(t)
	nt.InitWeights()

	var buf bytes.Buffer
	nt.WriteWtsJSON(&buf)

	nt2 := newTestNet(t)
	nt2.InitWeights()
	if err := nt2.ReadWtsJSON(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatal(err)
	}

	for _, lnm := range []string{"Hidden", "Output"} {
		ly := nt.LayerByName(lnm)
		ly2 := nt2.LayerByName(lnm)
		for bi := range ly.Bias {
			if ly.Bias[bi].Wt != ly2.Bias[bi].Wt {
				t.Errorf("%v bias %v: %v != %v", lnm, bi, ly.Bias[bi].Wt, ly2.Bias[bi].Wt)
			}
		}
		pj := ly.RcvPaths[0]
		pj2 := ly2.RcvPaths[0]
		var wts, wts2 []float32
		pj.SynVals(&wts, "Wt")
		pj2.SynVals(&wts2, "Wt")
		for si := range wts {
			if absf32(wts[si]-wts2[si]) > 1e-6 {
				t.Errorf("%v syn %v: %v != %v", lnm, si, wts[si], wts2[si])
				break
			}
		}
	}
}
