// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"github.com/chewxy/math32"
	"github.com/emer/emergent/erand"
)

///////////////////////////////////////////////////////////////////////
//  learn.go contains the learning params and optimizer for lifnet

// lifnet.LearnParams manages learning-related parameters at the pathway
// (and layer bias) level: weight initialization and the Adam optimizer.
type LearnParams struct {
	Learn  bool         `def:"true" desc:"enable learning for this pathway"`
	WtInit WtInitParams `view:"inline" desc:"initial random weight distribution -- scaled by 1/sqrt(fan-in) at initialization"`
	Adam   AdamParams   `view:"inline" desc:"Adam optimizer parameters applying accumulated gradients to weights"`
}

func (ls *LearnParams) Update() {
	ls.Adam.Update()
}

func (ls *LearnParams) Defaults() {
	ls.Learn = true
	ls.WtInit.Defaults()
	ls.Adam.Defaults()
}

//////////////////////////////////////////////////////////////////////////////////////
//  WtInitParams

// WtInitParams are weight initialization parameters -- the random
// distribution parameters.  The generated value is further scaled by
// 1/sqrt(fan-in) in Path.InitWeights, so the default Gaussian with Var = 1
// yields the standard scaled initialization for gradient training.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 0
	wp.Var = 1
	wp.Dist = erand.Gaussian
}

//////////////////////////////////////////////////////////////////////////////////////
//  AdamParams

// AdamParams implements the Adam optimizer update: exponential moving
// averages of the gradient (M) and squared gradient (V) per synapse, with
// bias-corrected moments dividing into the learning rate.
// The update counter t is maintained at the network level and passed in,
// so all synapses share the same bias-correction schedule.
type AdamParams struct {
	Lrate float32 `def:"0.0005" min:"0" desc:"learning rate -- multiplies the bias-corrected moment ratio"`
	Beta1 float32 `def:"0.9" min:"0" max:"1" desc:"decay rate for the first moment (gradient average)"`
	Beta2 float32 `def:"0.999" min:"0" max:"1" desc:"decay rate for the second moment (squared gradient average)"`
	Eps   float32 `def:"1e-08" min:"0" desc:"numerical stabilizer added to the square-rooted second moment"`
}

func (ad *AdamParams) Update() {
}

func (ad *AdamParams) Defaults() {
	ad.Lrate = 0.0005
	ad.Beta1 = 0.9
	ad.Beta2 = 0.999
	ad.Eps = 1e-8
	ad.Update()
}

// WtFromDWt updates the weight from the accumulated gradient in the given
// synapse, using bias-corrected Adam moments.  t is the 1-based count of
// optimizer updates so far (network AdamT).  Clears DWt.
func (ad *AdamParams) WtFromDWt(sy *Synapse, t int) {
	sy.M = ad.Beta1*sy.M + (1-ad.Beta1)*sy.DWt
	sy.V = ad.Beta2*sy.V + (1-ad.Beta2)*sy.DWt*sy.DWt
	mhat := sy.M / (1 - math32.Pow(ad.Beta1, float32(t)))
	vhat := sy.V / (1 - math32.Pow(ad.Beta2, float32(t)))
	sy.Wt -= ad.Lrate * mhat / (math32.Sqrt(vhat) + ad.Eps)
	sy.DWt = 0
}
