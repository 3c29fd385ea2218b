// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package surrogate provides the fast-sigmoid surrogate gradient function used
in place of the non-differentiable spike threshold during the backward pass
of spiking network training.

The forward pass of a LIF neuron emits a hard binary spike via the Heaviside
step function on Vm - Thr, whose true derivative is zero almost everywhere
and undefined at threshold -- no gradient can flow through it.  The standard
remedy is to substitute a smooth approximation in the backward pass only:
here the fast sigmoid f(x) = x / (1 + Slope*|x|), whose derivative

	f'(x) = 1 / (1 + Slope*|x|)^2

is cheap to compute (no exponentials), peaks at 1 at the threshold, and
falls off symmetrically on either side.  The forward spike remains exactly
binary -- only the gradient is smoothed.
*/
package surrogate

import "github.com/chewxy/math32"

// Params are the fast-sigmoid surrogate gradient parameters.
// Deriv is evaluated at the distance of the membrane potential from the
// firing threshold (Vm - Thr), so the gradient is largest for neurons
// poised near threshold and vanishes for those far from it.
type Params struct {
	Slope float32 `def:"25" min:"0" desc:"steepness of the fast sigmoid around the threshold -- higher values concentrate the gradient more tightly at the threshold crossing"`
}

func (sp *Params) Update() {
}

func (sp *Params) Defaults() {
	sp.Slope = 25
}

// Sigmoid computes the fast sigmoid function x / (1 + Slope*|x|) -- the
// smoothed stand-in for the Heaviside step whose derivative is used in
// the backward pass.  Provided for reference and plotting -- the forward
// pass of a LIF neuron does not use it.
func (sp *Params) Sigmoid(x float32) float32 {
	return x / (1 + sp.Slope*math32.Abs(x))
}

// Deriv computes the derivative of the fast sigmoid at x = Vm - Thr:
// 1 / (1 + Slope*|x|)^2.  Equals 1 at threshold and decays quadratically
// with distance from it.
func (sp *Params) Deriv(x float32) float32 {
	d := 1 + sp.Slope*math32.Abs(x)
	return 1 / (d * d)
}
