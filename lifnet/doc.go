// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lifnet provides the core implementation of spiking neural networks
built from leaky integrate-and-fire (LIF) neurons, organized into densely
connected layers and unrolled over a fixed number of discrete time steps.

Each LIF unit holds a membrane potential Vm that decays by a constant
factor Beta per step, integrates the synaptic input current Ge, and emits
a binary spike whenever Vm exceeds the firing threshold.  A spike resets
the membrane on the following step, by default by subtracting the
threshold value.

Learning is standard gradient descent: a softmax cross-entropy loss is
computed on the output layer membrane potential at every time step and
summed across the unrolled trial, then backpropagated through time.  The
non-differentiable spike threshold is replaced in the backward pass by the
fast-sigmoid surrogate gradient (see the surrogate package).  Accumulated
gradients are applied by the Adam optimizer in WtFromDWt.

The Layer / Path / Network organization, parameter styling via params
sheets, and per-variable access conventions follow the emergent framework
conventions, so existing emergent environments and logging tables work
directly with these networks.
*/
package lifnet
