// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lifnet is the overall repository for spiking neural networks built
from leaky integrate-and-fire (LIF) neurons, trained by backpropagation
through time with surrogate spike gradients, implemented in the Go language
(golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-packages:

* lifnet: the core implementation: LIF neurons, dense layers and pathways,
networks unrolled over discrete time steps, and Adam-based learning from
per-step cross-entropy on the output membrane potential.

* surrogate: the fast-sigmoid surrogate gradient function used in place of
the non-differentiable spike threshold during the backward pass.

* encode: spike-train encoders that convert real-valued patterns into
binary spike trains over time, using latency (first-spike time) or rate
(Bernoulli probability) coding.

* mnist: loader for the MNIST handwritten digit dataset in its standard
gzipped IDX format, into etable tables.

* examples: these compile into runnable programs.  examples/mnist trains
and tests the digit classifier; examples/bench
runs the core on random patterns for benchmarking.

The examples/mnist model is the standard fully-connected digit classifier:
28x28 input, two hidden layers of 64 LIF units, and 10 output units, each
image unrolled over 30 time steps.
*/
package lifnet
