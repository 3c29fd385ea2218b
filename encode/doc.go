// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package encode converts static input patterns (e.g., image pixel
intensities in the 0..1 range) into spike trains over the discrete time
steps of a trial, for presentation to the input layer of a spiking
network.

Two codes are provided.  Latency coding emits a single spike per unit, at
a time inversely related to intensity, so strong inputs fire early and
weak ones late -- this gives precise, sparse spike timing that works well
for training.  Rate coding draws an independent Bernoulli spike at every
step with probability proportional to intensity, so stronger inputs fire
more often -- a robust code for evaluation.
*/
package encode
