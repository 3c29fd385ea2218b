// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

// lifnet.Time contains all the timing state and parameter information for
// running a model.  A trial presents one input pattern as a spike train
// unrolled over NSteps discrete time steps.
type Time struct {
	Time        float32 `desc:"accumulated amount of time the network has been running, in simulation-time (not real world time), in seconds"`
	Step        int     `desc:"step counter within the current trial: 0 ... NSteps-1"`
	StepTot     int     `desc:"total step count -- increments continuously from whenever it was last reset"`
	Trial       int     `desc:"trial counter -- number of input patterns presented since last reset"`
	NSteps      int     `def:"30" desc:"number of time steps to unroll each trial over"`
	TimePerStep float32 `def:"0.001" desc:"amount of simulation time to increment per step"`
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.NSteps = 30
	tm.TimePerStep = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	tm.StepTot = 0
	tm.Trial = 0
	if tm.NSteps == 0 {
		tm.Defaults()
	}
}

// TrialStart starts a new trial of NSteps steps
func (tm *Time) TrialStart() {
	tm.Step = 0
}

// StepInc increments at the step level
func (tm *Time) StepInc() {
	tm.Step++
	tm.StepTot++
	tm.Time += tm.TimePerStep
}

// TrialInc increments at the trial level
func (tm *Time) TrialInc() {
	tm.Trial++
}
