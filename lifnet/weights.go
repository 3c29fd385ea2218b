// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"encoding/json"
	"io"
)

// weights.go defines the on-file JSON representation of network weights,
// matching what WriteWtsJSON emits.  Reading goes through these structs and
// then SetWts on the network.

// WtsNetwork is the network-level weights file data
type WtsNetwork struct {
	Network string     `desc:"name of the network"`
	Layers  []WtsLayer `desc:"weights for each layer"`
}

// WtsLayer is the layer-level weights file data
type WtsLayer struct {
	Layer string    `desc:"name of the layer"`
	Bias  []float32 `desc:"bias weights, one per unit"`
	Paths []WtsPath `desc:"weights for each receiving pathway"`
}

// WtsPath is the pathway-level weights file data
type WtsPath struct {
	From string    `desc:"name of the sending layer"`
	Rs   []WtsRecv `desc:"per-recv-unit connection data"`
}

// WtsRecv is the per-receiving-unit weights file data
type WtsRecv struct {
	Ri int       `desc:"index of the receiving unit"`
	N  int       `desc:"number of sending connections"`
	Si []int32   `desc:"sending unit indexes"`
	Wt []float32 `desc:"weight values, in Si order"`
}

// NetworkWtsFromJSON reads weights file data from the given reader
func NetworkWtsFromJSON(r io.Reader) (*WtsNetwork, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	nw := &WtsNetwork{}
	if err := json.Unmarshal(b, nw); err != nil {
		return nil, err
	}
	return nw, nil
}
