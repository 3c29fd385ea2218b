// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"fmt"

	"github.com/goki/gi/gi"
)

////////////////////////////////////////////////////
// Misc

// ToggleLayersOff can be used to disable layers in a Network, for example
// if you are doing an ablation study.
func ToggleLayersOff(net *Network, layerNames []string, off bool) {
	for _, lnm := range layerNames {
		ly := net.LayerByName(lnm)
		if ly == nil {
			fmt.Printf("layer not found: %s\n", lnm)
			continue
		}
		ly.Off = off
	}
}

/////////////////////////////////////////////
// Weights files

// WeightsFilename returns default current weights file name, using the
// given counter string (e.g., epoch / trial) and the run name identifying
// tag and parameters
func WeightsFilename(net *Network, ctrString, runName string) string {
	return net.Nm + "_" + runName + "_" + ctrString + ".wts.gz"
}

// SaveWeights saves network weights to filename with WeightsFilename
// information to identify the weights.
// Returns the name of the file saved to, or empty if not saved.
func SaveWeights(net *Network, ctrString, runName string) string {
	fnm := WeightsFilename(net, ctrString, runName)
	fmt.Printf("Saving Weights to: %s\n", fnm)
	if err := net.SaveWtsJSON(gi.FileName(fnm)); err != nil {
		return ""
	}
	return fnm
}
