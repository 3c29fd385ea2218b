// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"fmt"
	"reflect"
)

// lifnet.Synapse holds state for the synaptic connection between neurons,
// including the accumulated loss gradient and the Adam optimizer moments.
type Synapse struct {
	Wt  float32 `desc:"synaptic weight value"`
	DWt float32 `desc:"accumulated gradient of the loss with respect to this weight -- summed over time steps and trials until WtFromDWt is called"`
	M   float32 `desc:"Adam first moment -- exponential moving average of the gradient"`
	V   float32 `desc:"Adam second moment -- exponential moving average of the squared gradient"`
}

var SynapseVars = []string{"Wt", "DWt", "M", "V"}

var SynapseVarProps = map[string]string{
	"DWt": `auto-scale:"+"`,
	"M":   `auto-scale:"+"`,
	"V":   `auto-scale:"+"`,
}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	v := reflect.ValueOf(*sy)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}

func (sy *Synapse) SetVarByIndex(idx int, val float32) {
	v := reflect.ValueOf(sy)
	v.Elem().Field(idx).SetFloat(float64(val))
}

// SetVarByName sets synapse variable to given value
func (sy *Synapse) SetVarByName(varNm string, val float32) error {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	sy.SetVarByIndex(i, val)
	return nil
}
