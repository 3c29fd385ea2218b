// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"github.com/emer/emergent/emer"
	"github.com/emer/etable/etensor"
)

// lifnet.LayerStru manages the structural elements of the layer, which are
// common to any layer type: name, class, shape, type, and the pathways
// into and out of it.  There is a single concrete Layer type -- algorithm
// behavior varies only by emer.LayerType -- so no self-interface pointer
// is needed.
type LayerStru struct {
	Nm       string         `desc:"Name of the layer -- this must be unique within the network, which has a map for quick lookup and layers are typically accessed directly by name"`
	Cls      string         `desc:"Class is for applying parameter styles, can be space separated multiple tags"`
	Off      bool           `desc:"inactivate this layer -- allows for easy experimentation"`
	Shp      etensor.Shape  `desc:"shape of the layer -- typically 2D for the unit grid -- order is outer-to-inner (row major), so Y then X"`
	Typ      emer.LayerType `desc:"type of layer -- Input (spike-train clamped), Hidden (LIF), or Target (LIF output with cross-entropy loss) -- matches against .Class parameter styles (e.g., .Hidden etc)"`
	Idx      int            `desc:"a 0..n-1 index of the position of the layer within list of layers in the network -- layers must be added in feed-forward order, as the forward and backward passes process them in list order"`
	RcvPaths []*Path        `desc:"list of receiving pathways into this layer from other layers"`
	SndPaths []*Path        `desc:"list of sending pathways from this layer to other layers"`
}

func (ls *LayerStru) InitName(name string) { ls.Nm = name }

func (ls *LayerStru) Name() string               { return ls.Nm }
func (ls *LayerStru) SetName(nm string)          { ls.Nm = nm }
func (ls *LayerStru) Label() string              { return ls.Nm }
func (ls *LayerStru) Class() string              { return ls.Typ.String() + " " + ls.Cls }
func (ls *LayerStru) SetClass(cls string)        { ls.Cls = cls }
func (ls *LayerStru) TypeName() string           { return "Layer" } // type category, for params..
func (ls *LayerStru) Type() emer.LayerType       { return ls.Typ }
func (ls *LayerStru) SetType(typ emer.LayerType) { ls.Typ = typ }
func (ls *LayerStru) IsOff() bool                { return ls.Off }
func (ls *LayerStru) SetOff(off bool)            { ls.Off = off }
func (ls *LayerStru) Shape() *etensor.Shape      { return &ls.Shp }
func (ls *LayerStru) Index() int                 { return ls.Idx }
func (ls *LayerStru) NUnits() int                { return ls.Shp.Len() }
func (ls *LayerStru) NRecvPaths() int            { return len(ls.RcvPaths) }
func (ls *LayerStru) RecvPath(idx int) *Path     { return ls.RcvPaths[idx] }
func (ls *LayerStru) NSendPaths() int            { return len(ls.SndPaths) }
func (ls *LayerStru) SendPath(idx int) *Path     { return ls.SndPaths[idx] }

// SetShape sets the layer shape and also uses default dim names
func (ls *LayerStru) SetShape(shape []int) {
	var dnms []string
	if len(shape) == 2 {
		dnms = emer.LayerDimNames2D
	}
	ls.Shp.SetShape(shape, nil, dnms) // row major default
}

// Config configures the basic properties of the layer
func (ls *LayerStru) Config(shape []int, typ emer.LayerType) {
	ls.SetShape(shape)
	ls.Typ = typ
}

// RecipToSendPath finds the reciprocal pathway relative to the given
// sending pathway, found within the SndPaths of this layer.
// returns false if not found.
func (ls *LayerStru) RecipToSendPath(spj *Path) (*Path, bool) {
	for _, rpj := range ls.RcvPaths {
		if rpj.Send == spj.Recv {
			return rpj, true
		}
	}
	return nil, false
}
