// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lifnet

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/emer"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/goki/gi/gi"
	"github.com/goki/ki/indent"
)

// lifnet.NetworkStru holds the basic structural components of a network:
// the named layers, in feed-forward order, and the pathways connecting
// them (owned by the layers).
type NetworkStru struct {
	Nm      string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Layers  []*Layer          `desc:"list of layers -- must be in feed-forward order, as the forward and backward passes process them in list order"`
	WtsFile string            `desc:"filename of last weights file loaded or saved"`
	LayMap  map[string]*Layer `view:"-" desc:"map of name to layers -- layer names must be unique"`
}

func (nt *NetworkStru) InitName(name string) { nt.Nm = name }

func (nt *NetworkStru) Name() string      { return nt.Nm }
func (nt *NetworkStru) Label() string     { return nt.Nm }
func (nt *NetworkStru) NLayers() int      { return len(nt.Layers) }
func (nt *NetworkStru) Layer(idx int) *Layer { return nt.Layers[idx] }

// LayerByName returns a layer by looking it up by name in the layer map
// (nil if not found).  Will create the layer map if it is nil or a
// different size than layers slice, but otherwise needs to be updated
// manually.
func (nt *NetworkStru) LayerByName(name string) *Layer {
	if nt.LayMap == nil || len(nt.LayMap) != len(nt.Layers) {
		nt.MakeLayMap()
	}
	return nt.LayMap[name]
}

// LayerByNameTry returns a layer by looking it up by name -- emits a log
// error message if layer is not found
func (nt *NetworkStru) LayerByNameTry(name string) (*Layer, error) {
	ly := nt.LayerByName(name)
	if ly == nil {
		err := fmt.Errorf("Layer named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return ly, err
	}
	return ly, nil
}

// MakeLayMap updates layer map based on current layers
func (nt *NetworkStru) MakeLayMap() {
	nt.LayMap = make(map[string]*Layer, len(nt.Layers))
	for _, ly := range nt.Layers {
		nt.LayMap[ly.Name()] = ly
	}
}

// AddLayer adds a new layer with given name and shape to the network, at
// the end of the current list of layers.  Layers must be added in
// feed-forward order.  2D shapes are the standard, with the outer-most Y
// axis first.
func (nt *NetworkStru) AddLayer(name string, shape []int, typ emer.LayerType) *Layer {
	ly := &Layer{}
	ly.InitName(name)
	ly.Config(shape, typ)
	ly.Idx = len(nt.Layers)
	nt.Layers = append(nt.Layers, ly)
	nt.MakeLayMap()
	return ly
}

// AddLayer2D adds a new layer with given name and 2D shape to the network
func (nt *NetworkStru) AddLayer2D(name string, shapeY, shapeX int, typ emer.LayerType) *Layer {
	return nt.AddLayer(name, []int{shapeY, shapeX}, typ)
}

// ConnectLayerNames establishes a pathway between two layers, referenced by
// name, adding to the recv and send pathway lists on each side of the
// connection.  Returns error if layer names don't exist.
func (nt *NetworkStru) ConnectLayerNames(send, recv string, pat prjn.Pattern, typ emer.PrjnType) (rlay, slay *Layer, pj *Path, err error) {
	rlay, err = nt.LayerByNameTry(recv)
	if err != nil {
		return
	}
	slay, err = nt.LayerByNameTry(send)
	if err != nil {
		return
	}
	pj = nt.ConnectLayers(slay, rlay, pat, typ)
	return
}

// ConnectLayers establishes a pathway between two layers, adding to the
// recv and send pathway lists on each side of the connection.
// Does not yet actually connect the units within the layers -- that
// requires Build.
func (nt *NetworkStru) ConnectLayers(send, recv *Layer, pat prjn.Pattern, typ emer.PrjnType) *Path {
	pj := &Path{}
	pj.Connect(send, recv, pat, typ)
	recv.RcvPaths = append(recv.RcvPaths, pj)
	send.SndPaths = append(send.SndPaths, pj)
	return pj
}

// Build constructs the layer and pathway state based on the layer shapes
// and patterns of interconnectivity
func (nt *NetworkStru) Build() error {
	var err error
	for li, ly := range nt.Layers {
		ly.Idx = li
		if ly.IsOff() {
			continue
		}
		if berr := ly.Build(); berr != nil {
			err = berr
		}
	}
	nt.MakeLayMap()
	return err
}

// ApplyParams applies given parameter style Sheet to layers and pathways in
// this network.  Calls UpdateParams to ensure derived parameters are all
// updated.  If setMsg is true, then a message is printed to confirm each
// parameter that is set.  it always prints a message if a parameter fails
// to be set.  returns true if any params were set, and error if there were
// any errors.
func (nt *NetworkStru) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, ly := range nt.Layers {
		app, err := ly.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// AllParams returns a listing of all parameters in the Network
func (nt *NetworkStru) AllParams() string {
	str := ""
	for _, ly := range nt.Layers {
		str += fmt.Sprintf("\nLayer: %v\n\tAct: %#v\n\tLearn: %#v\n", ly.Name(), ly.Act, ly.Learn)
		for _, pj := range ly.RcvPaths {
			str += fmt.Sprintf("Path: %v\n\tLearn: %#v\n", pj.Name(), pj.Learn)
		}
	}
	return str
}

// SizeReport returns a string reporting the size of each layer and pathway
// in the network, and total memory footprint.
func (nt *NetworkStru) SizeReport() string {
	var b strings.Builder
	neur := 0
	neurMem := 0
	syn := 0
	synMem := 0
	for _, ly := range nt.Layers {
		nn := len(ly.Neurons)
		nmem := nn * int(unsafe.Sizeof(Neuron{}))
		neur += nn
		neurMem += nmem
		fmt.Fprintf(&b, "%14s:\t Neurons: %d\t NeurMem: %v \t Sends To:\n", ly.Nm, nn, (datasize.ByteSize)(nmem).HumanReadable())
		for _, pj := range ly.SndPaths {
			ns := len(pj.Syns)
			syn += ns
			pmem := ns*int(unsafe.Sizeof(Synapse{})) + len(pj.GInc)*4
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynMem: %v\n", pj.Recv.Name(), ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Neurons: %d\t NeurMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, neur, (datasize.ByteSize)(neurMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// SaveWtsJSON saves network weights (and any other state that adapts with
// learning) to a JSON-formatted file.  If filename has .gz extension, then
// file is gzip compressed.
func (nt *NetworkStru) SaveWtsJSON(filename gi.FileName) error {
	fp, err := os.Create(string(filename))
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	nt.WtsFile = string(filename)
	ext := filepath.Ext(string(filename))
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		nt.WriteWtsJSON(gzr)
	} else {
		nt.WriteWtsJSON(fp)
	}
	return nil
}

// OpenWtsJSON opens network weights (and any other state that adapts with
// learning) from a JSON-formatted file.  If filename has .gz extension,
// then file is gzip uncompressed.
func (nt *NetworkStru) OpenWtsJSON(filename gi.FileName) error {
	fp, err := os.Open(string(filename))
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	nt.WtsFile = string(filename)
	ext := filepath.Ext(string(filename))
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		defer gzr.Close()
		if err != nil {
			log.Println(err)
			return err
		}
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weights from this network in a JSON text format.
// We build in the indentation logic to make it much faster and more
// efficient.
func (nt *NetworkStru) WriteWtsJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm))) // note: can't use \n in `` so need "
	w.Write(indent.TabBytes(depth))
	onls := make([]*Layer, 0, len(nt.Layers))
	for _, ly := range nt.Layers {
		if !ly.IsOff() {
			onls = append(onls, ly)
		}
	}
	nl := len(onls)
	if nl == 0 {
		w.Write([]byte("\"Layers\": null\n"))
	} else {
		w.Write([]byte("\"Layers\": [\n"))
		depth++
		for li, ly := range onls {
			ly.WriteWtsJSON(w, depth)
			if li == nl-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}

// ReadWtsJSON reads network weights from the given reader, in the JSON
// format written by WriteWtsJSON, and sets them on the network
func (nt *NetworkStru) ReadWtsJSON(r io.Reader) error {
	nw, err := NetworkWtsFromJSON(r)
	if err != nil {
		return err
	}
	return nt.SetWts(nw)
}

// SetWts sets the weights for this network from weights file data
func (nt *NetworkStru) SetWts(nw *WtsNetwork) error {
	var err error
	if nw.Network != "" {
		nt.Nm = nw.Network
	}
	for i := range nw.Layers {
		lw := &nw.Layers[i]
		ly, lerr := nt.LayerByNameTry(lw.Layer)
		if lerr != nil {
			err = lerr
			continue
		}
		if serr := ly.SetWts(lw); serr != nil {
			err = serr
		}
	}
	return err
}
