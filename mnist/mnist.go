// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package mnist reads the MNIST handwritten digit dataset from its standard
IDX-format files (optionally gzip-compressed) into etable.Table form, with
pixel intensities scaled to the 0..1 range for direct use as input
patterns.
*/
package mnist

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// ImgSize is the width and height of the MNIST images
const ImgSize = 28

// magic numbers of the IDX file formats
const (
	imgMagic = 2051
	lblMagic = 2049
)

// standard MNIST filenames
const (
	TrainImages = "train-images-idx3-ubyte.gz"
	TrainLabels = "train-labels-idx1-ubyte.gz"
	TestImages  = "t10k-images-idx3-ubyte.gz"
	TestLabels  = "t10k-labels-idx1-ubyte.gz"
)

// OpenSet opens the standard train or test split from the given directory,
// using the standard MNIST filenames
func OpenSet(dir string, train bool) (*etable.Table, error) {
	if train {
		return Open(filepath.Join(dir, TrainImages), filepath.Join(dir, TrainLabels))
	}
	return Open(filepath.Join(dir, TestImages), filepath.Join(dir, TestLabels))
}

// Open reads MNIST images and labels from the given pair of IDX-format
// files (gzip-compressed if the filename has a .gz extension), returning a
// table with columns: Name (string), Image (float32 [28,28], 0..1), and
// Label (int).
func Open(imgFile, lblFile string) (*etable.Table, error) {
	imgs, err := readImages(imgFile)
	if err != nil {
		return nil, err
	}
	lbls, err := readLabels(lblFile)
	if err != nil {
		return nil, err
	}
	n := len(lbls)
	if len(imgs) != n*ImgSize*ImgSize {
		return nil, fmt.Errorf("mnist: %v has %v images but %v has %v labels", imgFile, len(imgs)/(ImgSize*ImgSize), lblFile, n)
	}
	sch := etable.Schema{
		{"Name", etensor.STRING, nil, nil},
		{"Image", etensor.FLOAT32, []int{ImgSize, ImgSize}, []string{"Y", "X"}},
		{"Label", etensor.INT64, nil, nil},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, n)
	npix := ImgSize * ImgSize
	for i := 0; i < n; i++ {
		dt.SetCellString("Name", i, fmt.Sprintf("img_%05d", i))
		img := dt.CellTensor("Image", i).(*etensor.Float32)
		for pi := 0; pi < npix; pi++ {
			img.Values[pi] = float32(imgs[i*npix+pi]) / 255
		}
		dt.SetCellFloat("Label", i, float64(lbls[i]))
	}
	return dt, nil
}

// openReader opens the given file, transparently gunzipping .gz files.
// The returned closer closes both the decompressor and the file.
func openReader(fnm string) (io.Reader, func() error, error) {
	fp, err := os.Open(fnm)
	if err != nil {
		return nil, nil, err
	}
	if filepath.Ext(fnm) != ".gz" {
		return fp, fp.Close, nil
	}
	gzr, err := gzip.NewReader(fp)
	if err != nil {
		fp.Close()
		return nil, nil, err
	}
	cls := func() error {
		gzr.Close()
		return fp.Close()
	}
	return gzr, cls, nil
}

// readImages reads an IDX3 image file, returning the raw pixel bytes in
// image-major order
func readImages(fnm string) ([]byte, error) {
	r, cls, err := openReader(fnm)
	if err != nil {
		return nil, err
	}
	defer cls()
	var hdr [4]uint32
	for i := range hdr {
		if err := binary.Read(r, binary.BigEndian, &hdr[i]); err != nil {
			return nil, fmt.Errorf("mnist: %v: bad header: %v", fnm, err)
		}
	}
	if hdr[0] != imgMagic {
		return nil, fmt.Errorf("mnist: %v: magic number %v != %v -- not an IDX image file", fnm, hdr[0], imgMagic)
	}
	n, rows, cols := int(hdr[1]), int(hdr[2]), int(hdr[3])
	if rows != ImgSize || cols != ImgSize {
		return nil, fmt.Errorf("mnist: %v: image size %vx%v != %vx%v", fnm, rows, cols, ImgSize, ImgSize)
	}
	pix := make([]byte, n*rows*cols)
	if _, err := io.ReadFull(r, pix); err != nil {
		return nil, fmt.Errorf("mnist: %v: truncated image data: %v", fnm, err)
	}
	return pix, nil
}

// readLabels reads an IDX1 label file
func readLabels(fnm string) ([]byte, error) {
	r, cls, err := openReader(fnm)
	if err != nil {
		return nil, err
	}
	defer cls()
	var hdr [2]uint32
	for i := range hdr {
		if err := binary.Read(r, binary.BigEndian, &hdr[i]); err != nil {
			return nil, fmt.Errorf("mnist: %v: bad header: %v", fnm, err)
		}
	}
	if hdr[0] != lblMagic {
		return nil, fmt.Errorf("mnist: %v: magic number %v != %v -- not an IDX label file", fnm, hdr[0], lblMagic)
	}
	lbls := make([]byte, int(hdr[1]))
	if _, err := io.ReadFull(r, lbls); err != nil {
		return nil, fmt.Errorf("mnist: %v: truncated label data: %v", fnm, err)
	}
	return lbls, nil
}
