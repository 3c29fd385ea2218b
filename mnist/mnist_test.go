// Copyright (c) 2024, The Lifnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mnist

import (
	"compress/gzip"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// writeIDX writes a gzipped IDX file with the given header words and data
func writeIDX(t *testing.T, fnm string, hdr []uint32, data []byte) {
	fp, err := os.Create(fnm)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	gzw := gzip.NewWriter(fp)
	defer gzw.Close()
	for _, h := range hdr {
		if err := binary.Write(gzw, binary.BigEndian, h); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := gzw.Write(data); err != nil {
		t.Fatal(err)
	}
}

func writeFakeSet(t *testing.T, dir string, n int) (imgFile, lblFile string) {
	npix := ImgSize * ImgSize
	pix := make([]byte, n*npix)
	lbls := make([]byte, n)
	for i := 0; i < n; i++ {
		lbls[i] = byte(i % 10)
		// put the label value in the first pixel for identification
		pix[i*npix] = byte(25 * (i % 10))
	}
	imgFile = filepath.Join(dir, TrainImages)
	lblFile = filepath.Join(dir, TrainLabels)
	writeIDX(t, imgFile, []uint32{imgMagic, uint32(n), ImgSize, ImgSize}, pix)
	writeIDX(t, lblFile, []uint32{lblMagic, uint32(n)}, lbls)
	return
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	imgFile, lblFile := writeFakeSet(t, dir, 12)

	dt, err := Open(imgFile, lblFile)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Rows != 12 {
		t.Fatalf("rows: %v != 12", dt.Rows)
	}
	for i := 0; i < dt.Rows; i++ {
		lbl := int(dt.CellFloat("Label", i))
		if lbl != i%10 {
			t.Errorf("row %v label: %v != %v", i, lbl, i%10)
		}
		img := dt.CellTensor("Image", i)
		if img.Dim(0) != ImgSize || img.Dim(1) != ImgSize {
			t.Errorf("row %v image shape: %v x %v", i, img.Dim(0), img.Dim(1))
		}
		exp := float64(25*lbl) / 255
		if got := img.FloatVal1D(0); got < exp-1e-6 || got > exp+1e-6 {
			t.Errorf("row %v first pixel: %v != %v", i, got, exp)
		}
	}
}

func TestOpenSet(t *testing.T) {
	dir := t.TempDir()
	writeFakeSet(t, dir, 5)
	dt, err := OpenSet(dir, true)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Rows != 5 {
		t.Errorf("rows: %v != 5", dt.Rows)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := OpenSet(dir, false); err == nil {
		t.Errorf("missing files should error")
	}
	// wrong magic number
	bad := filepath.Join(dir, "bad.gz")
	writeIDX(t, bad, []uint32{1234, 1, ImgSize, ImgSize}, make([]byte, ImgSize*ImgSize))
	lbl := filepath.Join(dir, TrainLabels)
	writeIDX(t, lbl, []uint32{lblMagic, 1}, []byte{3})
	if _, err := Open(bad, lbl); err == nil {
		t.Errorf("bad magic number should error")
	}
}
