// Copyright 2024 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package respng

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// NinePatch is the stretch/padding metadata encoded in a 9-patch's
// 1-pixel border (spec §GLOSSARY "9-patch").
type NinePatch struct {
	// XDivs and YDivs are [start,end) pixel ranges, in interior
	// (border-stripped) coordinates, that may stretch.
	XDivs [][2]int
	YDivs [][2]int
	// PaddingLeft/Right/Top/Bottom is the content area, in interior
	// coordinates.
	PaddingLeft, PaddingRight, PaddingTop, PaddingBottom int
}

func isOpaqueBlack(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return r == 0 && g == 0 && b == 0 && a == 0xffff
}

// ParseNinePatch reads the 1-pixel border of img (which must be at
// least 3x3) and constructs its NinePatch metadata (spec §4.5 step 4).
// It does not modify img; callers strip the border separately.
func ParseNinePatch(img image.Image) (*NinePatch, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("respng: 9-patch image too small (%dx%d)", w, h)
	}

	np := &NinePatch{}
	np.XDivs = runsOf(w-2, func(i int) bool {
		return isOpaqueBlack(img.At(b.Min.X+1+i, b.Min.Y))
	})
	np.YDivs = runsOf(h-2, func(i int) bool {
		return isOpaqueBlack(img.At(b.Min.X, b.Min.Y+1+i))
	})

	left, right := paddingRun(w-2, func(i int) bool {
		return isOpaqueBlack(img.At(b.Min.X+1+i, b.Max.Y-1))
	})
	top, bottom := paddingRun(h-2, func(i int) bool {
		return isOpaqueBlack(img.At(b.Max.X-1, b.Min.Y+1+i))
	})
	np.PaddingLeft, np.PaddingRight = left, w-2-right
	np.PaddingTop, np.PaddingBottom = top, h-2-bottom

	return np, nil
}

// runsOf scans n positions and returns the maximal [start,end) runs
// where marked(i) is true, used to decode stretch regions from a
// border row/column of black/transparent pixels.
func runsOf(n int, marked func(i int) bool) [][2]int {
	var runs [][2]int
	start := -1
	for i := 0; i < n; i++ {
		if marked(i) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			runs = append(runs, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, [2]int{start, n})
	}
	return runs
}

// paddingRun returns the [start,end) of the single marked run along a
// content-padding border line, defaulting to the full line when none is
// marked (matching aapt2's "no padding line means stretch across the
// whole content area").
func paddingRun(n int, marked func(i int) bool) (start, end int) {
	runs := runsOf(n, marked)
	if len(runs) == 0 {
		return 0, n
	}
	return runs[0][0], runs[0][1]
}

// StripBorder constructs a fresh (height-2)x(width-2) RGBA raster from
// img's interior, discarding the 1-pixel 9-patch border (spec §4.5
// step 4, §9 "9-patch border strip": "a reimplementation may simply
// construct a fresh raster; the in-place shuffle is an optimization,
// not a contract").
func StripBorder(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx()-2, b.Dy()-2
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, img.At(b.Min.X+1+x, b.Min.Y+1+y))
		}
	}
	return out
}

// Marshal encodes np into the payload carried by the npTc chunk.
func (np *NinePatch) Marshal() []byte {
	var buf bytes.Buffer
	writeDivs(&buf, np.XDivs)
	writeDivs(&buf, np.YDivs)
	binary.Write(&buf, binary.BigEndian, int32(np.PaddingLeft))
	binary.Write(&buf, binary.BigEndian, int32(np.PaddingRight))
	binary.Write(&buf, binary.BigEndian, int32(np.PaddingTop))
	binary.Write(&buf, binary.BigEndian, int32(np.PaddingBottom))
	return buf.Bytes()
}

func writeDivs(buf *bytes.Buffer, divs [][2]int) {
	binary.Write(buf, binary.BigEndian, int32(len(divs)))
	for _, d := range divs {
		binary.Write(buf, binary.BigEndian, int32(d[0]))
		binary.Write(buf, binary.BigEndian, int32(d[1]))
	}
}
