package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 32

// iconData is the tray icon: a round badge with two status lines.
var iconData = platformIcon(drawIcon())

func drawIcon() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
	badge := color.NRGBA{R: 0x58, G: 0x65, B: 0xF2, A: 0xFF}
	line := color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	c := float64(iconSize-1) / 2
	r2 := c * c
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy <= r2 {
				img.SetNRGBA(x, y, badge)
			}
		}
	}

	// Details line is longer than the state line.
	for y := 11; y < 14; y++ {
		for x := 8; x < 24; x++ {
			img.SetNRGBA(x, y, line)
		}
	}
	for y := 18; y < 21; y++ {
		for x := 8; x < 19; x++ {
			img.SetNRGBA(x, y, line)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// platformIcon wraps the PNG in an ICO container on Windows, where the tray
// only loads icon files.
func platformIcon(pngData []byte) []byte {
	if runtime.GOOS == "windows" {
		return wrapICO(pngData, iconSize)
	}
	return pngData
}

// wrapICO builds a single-image ICO file holding pngData.
func wrapICO(pngData []byte, size int) []byte {
	const headerLen = 6 + 16

	var buf bytes.Buffer
	// ICONDIR: reserved, type 1 (icon), one image
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint16{0, 1, 1})
	// ICONDIRENTRY
	buf.WriteByte(byte(size))
	buf.WriteByte(byte(size))
	buf.WriteByte(0) // palette
	buf.WriteByte(0) // reserved
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))  // planes
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32)) // bpp
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(headerLen))
	buf.Write(pngData)
	return buf.Bytes()
}
