package main

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"

	"caracal/emu"
	"caracal/hw"
	"caracal/lnx"
)

// runImage emulates an image headless for a number of frames, printing a
// checksum per frame so runs can be compared across hosts.
func runImage(cmd *Run) {
	img, err := lnx.Open(cmd.RomPath)
	checkf(err, "failed to open image %s", cmd.RomPath)

	cfg := emu.LoadConfigOrDefault()
	cfg.Emulation.DetailedSerial = cmd.Detailed
	if cmd.Trace != nil {
		cfg.TraceOut = cmd.Trace.w
	}

	e, err := emu.Launch(img, cfg)
	checkf(err, "failed to launch emulator")

	if cmd.Boot != "" {
		boot, err := os.ReadFile(cmd.Boot)
		checkf(err, "failed to read boot ROM")
		copy(e.Core.MMU.Boot[:], boot)
		e.Core.Reset()
	}

	var last *hw.Frame
	for i := 0; i < cmd.Frames; i++ {
		frame, reason := e.Core.RunFrame()
		if reason != hw.BreakNone {
			fmt.Printf("frame %d: stopped (%s)\n", i, reason)
			break
		}
		if frame == nil {
			fmt.Printf("frame %d: display not running\n", i)
			break
		}
		last = frame
		fmt.Printf("frame %d: crc32 %08x\n", i, frameCRC(frame))
	}

	if cmd.Out != "" && last != nil {
		checkf(savePNG(last, cmd.Out), "failed to write %s", cmd.Out)
	}
}

func frameCRC(f *hw.Frame) uint32 {
	buf := make([]byte, 0, len(f.Pixels)*4)
	for _, px := range f.Pixels {
		buf = append(buf, byte(px>>24), byte(px>>16), byte(px>>8), byte(px))
	}
	return crc32.ChecksumIEEE(buf)
}

func savePNG(f *hw.Frame, path string) error {
	out := image.NewRGBA(image.Rect(0, 0, hw.ScreenWidth, hw.ScreenHeight))
	for y := 0; y < hw.ScreenHeight; y++ {
		for x := 0; x < hw.ScreenWidth; x++ {
			px := f.Pixels[y*hw.ScreenWidth+x]
			out.Set(x, y, color.RGBA{
				R: uint8(px >> 16),
				G: uint8(px >> 8),
				B: uint8(px),
				A: uint8(px >> 24),
			})
		}
	}

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return png.Encode(w, out)
}
