package main

import (
	"fmt"
	"os"

	"caracal/lnx"
)

const version = "0.1.0"

func main() {
	cfg, ctx := parseArgs(os.Args[1:])

	switch ctx.Command() {
	case "run </path/to/image>":
		runImage(&cfg.Run)
	case "rom-infos </path/to/image>":
		img, err := lnx.Open(cfg.RomInfos.RomPath)
		checkf(err, "failed to open image")
		printInfos(img)
	case "version":
		fmt.Println("caracal", version)
	default:
		fatalf("unknown command %q", ctx.Command())
	}
}

func printInfos(img *lnx.Image) {
	switch img.Kind {
	case lnx.KindBS93:
		fmt.Printf("BS93 program: %d bytes at $%04X\n", len(img.Program), img.LoadAddr)
	case lnx.KindCart:
		fmt.Printf("cart: %q by %q\n", img.Title, img.Manufacturer)
		fmt.Printf("bank 0: %d bytes (A: %d)\n", len(img.Bank0), len(img.Bank0A))
		fmt.Printf("bank 1: %d bytes (A: %d)\n", len(img.Bank1), len(img.Bank1A))
		fmt.Printf("rotation: %d, audin: %d, eeprom: %d\n",
			img.Rotation, img.AudIn, img.EEPROM)
	}
}

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s: %s\n", fmt.Sprintf(format, args...), err)
	os.Exit(1)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: %s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
