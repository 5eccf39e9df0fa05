package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"caracal/emu/log"
)

type (
	CLI struct {
		Run      Run      `cmd:"" help:"Run an image headless." default:"withargs"`
		RomInfos RomInfos `cmd:"" help:"Show image infos." name:"rom-infos"`
		Version  Version  `cmd:"" help:"Show caracal version."`

		Log logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
	}

	Run struct {
		RomPath string `arg:"" name:"/path/to/image" help:"${rompath_help}" required:"true" type:"existingfile"`

		Frames   int      `name:"frames" help:"Number of frames to emulate." default:"60"`
		Boot     string   `name:"boot" help:"Path to a 512-byte boot ROM." type:"existingfile"`
		Out      string   `name:"out" help:"Write the last frame as PNG." type:"path"`
		Trace    *outfile `name:"trace" help:"Write CPU trace log." placeholder:"FILE|stdout|stderr"`
		Detailed bool     `name:"detailed-serial" help:"Use the per-bit serial backend."`
	}

	RomInfos struct {
		RomPath string `arg:"" name:"/path/to/image" type:"existingfile"`
	}

	Version struct{}
)

var vars = kong.Vars{
	"rompath_help": "Cart dump (.lnx, raw) or BS93 program to run.",
	"log_help":     "Enable debug logging for specified modules.",
}

func parseArgs(args []string) (*CLI, *kong.Context) {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("caracal"),
		kong.Description("Handheld console emulator core."),
		kong.UsageOnError(),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	parser.FatalIfErrorf(err)
	log.EnableDebugModules(cfg.Log.mask)
	return &cfg, ctx
}

// logModMask parses a comma-separated module list into a debug mask.
type logModMask struct {
	mask log.ModuleMask
}

func (m *logModMask) UnmarshalText(text []byte) error {
	for _, name := range strings.Split(string(text), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		mod, ok := log.ModuleByName(name)
		if !ok {
			return fmt.Errorf("unknown log module %q (have: %s)",
				name, strings.Join(log.ModuleNames(), ","))
		}
		m.mask |= mod.Mask()
	}
	return nil
}

// outfile handles the FILE|stdout|stderr flag values.
type outfile struct {
	w    io.WriteCloser
	name string
}

func (f *outfile) UnmarshalText(text []byte) error {
	f.name = string(text)
	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		w, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = w
	}
	return nil
}
