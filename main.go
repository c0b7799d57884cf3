package main

import (
	"fmt"
	"log/slog"
	"os"

	"customfolder/glyph"
	"customfolder/palette"
	"customfolder/parallel"
	"customfolder/studio"

	"github.com/alecthomas/kong"
)

type SymbolsCmd struct{}

func (c *SymbolsCmd) Run() error {
	for _, name := range glyph.Names() {
		fmt.Println(name)
	}
	return nil
}

type SwatchesCmd struct {
	Palette string `help:"PAL file in RIFF format to list instead of the built-in swatches" type:"existingfile"`
	Nearest string `help:"Only print the swatch closest to this hex color"`
	Export  string `help:"Write the swatches to this PAL file"`
}

func (c *SwatchesCmd) Run() error {
	swatches := palette.Builtin()
	if c.Palette != "" {
		var err error
		if swatches, err = palette.Load(c.Palette); err != nil {
			return err
		}
	}

	if c.Export != "" {
		if err := swatches.Save(c.Export); err != nil {
			return err
		}
		slog.Info("palette written", "out", c.Export, "swatches", len(swatches))
	}

	if c.Nearest != "" {
		col, err := palette.Palette(nil).ParseColor(c.Nearest)
		if err != nil {
			return err
		}
		if s, ok := swatches.Nearest(col); ok {
			fmt.Printf("%s\t%s\n", s.Name, palette.Hex(s.Color))
		}
		return nil
	}

	for _, s := range swatches {
		fmt.Printf("%s\t%s\n", s.Name, palette.Hex(s.Color))
	}
	return nil
}

type CLI struct {
	Debug   bool `help:"Log debug messages"`
	Workers int  `help:"Raster workers, 0 for one per CPU" default:"0"`

	Preview  studio.PreviewCmd `cmd:"" help:"Render the folder icon to an image file"`
	Apply    studio.ApplyCmd   `cmd:"" help:"Set the rendered icon on a folder"`
	Reset    studio.ResetCmd   `cmd:"" help:"Remove the custom icon of a folder"`
	Reveal   studio.RevealCmd  `cmd:"" help:"Show a folder in the file manager"`
	Symbols  SymbolsCmd        `cmd:"" help:"List the available symbols"`
	Swatches SwatchesCmd       `cmd:"" help:"List, convert or match tint swatches"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("customfolder"),
		kong.Description("Give folders a tinted icon with an image or symbol on top."),
		kong.UsageOnError(),
	)

	if cli.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	parallel.SetDefault(cli.Workers)
	defer parallel.Default().Cancel()

	slog.Debug("running", "command", kctx.Command())
	if err := kctx.Run(); err != nil {
		slog.Error("command failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
