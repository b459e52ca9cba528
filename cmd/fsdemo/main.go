// Command fsdemo renders a line of text through the glyph shader programs
// on the CPU and writes it as PNG. With -dump it prints the shader sources
// instead.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/naga/glsl"

	"github.com/gogpu/fontstash"
	"github.com/gogpu/fontstash/shaders"
)

func main() {
	var (
		text    = flag.String("text", "Hello, fontstash!", "text to render")
		size    = flag.Float64("size", 48, "font size in pixels")
		width   = flag.Int("width", 640, "image width")
		height  = flag.Int("height", 160, "image height")
		angle   = flag.Float64("angle", 0, "rotation in degrees")
		color   = flag.String("color", "#000000", "fill color")
		outline = flag.String("outline", "", "outline color, empty for none")
		mix     = flag.Float64("mix", 1, "u_mixFactor: 0 outline only, 1 fill only")
		bg      = flag.String("bg", "#ffffff", "background color")
		mode    = flag.String("mode", "sdf", "fragment program: sdf or default")
		shaped  = flag.Bool("shape", false, "shape with HarfBuzz instead of the kern table")
		output  = flag.String("output", "fsdemo.png", "output file")
		dump    = flag.String("dump", "", "print shaders instead of rendering: glsl, wgsl or glsl330")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		fontstash.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *dump != "" {
		if err := dumpShaders(os.Stdout, *dump); err != nil {
			log.Fatalf("dump: %v", err)
		}
		return
	}

	m, err := fontstash.ParseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}
	u := fontstash.DefaultSDFUniforms()
	u.Color = fontstash.Hex(*color)
	u.MixFactor = *mix
	if *outline != "" {
		u.OutlineColor = fontstash.Hex(*outline)
	}

	sc := scene{
		text:   *text,
		size:   *size,
		width:  *width,
		height: *height,
		theta:  *angle * math.Pi / 180,
		shaped: *shaped,
	}
	img, err := sc.render(u, fontstash.WithMode(m), fontstash.WithBackground(fontstash.Hex(*bg)))
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

func dumpShaders(w io.Writer, kind string) error {
	switch kind {
	case "glsl":
		for _, p := range shaders.Programs() {
			fmt.Fprintf(w, "// %s\n%s\n", p.Name, p.Source())
		}
	case "wgsl":
		if err := shaders.Validate(); err != nil {
			return err
		}
		fmt.Fprintln(w, shaders.GlyphWGSL())
	case "glsl330":
		for _, entry := range []string{shaders.EntryVertex, shaders.EntrySDFFragment, shaders.EntryDefaultFragment} {
			src, err := shaders.TranslateGLSL(entry, glsl.Version330)
			if err != nil {
				return fmt.Errorf("%s: %w", entry, err)
			}
			fmt.Fprintf(w, "// %s\n%s\n", entry, src)
		}
	default:
		return fmt.Errorf("unknown shader dump %q", kind)
	}
	return nil
}
