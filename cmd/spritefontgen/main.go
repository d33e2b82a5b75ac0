// Command spritefontgen rasterizes a TrueType/OpenType font into a
// bitmap sprite font: one or more PNG texture atlases plus an XML index
// mapping code point to glyph rectangle and layout metrics.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/mochifont/spritefont"
)

func main() {
	var (
		src          = flag.String("src", "", "source font file (.ttf/.otf/.ttc)")
		out          = flag.String("out", "out.fnt", "output index path (.fnt)")
		recipe       = flag.String("recipe", "simple", "simple, contour, or outlined")
		height       = flag.Int("height", 32, "glyph pixel height")
		antiAliasing = flag.Bool("aa", true, "antialiased (vs. monochrome) rendering")
		pageW        = flag.Int("page-width", 512, "atlas page width")
		pageH        = flag.Int("page-height", 512, "atlas page height")
		blurRadius   = flag.Int("blur", 0, "triangular blur radius in pixels")
		color        = flag.Uint("color", 0xFFFFFFFF, "fill color, 0xAABBGGRR")
		thickness    = flag.Float64("thickness", 2, "contour stroke / outlined border thickness in pixels")
		mainColor    = flag.Uint("main-color", 0xFFFFFFFF, "outlined: body color, 0xAABBGGRR")
		outlineColor = flag.Uint("outline-color", 0xFF000000, "outlined: border color, 0xAABBGGRR")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *src == "" {
		fmt.Fprintln(os.Stderr, "spritefontgen: -src is required")
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		spritefont.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	base := spritefont.BaseSettings{
		SrcPath:      *src,
		Height:       *height,
		AntiAliasing: *antiAliasing,
		TextureSize:  spritefont.Size{Width: *pageW, Height: *pageH},
	}

	var elapsed time.Duration
	var font *spritefont.SpriteFont
	var err error

	switch *recipe {
	case "simple":
		font, err = spritefont.BuildSimple(spritefont.SimpleSettings{
			Base:       base,
			BlurRadius: *blurRadius,
			Color:      uint32(*color),
		}, &elapsed)
	case "contour":
		font, err = spritefont.BuildContour(spritefont.ContourSettings{
			Base:       base,
			Thickness:  float32(*thickness),
			BlurRadius: *blurRadius,
			Color:      uint32(*color),
		}, &elapsed)
	case "outlined":
		font, err = spritefont.BuildOutlined(spritefont.OutlinedSettings{
			Base:              base,
			MainColor:         uint32(*mainColor),
			OutlineColor:      uint32(*outlineColor),
			OutlineThickness:  float32(*thickness),
			OutlineBlurRadius: *blurRadius,
		}, &elapsed)
	default:
		log.Fatalf("spritefontgen: unknown recipe %q (want simple, contour, or outlined)", *recipe)
	}
	if err != nil {
		log.Fatalf("spritefontgen: build failed: %v", err)
	}

	if err := font.Save(*out); err != nil {
		log.Fatalf("spritefontgen: save failed: %v", err)
	}

	log.Printf("wrote %s: %d glyphs, %d pages, built in %s",
		*out, len(font.Glyphs()), len(font.Textures()), elapsed)
}
