package spritefont

import (
	"encoding/xml"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mochifont/spritefont/internal/rasterimg"
	"github.com/mochifont/spritefont/internal/texcache"
)

// globalCache is the process-wide texture cache Save registers pages
// into and Load falls back to when the caller passes a nil cache,
// matching the "texture cache keyed by file path" external collaborator
// and its process-wide, shared-ownership model.
var globalCache = texcache.New()

// DefaultCache returns the process-wide texture cache used by Save and
// by Load when called with a nil cache.
func DefaultCache() *texcache.Cache { return globalCache }

type xmlFont struct {
	XMLName xml.Name  `xml:"font"`
	Info    xmlInfo   `xml:"info"`
	Common  xmlCommon `xml:"common"`
	Pages   xmlPages  `xml:"pages"`
	Chars   xmlChars  `xml:"chars"`
}

type xmlInfo struct {
	Face string `xml:"face,attr"`
	Size int    `xml:"size,attr"`
}

type xmlCommon struct {
	LineHeight int `xml:"lineHeight,attr"`
	Pages      int `xml:"pages,attr"`
}

type xmlPages struct {
	Page []xmlPage `xml:"page"`
}

type xmlPage struct {
	ID   int    `xml:"id,attr"`
	File string `xml:"file,attr"`
}

type xmlChars struct {
	Count int       `xml:"count,attr"`
	Char  []xmlChar `xml:"char"`
}

type xmlChar struct {
	ID       uint32 `xml:"id,attr"`
	X        int    `xml:"x,attr"`
	Y        int    `xml:"y,attr"`
	Width    int    `xml:"width,attr"`
	Height   int    `xml:"height,attr"`
	XOffset  int32  `xml:"xoffset,attr"`
	YOffset  int32  `xml:"yoffset,attr"`
	AdvanceX int32  `xml:"advance_x,attr"`
	Page     int32  `xml:"page,attr"`
}

// Save writes f's atlas pages as PNGs alongside path and an XML index at
// path itself. path's extension, if present, must be "fnt".
//
// Pages are written before the extension is validated, so a save that
// fails the extension check can still leave earlier PNGs on disk. Save
// is not atomic; callers that need a consistent directory on failure
// must write to a temporary location and rename it into place
// themselves.
func (f *SpriteFont) Save(path string) error {
	for i, tex := range f.textures {
		if tex.Image == nil {
			Logger().Error("save: page has no image data", "page", i)
			return ErrMissingPageImage
		}
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	stem := strings.TrimSuffix(path, filepath.Ext(path))

	pngPaths := make([]string, len(f.textures))
	for i, tex := range f.textures {
		pngPath := fmt.Sprintf("%s_%d.png", stem, i)
		if err := writePNG(pngPath, tex.Image); err != nil {
			Logger().Error("save: failed writing page", "path", pngPath, "error", err)
			return fmt.Errorf("spritefont: save: %w", err)
		}
		pngPaths[i] = pngPath
		globalCache.Add(pngPath, tex)
	}

	if ext != "" && ext != "fnt" {
		Logger().Error("save: bad extension", "path", path)
		return ErrBadExtension
	}

	chars := make([]xmlChar, 0, len(f.glyphs))
	for cp, g := range f.glyphs {
		chars = append(chars, xmlChar{
			ID: uint32(cp), X: g.Rect.X, Y: g.Rect.Y, Width: g.Rect.W, Height: g.Rect.H,
			XOffset: g.OffsetX, YOffset: g.OffsetY, AdvanceX: g.AdvanceX, Page: g.Page,
		})
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID < chars[j].ID })

	doc := xmlFont{
		Info:   xmlInfo{Face: f.faceName, Size: f.sourceSize},
		Common: xmlCommon{LineHeight: f.lineHeight, Pages: len(f.textures)},
		Pages:  xmlPages{Page: make([]xmlPage, len(pngPaths))},
		Chars:  xmlChars{Count: len(chars), Char: chars},
	}
	for i, p := range pngPaths {
		doc.Pages.Page[i] = xmlPage{ID: i, File: filepath.Base(p)}
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("spritefont: save: %w", err)
	}
	out = append([]byte(xml.Header), out...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		Logger().Error("save: failed writing index", "path", path, "error", err)
		return fmt.Errorf("spritefont: save: %w", err)
	}
	return nil
}

// Load reads an index file previously written by Save and reconstructs
// its SpriteFont, fetching page textures from cache (or the process-wide
// default cache, if cache is nil) keyed by the page's path alongside the
// index file. Kerning pairs, if present in the file, are ignored.
func Load(path string, cache *texcache.Cache) (*SpriteFont, error) {
	if cache == nil {
		cache = globalCache
	}

	data, err := os.ReadFile(path)
	if err != nil {
		Logger().Error("load: failed reading index", "path", path, "error", err)
		return &SpriteFont{glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: load: %w", err)
	}

	var doc xmlFont
	if err := xml.Unmarshal(data, &doc); err != nil {
		Logger().Error("load: invalid xml", "path", path, "error", err)
		return &SpriteFont{glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: load %s: %w: %w", path, ErrInvalidIndex, err)
	}
	if len(doc.Pages.Page) == 0 {
		Logger().Error("load: index has no pages", "path", path)
		return &SpriteFont{glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: load %s: %w", path, ErrInvalidIndex)
	}

	dir := filepath.Dir(path)
	textures := make([]*texcache.Texture, len(doc.Pages.Page))
	for _, pg := range doc.Pages.Page {
		if pg.ID < 0 || pg.ID >= len(textures) {
			continue
		}
		fullPath := filepath.Join(dir, pg.File)
		tex, ok := cache.Get(fullPath)
		if !ok {
			img, err := readPNG(fullPath)
			if err != nil {
				Logger().Error("load: failed reading page", "path", fullPath, "error", err)
				return &SpriteFont{glyphs: map[rune]Glyph{}}, fmt.Errorf("spritefont: load: %w", err)
			}
			tex = cache.Add(fullPath, &texcache.Texture{Image: img})
		}
		textures[pg.ID] = tex
	}

	glyphs := make(map[rune]Glyph, len(doc.Chars.Char))
	for _, c := range doc.Chars.Char {
		glyphs[rune(c.ID)] = Glyph{
			Rect:     Rect{X: c.X, Y: c.Y, W: c.Width, H: c.Height},
			OffsetX:  c.XOffset,
			OffsetY:  c.YOffset,
			AdvanceX: c.AdvanceX,
			Page:     c.Page,
		}
	}

	return &SpriteFont{
		faceName:   doc.Info.Face,
		sourceSize: doc.Info.Size,
		lineHeight: doc.Common.LineHeight,
		textures:   textures,
		glyphs:     glyphs,
	}, nil
}

func writePNG(path string, im *rasterimg.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, toGoImage(im))
}

func readPNG(path string) (*rasterimg.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	return fromGoImage(src), nil
}

func toGoImage(im *rasterimg.Image) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			px := im.At(x, y)
			var c color.NRGBA
			if im.Components == 4 {
				c = color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
			} else {
				c = color.NRGBA{R: px[0], G: px[0], B: px[0], A: 255}
			}
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

func fromGoImage(src image.Image) *rasterimg.Image {
	b := src.Bounds()
	out := rasterimg.New(b.Dx(), b.Dy(), 4)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Set(x, y, []byte{byte(r >> 8), byte(g >> 8), byte(bl >> 8), byte(a >> 8)})
		}
	}
	return out
}
