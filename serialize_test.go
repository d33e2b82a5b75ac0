package spritefont

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/mochifont/spritefont/internal/rasterimg"
	"github.com/mochifont/spritefont/internal/texcache"
)

// writeSolidPNG writes a size x size solid-white PNG to path, standing in
// for a page image Load must fetch from disk.
func writeSolidPNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

const handWrittenIndex = `<?xml version="1.0" encoding="UTF-8"?>
<font>
    <info face="hand.ttf" size="12"></info>
    <common lineHeight="24" pages="1"></common>
    <pages>
        <page id="0" file="hand_0.png"></page>
    </pages>
    <chars count="3">
        <char id="65" x="0" y="0" width="4" height="4" xoffset="0" yoffset="-10" advance_x="6" page="0"></char>
        <char id="66" x="4" y="0" width="4" height="4" xoffset="1" yoffset="-9" advance_x="7" page="0"></char>
        <char id="1071" x="8" y="0" width="4" height="4" xoffset="0" yoffset="-10" advance_x="8" page="0"></char>
    </chars>
</font>`

func TestLoadReadsHandWrittenIndex(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "hand.fnt")
	writeSolidPNG(t, filepath.Join(dir, "hand_0.png"), 16)
	if err := os.WriteFile(indexPath, []byte(handWrittenIndex), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	font, err := Load(indexPath, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if font.LineHeight() != 24 {
		t.Fatalf("LineHeight() = %d, want 24", font.LineHeight())
	}
	if len(font.Textures()) != 1 {
		t.Fatalf("got %d textures, want 1", len(font.Textures()))
	}
	if font.Textures()[0].Image.Width != 16 || font.Textures()[0].Image.Height != 16 {
		t.Fatalf("page image is %dx%d, want 16x16", font.Textures()[0].Image.Width, font.Textures()[0].Image.Height)
	}

	wantGlyphs := map[rune]Glyph{
		'A':    {Rect: Rect{X: 0, Y: 0, W: 4, H: 4}, OffsetX: 0, OffsetY: -10, AdvanceX: 6, Page: 0},
		'B':    {Rect: Rect{X: 4, Y: 0, W: 4, H: 4}, OffsetX: 1, OffsetY: -9, AdvanceX: 7, Page: 0},
		0x042F: {Rect: Rect{X: 8, Y: 0, W: 4, H: 4}, OffsetX: 0, OffsetY: -10, AdvanceX: 8, Page: 0},
	}
	if len(font.Glyphs()) != len(wantGlyphs) {
		t.Fatalf("got %d glyphs, want %d", len(font.Glyphs()), len(wantGlyphs))
	}
	for r, want := range wantGlyphs {
		got, ok := font.Glyph(r)
		if !ok {
			t.Fatalf("missing glyph %U", r)
		}
		if got != want {
			t.Fatalf("glyph %U = %+v, want %+v", r, got, want)
		}
	}
}

func TestLoadRejectsIndexWithNoPages(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "empty.fnt")
	body := `<?xml version="1.0" encoding="UTF-8"?>
<font>
    <info face="empty.ttf" size="12"></info>
    <common lineHeight="24" pages="0"></common>
    <pages></pages>
    <chars count="0"></chars>
</font>`
	if err := os.WriteFile(indexPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	if _, err := Load(indexPath, nil); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("err = %v, want ErrInvalidIndex", err)
	}
}

func TestLoadRejectsMalformedXML(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "broken.fnt")
	if err := os.WriteFile(indexPath, []byte("not xml at all"), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	if _, err := Load(indexPath, nil); !errors.Is(err, ErrInvalidIndex) {
		t.Fatalf("err = %v, want ErrInvalidIndex", err)
	}
}

// buildTestFont constructs a small, fully-populated SpriteFont directly,
// standing in for the result of a Build* call so Save/Load round trips
// can be exercised without parsing a real font file.
func buildTestFont() *SpriteFont {
	img := rasterimg.New(4, 4, 1)
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return &SpriteFont{
		faceName:   "test.ttf",
		sourceSize: 12,
		lineHeight: 16,
		textures:   []*texcache.Texture{{Image: img}},
		glyphs: map[rune]Glyph{
			'A':    {Rect: Rect{X: 0, Y: 0, W: 4, H: 4}, OffsetX: 0, OffsetY: -10, AdvanceX: 6, Page: 0},
			'B':    {Rect: Rect{X: 4, Y: 0, W: 4, H: 4}, OffsetX: 1, OffsetY: -9, AdvanceX: 7, Page: 0},
			0x042F: {Rect: Rect{X: 8, Y: 0, W: 4, H: 4}, OffsetX: 0, OffsetY: -10, AdvanceX: 8, Page: 0},
		},
	}
}

func TestSaveLoadRoundTripsGlyphsAndLineHeight(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.fnt")
	font := buildTestFont()

	cache := texcache.New()
	if err := font.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path, cache)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.LineHeight() != font.LineHeight() {
		t.Fatalf("LineHeight() = %d, want %d", loaded.LineHeight(), font.LineHeight())
	}
	if loaded.SourcePixelSize() != font.SourcePixelSize() {
		t.Fatalf("SourcePixelSize() = %d, want %d", loaded.SourcePixelSize(), font.SourcePixelSize())
	}
	for r, want := range font.Glyphs() {
		got, ok := loaded.Glyph(r)
		if !ok {
			t.Fatalf("loaded font missing glyph %U", r)
		}
		if got != want {
			t.Fatalf("loaded glyph %U = %+v, want %+v", r, got, want)
		}
	}
}

// TestSaveLoadSaveIsByteIdenticalXML rebuilds the index file from a
// loaded font and checks the XML text matches what the original Save
// produced byte for byte: Load must recover every field Save wrote,
// with no precision loss or reordering.
func TestSaveLoadSaveIsByteIdenticalXML(t *testing.T) {
	dir1, dir2 := t.TempDir(), t.TempDir()
	path1 := filepath.Join(dir1, "out.fnt")
	path2 := filepath.Join(dir2, "out.fnt")
	font := buildTestFont()

	if err := font.Save(path1); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	loaded, err := Load(path1, texcache.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loaded.Save(path2); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	want, err := os.ReadFile(path1)
	if err != nil {
		t.Fatalf("read first index: %v", err)
	}
	got, err := os.ReadFile(path2)
	if err != nil {
		t.Fatalf("read second index: %v", err)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("save->load->save index mismatch:\nfirst:\n%s\nsecond:\n%s", want, got)
	}
}

func TestSaveRejectsBadExtension(t *testing.T) {
	dir := t.TempDir()
	font := buildTestFont()
	if err := font.Save(filepath.Join(dir, "out.txt")); !errors.Is(err, ErrBadExtension) {
		t.Fatalf("err = %v, want ErrBadExtension", err)
	}
}

func TestSaveRejectsMissingPageImage(t *testing.T) {
	font := buildTestFont()
	font.textures[0].Image = nil
	dir := t.TempDir()
	if err := font.Save(filepath.Join(dir, "out.fnt")); !errors.Is(err, ErrMissingPageImage) {
		t.Fatalf("err = %v, want ErrMissingPageImage", err)
	}
}
