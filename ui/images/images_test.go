package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/soocke/rootmark-go/imgproc"
)

func grayRect(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestOverlayTintsOnlyMaskedPixels(t *testing.T) {
	px := grayRect(4, 4, 100)
	mask := imgproc.NewBitmap(4, 4)
	mask.Set(1, 1, true)

	out := Overlay(px, mask)
	if out == nil {
		t.Fatal("nil overlay")
	}
	plain := out.RGBAAt(0, 0)
	if plain.R != 100 || plain.G != 100 || plain.B != 100 {
		t.Errorf("unmasked pixel = %v, want gray 100", plain)
	}
	tinted := out.RGBAAt(1, 1)
	if tinted.R <= tinted.G || tinted.R <= tinted.B {
		t.Errorf("masked pixel %v is not red-tinted", tinted)
	}
}

func TestOverlayHandlesSubImageOrigin(t *testing.T) {
	base := grayRect(8, 8, 200)
	sub := base.SubImage(image.Rect(4, 4, 8, 8)).(*image.Gray)
	mask := imgproc.NewBitmap(4, 4)

	out := Overlay(sub, mask)
	if b := out.Bounds(); b.Min != image.Pt(0, 0) || b.Dx() != 4 {
		t.Fatalf("overlay bounds %v, want zero-based 4x4", b)
	}
	if c := out.RGBAAt(0, 0); c.R != 200 {
		t.Errorf("pixel = %v, want gray 200", c)
	}
}

func TestContextSheetDrawsBorderAndCrops(t *testing.T) {
	src := grayRect(12, 12, 50)
	region := MaskRegion{Mask: imgproc.NewBitmap(4, 4), Bounds: image.Rect(0, 0, 4, 4)}
	region.Mask.Set(0, 0, true)

	out := ContextSheet(src, []MaskRegion{region}, image.Rect(4, 4, 8, 8), 10, 10)
	if out == nil {
		t.Fatal("nil sheet")
	}
	if b := out.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("sheet bounds %v, want 10x10 crop", b)
	}
	if c := out.RGBAAt(0, 0); c.R <= c.G {
		t.Errorf("masked pixel %v is not tinted", c)
	}
	if c := out.RGBAAt(4, 4); c != (color.RGBA{R: 60, G: 120, B: 255, A: 255}) {
		t.Errorf("border pixel = %v, want highlight", c)
	}
	if c := out.RGBAAt(9, 9); c.R != 50 || c.G != 50 {
		t.Errorf("plain pixel = %v, want gray 50", c)
	}
}

func TestScaleToFitOnlyShrinks(t *testing.T) {
	small := grayRect(10, 10, 0)
	if got := ScaleToFit(small, 100, 100); got != image.Image(small) {
		t.Error("small image should be returned unchanged")
	}
	big := grayRect(200, 100, 0)
	scaled := ScaleToFit(big, 100, 100)
	b := scaled.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("scaled to %dx%d, want 100x50", b.Dx(), b.Dy())
	}
}

func TestScaleToWidthUpscales(t *testing.T) {
	small := grayRect(10, 5, 0)
	out := ScaleToWidth(small, 40)
	b := out.Bounds()
	if b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("scaled to %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestEncodePNGNilSafe(t *testing.T) {
	if EncodePNG(nil) != nil {
		t.Error("nil image should encode to nil")
	}
	if len(EncodePNG(grayRect(2, 2, 0))) == 0 {
		t.Error("empty encoding for valid image")
	}
}

func TestExtractContextClampsToFrame(t *testing.T) {
	frame := grayRect(10, 10, 7)
	out, roi, err := ExtractContext(frame, image.Rect(0, 0, 4, 4), 3)
	if err != nil {
		t.Fatal(err)
	}
	if roi != image.Rect(0, 0, 7, 7) {
		t.Errorf("roi = %v, want clamped 0,0,7,7", roi)
	}
	if b := out.Bounds(); b.Dx() != 7 || b.Dy() != 7 {
		t.Errorf("context %dx%d, want 7x7", b.Dx(), b.Dy())
	}
	if out.GrayAt(0, 0).Y != 7 {
		t.Error("context lost pixel data")
	}
}

func TestExtractContextNilFrame(t *testing.T) {
	if _, _, err := ExtractContext(nil, image.Rect(0, 0, 1, 1), 1); err == nil {
		t.Error("nil frame accepted")
	}
}

func TestRenderCacheHitMissAndPurge(t *testing.T) {
	c := NewRenderCache(2)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	c.Put(0, 1, img)
	if got, ok := c.Get(0, 1); !ok || got != img {
		t.Fatal("expected hit for stored render")
	}
	if _, ok := c.Get(0, 2); ok {
		t.Fatal("stale revision hit")
	}
	c.Put(1, 1, img)
	c.Put(2, 1, img)
	if _, ok := c.Get(0, 1); ok {
		t.Error("oldest entry not evicted at capacity 2")
	}
	c.Purge()
	if _, ok := c.Get(2, 1); ok {
		t.Error("entry survived Purge")
	}
}

func TestRenderCacheNilSafe(t *testing.T) {
	var c *RenderCache
	c.Put(0, 1, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	if _, ok := c.Get(0, 1); ok {
		t.Error("nil cache returned a hit")
	}
	c.Purge()
}
