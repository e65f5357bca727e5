package image

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestRegionSize(t *testing.T) {
	r := Region{X1: 30, Y1: 40, X2: 10, Y2: 15}
	if r.Width() != 20 || r.Height() != 25 {
		t.Errorf("size: got %dx%d, want 20x25", r.Width(), r.Height())
	}
	if got := r.Rect(); got != image.Rect(10, 15, 30, 40) {
		t.Errorf("Rect: got %v", got)
	}
	if got := RegionFromSize(1160, 330, 70, 30); got != (Region{1160, 330, 1230, 360}) {
		t.Errorf("RegionFromSize: got %v", got)
	}
}

func TestSliceBounds(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 50, 40))

	if _, err := Slice(frame, Region{0, 0, 50, 40}); err != nil {
		t.Fatalf("full frame slice: %v", err)
	}
	if _, err := Slice(frame, Region{40, 30, 51, 35}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("overflowing region: got %v, want ErrOutOfBounds", err)
	}
	if _, err := Slice(frame, Region{-1, 0, 5, 5}); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("negative region: got %v, want ErrOutOfBounds", err)
	}
	if _, err := Slice(frame, Region{5, 5, 5, 20}); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("zero width: got %v, want ErrEmptyRegion", err)
	}
}

func TestSliceCopiesPixels(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 20, 20))
	frame.Set(7, 9, color.RGBA{R: 200, G: 10, B: 10, A: 255})

	sub, err := Slice(frame, RegionFromSize(5, 8, 4, 4))
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if b := sub.Bounds(); b != image.Rect(0, 0, 4, 4) {
		t.Fatalf("bounds: got %v", b)
	}
	r, _, _, _ := sub.At(2, 1).RGBA()
	if r>>8 != 200 {
		t.Errorf("pixel: got r=%d, want 200", r>>8)
	}
}

func TestSliceHonoursNonZeroOrigin(t *testing.T) {
	frame := image.NewRGBA(image.Rect(100, 100, 120, 120))
	frame.Set(101, 102, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	g, err := SliceGray(frame, RegionFromSize(0, 0, 5, 5))
	if err != nil {
		t.Fatalf("SliceGray: %v", err)
	}
	if g.GrayAt(1, 2).Y != 255 {
		t.Errorf("got %d, want 255", g.GrayAt(1, 2).Y)
	}
}

func TestFlattenTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})
	// полупрозрачный пиксель переводится в серый без учета альфы
	img.SetNRGBA(2, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 10})

	g := FlattenTransparency(img)
	want := []uint8{255, 0, 100}
	for x, w := range want {
		if got := g.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel %d: got %d, want %d", x, got, w)
		}
	}
}

func TestFlattenOpaqueMatchesGrayModel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	c := color.RGBA{R: 12, G: 200, B: 77, A: 255}
	img.Set(0, 0, c)

	want := color.GrayModel.Convert(c).(color.Gray).Y
	if got := FlattenTransparency(img).GrayAt(0, 0).Y; got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestFlattenGrayIsCopy(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	src.SetGray(3, 3, color.Gray{Y: 9})
	out := FlattenTransparency(src)
	out.SetGray(3, 3, color.Gray{Y: 1})
	if src.GrayAt(3, 3).Y != 9 {
		t.Error("flatten shares pixels with source")
	}
}

func TestPNGRoundTrip(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 128})
	path := filepath.Join(t.TempDir(), "nested", "a.png")

	if err := SavePNG(img, path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	back, err := LoadPNG(path)
	if err != nil {
		t.Fatalf("LoadPNG: %v", err)
	}
	if got := FlattenTransparency(back).GrayAt(1, 1).Y; got != 128 {
		t.Errorf("got %d, want 128", got)
	}
}

func TestFindGameWindow(t *testing.T) {
	screen := image.NewRGBA(image.Rect(0, 0, 200, 120))
	for y := 20; y < 90; y++ {
		for x := 30; x < 150; x++ {
			screen.Set(x, y, color.RGBA{R: 80, G: 80, B: 80, A: 255})
		}
	}

	got, err := FindGameWindow(screen)
	if err != nil {
		t.Fatalf("FindGameWindow: %v", err)
	}
	if want := image.Rect(30, 20, 150, 90); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if p := ToAbsolute(got, image.Pt(5, 6)); p != image.Pt(35, 26) {
		t.Errorf("ToAbsolute: got %v", p)
	}
}

func TestFindGameWindowBlackScreen(t *testing.T) {
	if _, err := FindGameWindow(image.NewRGBA(image.Rect(0, 0, 10, 10))); !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("got %v, want ErrWindowNotFound", err)
	}
}
