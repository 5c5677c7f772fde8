package render

import (
	"bytes"
	"context"
	"testing"

	errs "github.com/matzehuels/epicflow/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10"><rect width="10" height="10"/></svg>`

func withConverter(t *testing.T, name string) {
	t.Helper()
	prev := converter
	converter = name
	t.Cleanup(func() { converter = prev })
}

func TestConvert_SVGPassthrough(t *testing.T) {
	for _, format := range []string{"", "svg", "SVG"} {
		got, err := Convert(context.Background(), []byte(tinySVG), format, 1)
		if err != nil {
			t.Fatalf("Convert(%q) error = %v", format, err)
		}
		if string(got) != tinySVG {
			t.Errorf("Convert(%q) changed the document", format)
		}
	}
}

func TestConvert_UnknownFormat(t *testing.T) {
	_, err := Convert(context.Background(), []byte(tinySVG), "gif", 1)
	if !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Convert(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestConvert_MissingTool(t *testing.T) {
	withConverter(t, "epicflow-no-such-converter")

	if Available() {
		t.Fatal("Available() = true for a missing tool")
	}
	for _, format := range []string{"pdf", "png"} {
		_, err := Convert(context.Background(), []byte(tinySVG), format, 2)
		if !errs.Is(err, errs.ErrCodeUnsupported) {
			t.Errorf("Convert(%s) error = %v, want UNSUPPORTED", format, err)
		}
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 0)
	if err != nil {
		t.Fatalf("ToPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("ToPNG() did not return a PNG")
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("ToPDF() did not return a PDF")
	}
}
