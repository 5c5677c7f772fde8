package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	errs "github.com/matzehuels/epicflow/pkg/errors"
	"github.com/matzehuels/epicflow/pkg/graph"
)

// converter is the external tool used for PDF and PNG output.
var converter = "rsvg-convert"

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, graph.FormatPDF)
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image; scales <= 0 mean 1.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, graph.FormatPNG, "-z", fmt.Sprintf("%.2f", scale))
}

// Convert turns an SVG document into the requested format. SVG passes
// through unchanged.
func Convert(ctx context.Context, svg []byte, format string, scale float64) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", graph.FormatSVG:
		return svg, nil
	case graph.FormatPDF:
		return ToPDF(ctx, svg)
	case graph.FormatPNG:
		return ToPNG(ctx, svg, scale)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "cannot convert SVG to %q", format)
	}
}

// Available reports whether PDF and PNG conversion is possible on this host.
func Available() bool {
	_, err := exec.LookPath(converter)
	return err == nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !Available() {
		return nil, errs.New(errs.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, converter, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "rsvg-convert: %s", strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
