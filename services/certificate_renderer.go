package services

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	certificateWidth  = 1600
	certificateHeight = 1131
)

// CertificateArtwork is the text printed on a certificate document.
type CertificateArtwork struct {
	LearnerName       string
	CourseTitle       string
	CertificateNumber string
	VerificationHash  string
	IssueDate         time.Time
	CompletionDate    time.Time
}

type CertificateRenderer struct {
	font *truetype.Font
}

// NewCertificateRenderer loads the TTF at fontPath, or Go Regular when empty.
func NewCertificateRenderer(fontPath string) (*CertificateRenderer, error) {
	fontBytes := goregular.TTF
	if fontPath != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = b
	}

	parsed, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return &CertificateRenderer{font: parsed}, nil
}

func (r *CertificateRenderer) face(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Render draws the certificate and returns it PNG encoded.
func (r *CertificateRenderer) Render(art CertificateArtwork) ([]byte, error) {
	dc := gg.NewContext(certificateWidth, certificateHeight)
	w, h := float64(certificateWidth), float64(certificateHeight)
	cx := w / 2

	dc.SetColor(color.RGBA{R: 0xfd, G: 0xfb, B: 0xf5, A: 0xff})
	dc.Clear()

	dc.SetColor(color.RGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff})
	dc.SetLineWidth(12)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(70, 70, w-140, h-140)
	dc.Stroke()

	dc.SetFontFace(r.face(72))
	dc.DrawStringAnchored("Certificate of Completion", cx, 230, 0.5, 0.5)

	dc.SetColor(color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff})
	dc.SetFontFace(r.face(32))
	dc.DrawStringAnchored("This certifies that", cx, 360, 0.5, 0.5)

	name := art.LearnerName
	if name == "" {
		name = "Code Academy Learner"
	}
	dc.SetColor(color.Black)
	dc.SetFontFace(r.face(64))
	dc.DrawStringAnchored(name, cx, 460, 0.5, 0.5)

	dc.SetColor(color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff})
	dc.SetFontFace(r.face(32))
	dc.DrawStringAnchored("has successfully completed", cx, 560, 0.5, 0.5)

	dc.SetColor(color.RGBA{R: 0x1e, G: 0x3a, B: 0x8a, A: 0xff})
	dc.SetFontFace(r.face(52))
	dc.DrawStringWrapped(art.CourseTitle, cx, 660, 0.5, 0.5, w-400, 1.3, gg.AlignCenter)

	dc.SetColor(color.RGBA{R: 0x4b, G: 0x55, B: 0x63, A: 0xff})
	dc.SetFontFace(r.face(26))
	dc.DrawStringAnchored("Completed "+art.CompletionDate.Format("January 2, 2006"), cx, 800, 0.5, 0.5)
	dc.DrawStringAnchored("Issued "+art.IssueDate.Format("January 2, 2006"), cx, 845, 0.5, 0.5)

	dc.SetFontFace(r.face(22))
	dc.DrawStringAnchored("Certificate No. "+art.CertificateNumber, cx, 960, 0.5, 0.5)
	if len(art.VerificationHash) >= 16 {
		dc.DrawStringAnchored("Verification "+art.VerificationHash[:16], cx, 995, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
