package media

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"
)

// WatermarkText is stamped across identity documents.
const WatermarkText = "FOR DRIVE KL EXECUTIVE SDN BHD USE ONLY"

const (
	watermarkFontSize = 24
	watermarkOpacity  = 0.3
	watermarkAngle    = 45
	watermarkStepX    = 400
	watermarkStepY    = 300
)

var (
	stampOnce sync.Once
	stamp     image.Image
	stampErr  error
)

// watermarkStamp renders the rotated text tile once per process.
func watermarkStamp() (image.Image, error) {
	stampOnce.Do(func() {
		f, err := truetype.Parse(gobold.TTF)
		if err != nil {
			stampErr = err
			return
		}
		face := truetype.NewFace(f, &truetype.Options{Size: watermarkFontSize, DPI: 72, Hinting: font.HintingFull})
		defer face.Close()

		metrics := face.Metrics()
		width := font.MeasureString(face, WatermarkText).Ceil()
		height := (metrics.Ascent + metrics.Descent).Ceil()

		tile := image.NewNRGBA(image.Rect(0, 0, width+4, height+4))
		d := &font.Drawer{
			Dst:  tile,
			Src:  image.NewUniform(color.Black),
			Face: face,
			Dot:  fixed.P(2, 2+metrics.Ascent.Ceil()),
		}
		d.DrawString(WatermarkText)

		stamp = imaging.Rotate(tile, watermarkAngle, color.Transparent)
	})
	return stamp, stampErr
}

// applyWatermark tiles the stamp over img every watermarkStepX by watermarkStepY pixels.
func applyWatermark(img image.Image) (image.Image, error) {
	s, err := watermarkStamp()
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Src)

	sw, sh := s.Bounds().Dx(), s.Bounds().Dy()
	var result image.Image = out
	for y := -sh / 2; y < bounds.Dy(); y += watermarkStepY {
		for x := -sw / 2; x < bounds.Dx(); x += watermarkStepX {
			result = imaging.Overlay(result, s, image.Pt(x, y), watermarkOpacity)
		}
	}
	return result, nil
}
