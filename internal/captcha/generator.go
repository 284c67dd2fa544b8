// Package captcha renders the image challenges served to unauthenticated
// visitors. Generation is stateless; the issued answer is bound to the
// visitor's session by the service layer, never stored here.
package captcha

import (
	"fmt"
	"image/color"

	"github.com/mojocn/base64Captcha"
)

// charset deliberately omits look-alike characters (0/O, 1/I/l).
const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Options configures challenge rendering.
type Options struct {
	Length int
	Width  int
	Height int
}

// Generator renders image challenges. Safe for concurrent use.
type Generator struct {
	driver base64Captcha.Driver
	length int
}

// NewGenerator creates a Generator. Zero option fields get sensible defaults.
func NewGenerator(opts Options) *Generator {
	if opts.Length <= 0 {
		opts.Length = 5
	}
	if opts.Width <= 0 {
		opts.Width = 240
	}
	if opts.Height <= 0 {
		opts.Height = 80
	}
	driver := base64Captcha.NewDriverString(
		opts.Height,
		opts.Width,
		2, // noiseCount
		base64Captcha.OptionShowHollowLine,
		opts.Length,
		charset,
		&color.RGBA{R: 254, G: 254, B: 254, A: 254},
		nil,
		nil,
	).ConvertFonts()
	return &Generator{driver: driver, length: opts.Length}
}

// Generate renders a fresh challenge and returns the expected answer along
// with the image as a base64 data URI.
func (g *Generator) Generate() (answer, image string, err error) {
	_, content, answer := g.driver.GenerateIdQuestionAnswer()
	item, err := g.driver.DrawCaptcha(content)
	if err != nil {
		return "", "", fmt.Errorf("draw captcha: %w", err)
	}
	return answer, item.EncodeB64string(), nil
}
