package qr

import (
	"image/color"

	"github.com/skip2/go-qrcode"
)

// Print is the preset used for label sheets: black modules on white with a
// two-module quiet zone.
var Print = Config{
	Size:          600,
	Style:         StyleSquare,
	Background:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Foreground:    color.RGBA{R: 0, G: 0, B: 0, A: 255},
	RecoveryLevel: qrcode.Medium,
	QuietZone:     2,
	LogoScale:     0.2,
	LogoBorder:    4,
}

// Rounded softens module corners for decorative stock.
var Rounded = Config{
	Size:            600,
	Style:           StyleRounded,
	Background:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Foreground:      color.RGBA{R: 20, G: 20, B: 20, A: 255},
	RecoveryLevel:   qrcode.High,
	QuietZone:       2,
	ModuleRoundness: 0.35,
	LogoScale:       0.2,
	LogoBorder:      4,
}
