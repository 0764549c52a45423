// Package snapshot validates and encodes display captures.
//
// Frames arrive as display.PixelMap values in RGBA8888, RGB565 or RGB888.
// They are converted to packed RGB888 and written as jpeg or png, only to
// files directly inside /data/local/tmp/ and never larger than 3840 pixels
// a side.
package snapshot
