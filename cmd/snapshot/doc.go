// Command snapshot captures a display and writes it as jpeg or png.
//
// Usage:
//
//	snapshot -i <displayId> -f <file> [-w width] [-h height] [-t jpeg|png]
//
// The file must live directly in /data/local/tmp and carry the extension of
// the chosen type. Width and height are limited to 3840 pixels. Without -i
// the default display is captured; without -f a timestamped name is used.
// Any failure prints a diagnostic on stdout and exits with status 1.
package main
