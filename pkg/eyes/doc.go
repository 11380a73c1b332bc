// Package eyes decodes the color stream driving the LED eyes.
package eyes

// The color protocol is a bare byte stream of repeating groups
// [index, red, green, blue] with no framing byte and no checksum.
// index is the 1-based logical LED number, 255 addresses all LEDs.
//
// Alignment between sender and receiver is recovered by time only:
// after a silence longer than the resync timeout the next byte is
// always an index. A sender may also query the progress, which is
// the number of bytes of the current group consumed so far, and
// complete or restart the group accordingly.
//
// Producer: eyectl / any remote sender
// Consumer: eyebot
