// Package cover thumbnails cover art into progressive, stripped JPEGs.
//
// A transcode is three steps, each run only when the previous succeeded:
//  1. probe the width and height of the source
//  2. "vips thumbnail" to a longest edge of min(max(w, h), MaxEdge)
//  3. "jpegoptim" in place with progressive encoding and all metadata stripped
//
// Images whose long edge is already within MaxEdge are thumbnailed at their
// native size, never upscaled.
package cover
