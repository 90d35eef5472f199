// Package audio transcodes audio entries with ffmpeg.
//
// Each transcode is a single ffmpeg invocation that keeps the first audio
// stream and the container tags of the source. Codec defaults are:
//   - mp3: libmp3lame VBR quality 2 in a raw mp3 stream
//   - opus: libopus at 128 kb/s in an ogg container
//
// Extra encoder arguments are appended after the codec defaults, so they
// override them. An optional Verifier re-reads the output with ffprobe.
package audio
