// Package classify maps scanned entries to the pipeline that processes them.
package classify

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
)

// Kind selects the pipeline for an entry. The zero value is Opaque, so an
// unrecognized entry is always copied.
type Kind int

const (
	Opaque Kind = iota
	Audio
	CoverImage
)

func (k Kind) String() string {
	switch k {
	case Audio:
		return "audio"
	case CoverImage:
		return "cover"
	default:
		return "opaque"
	}
}

// Codec is the target audio codec.
type Codec string

const (
	MP3  Codec = "mp3"
	Opus Codec = "opus"
)

// ParseCodec accepts the codec names the CLI and config file use.
func ParseCodec(value string) (Codec, error) {
	switch Codec(strings.ToLower(strings.TrimSpace(value))) {
	case MP3, "":
		return MP3, nil
	case Opus:
		return Opus, nil
	default:
		return "", fmt.Errorf("unsupported codec %q (want mp3 or opus)", value)
	}
}

// Extension returns the file extension written for the codec.
func (c Codec) Extension() string {
	switch c {
	case Opus:
		return ".opus"
	default:
		return ".mp3"
	}
}

// CoverExtension is the fixed extension of thumbnailed cover images.
const CoverExtension = ".jpg"

// Classifier is a total function from relative paths to kinds.
type Classifier struct {
	codec Codec
	audio map[string]struct{}
	cover map[string]struct{}
}

// New builds a Classifier. Extensions include the leading dot and are
// matched case-insensitively.
func New(codec Codec, audioExts, coverExts []string) *Classifier {
	c := &Classifier{
		codec: codec,
		audio: make(map[string]struct{}, len(audioExts)),
		cover: make(map[string]struct{}, len(coverExts)),
	}
	for _, ext := range audioExts {
		c.audio[foldExt(ext)] = struct{}{}
	}
	for _, ext := range coverExts {
		c.cover[foldExt(ext)] = struct{}{}
	}
	return c
}

// Codec reports the configured target codec.
func (c *Classifier) Codec() Codec { return c.codec }

// Classify returns the kind for a slash-separated relative path.
func (c *Classifier) Classify(rel string) Kind {
	ext := extension(rel)
	if ext == "" {
		return Opaque
	}
	ext = foldExt(ext)
	if _, ok := c.audio[ext]; ok {
		return Audio
	}
	if _, ok := c.cover[ext]; ok {
		return CoverImage
	}
	return Opaque
}

// TargetRelPath rewrites the extension of rel for kind. Opaque paths are
// returned unchanged.
func (c *Classifier) TargetRelPath(rel string, kind Kind) string {
	switch kind {
	case Audio:
		return replaceExt(rel, c.codec.Extension())
	case CoverImage:
		return replaceExt(rel, CoverExtension)
	case Opaque:
		return rel
	default:
		panic(fmt.Sprintf("classify: unknown kind %d", int(kind)))
	}
}

// extension is path.Ext except that a dotfile such as ".flac" has none.
func extension(rel string) string {
	base := path.Base(rel)
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}

// foldExt builds a fresh Caser per call; a Caser is not safe for
// concurrent use.
func foldExt(ext string) string {
	return cases.Fold().String(ext)
}

func replaceExt(rel, ext string) string {
	return strings.TrimSuffix(rel, extension(rel)) + ext
}
