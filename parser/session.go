package parser

import (
	"os"
	"path/filepath"
	"sort"
)

// Span is an absolute byte range into a Session's concatenated source
// space: start is the byte offset from the session's origin, len is the
// span's length in bytes.
type Span struct {
	Start uint32
	Len   uint32
}

// End returns the exclusive end offset of the span.
func (s Span) End() uint32 { return s.Start + s.Len }

// sourceFile is one loaded file's record within a Session: its absolute
// base offset, its raw text, and a line-start table for span resolution.
type sourceFile struct {
	name        string
	dir         string
	text        string
	base        uint32
	lineStarts  []uint32 // absolute offset of the first byte of each line
}

// Session is a monotonically growing pool of loaded files concatenated
// into one virtual source space, so that a Span (absolute offset + len)
// is enough to resolve a (file, line, column, snippet) anywhere across
// an .include chain. Spans are stable for the session's lifetime: files
// are only ever appended, never removed or rewritten.
type Session struct {
	files []*sourceFile
}

// NewSession creates an empty source pool.
func NewSession() *Session {
	return &Session{}
}

// AddSource registers in-memory text as a new file in the pool and
// returns its span (covering the whole file) for convenience.
func (s *Session) AddSource(name, dir, text string) Span {
	base := uint32(0)
	if n := len(s.files); n > 0 {
		last := s.files[n-1]
		base = last.base + uint32(len(last.text))
	}
	f := &sourceFile{name: name, dir: dir, text: text, base: base}
	f.lineStarts = computeLineStarts(text, base)
	s.files = append(s.files, f)
	return Span{Start: base, Len: uint32(len(text))}
}

// LoadFile reads path from disk, relative to baseDir if it is not
// absolute, and registers its contents.
func (s *Session) LoadFile(path, baseDir string) (Span, error) {
	full := path
	if !filepath.IsAbs(path) {
		full = filepath.Join(baseDir, path)
	}
	content, err := os.ReadFile(full) // #nosec G304 -- assembler source path supplied by the caller
	if err != nil {
		return Span{}, err
	}
	return s.AddSource(filepath.Base(full), filepath.Dir(full), string(content)), nil
}

func computeLineStarts(text string, base uint32) []uint32 {
	starts := []uint32{base}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, base+uint32(i)+1)
		}
	}
	return starts
}

// fileFor finds the file owning absolute offset pos by binary search
// over each file's base offset.
func (s *Session) fileFor(pos uint32) (*sourceFile, bool) {
	idx := sort.Search(len(s.files), func(i int) bool {
		return s.files[i].base > pos
	})
	if idx == 0 {
		return nil, false
	}
	return s.files[idx-1], true
}

// Resolve turns a span's start offset into a human Position plus the
// source snippet of the line it begins on.
func (s *Session) Resolve(sp Span) (Position, string) {
	f, ok := s.fileFor(sp.Start)
	if !ok {
		return Position{}, ""
	}
	rel := sp.Start - f.base
	lineIdx := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i]-f.base > rel
	}) - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	lineStartRel := f.lineStarts[lineIdx] - f.base
	lineEndRel := uint32(len(f.text))
	if lineIdx+1 < len(f.lineStarts) {
		lineEndRel = f.lineStarts[lineIdx+1] - f.base - 1
	}
	if lineEndRel > uint32(len(f.text)) {
		lineEndRel = uint32(len(f.text))
	}
	snippet := f.text[lineStartRel:lineEndRel]
	return Position{
		Filename: f.name,
		Line:     lineIdx + 1,
		Column:   int(rel-lineStartRel) + 1,
	}, snippet
}

// Dir returns the directory a span's owning file was loaded from, for
// resolving a nested .include relative to its includer.
func (s *Session) Dir(sp Span) string {
	if f, ok := s.fileFor(sp.Start); ok {
		return f.dir
	}
	return ""
}

// Text returns the raw source text for a span's owning file.
func (s *Session) Text(sp Span) string {
	if f, ok := s.fileFor(sp.Start); ok {
		return f.text
	}
	return ""
}

// Name returns the owning file's recorded name for a span.
func (s *Session) Name(sp Span) string {
	if f, ok := s.fileFor(sp.Start); ok {
		return f.name
	}
	return ""
}
