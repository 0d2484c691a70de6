package parser

import (
	"fmt"
)

// eqvMapping is one `.eqv NAME tokens…` expansion recorded during a
// preprocessor pass.
type eqvMapping struct {
	name string
	body []Token
}

// Preprocessor runs over a lexed token stream, splicing `.include` files
// in place and expanding `.eqv` substitutions. It owns the Session so
// included files can be loaded and lexed as the scan reaches them.
type Preprocessor struct {
	sess        *Session
	errs        *ErrorList
	eqvs        map[string]eqvMapping
	activePaths map[string]bool // include stack, for circular-include detection
}

// NewPreprocessor builds a preprocessor over sess, collecting diagnostics
// into errs.
func NewPreprocessor(sess *Session, errs *ErrorList) *Preprocessor {
	return &Preprocessor{
		sess:        sess,
		errs:        errs,
		eqvs:        make(map[string]eqvMapping),
		activePaths: make(map[string]bool),
	}
}

// Process expands toks (from a single file's lexer) into a flat token
// stream with `.include` spliced in and `.eqv` applied. dir is the
// directory `.include` paths in this stream resolve against. selfPath is
// not consulted: expandInclude pushes each include path as written onto
// the active-include stack, and the top-level file is never on it.
func (p *Preprocessor) Process(toks []Token, dir, selfPath string) []Token {
	var out []Token
	i := 0
	for i < len(toks) {
		tok := toks[i]

		if tok.Kind == TokenDirective && tok.Literal == "include" {
			spliced, next := p.expandInclude(toks, i, dir)
			out = append(out, spliced...)
			i = next
			continue
		}

		if tok.Kind == TokenDirective && tok.Literal == "eqv" {
			next := p.recordEqv(toks, i)
			i = next
			continue
		}

		if tok.Kind == TokenDirective && (tok.Literal == "macro" || tok.Literal == "end_macro") {
			p.errs.AddError(NewError(tok.Span, ErrInvalidDirective, "macro facility not supported"))
			i = skipToNewline(toks, i)
			continue
		}

		if tok.Kind == TokenIdentifier {
			if mapping, ok := p.eqvs[tok.Literal]; ok {
				out = append(out, mapping.body...)
				i++
				continue
			}
		}

		out = append(out, tok)
		i++
	}
	return out
}

// expandInclude consumes `.include "path"` starting at index i and
// returns the included file's fully preprocessed tokens plus the index
// just past the consumed directive.
func (p *Preprocessor) expandInclude(toks []Token, i int, dir string) ([]Token, int) {
	directive := toks[i]
	j := i + 1
	if j >= len(toks) || toks[j].Kind != TokenString {
		p.errs.AddError(NewError(directive.Span, ErrInvalidDirective, ".include requires a string path"))
		return nil, skipToNewline(toks, i)
	}
	path := toks[j].Literal
	next := skipToNewline(toks, j)

	if p.activePaths[path] {
		p.errs.AddError(NewError(toks[j].Span, ErrCircularInclude, fmt.Sprintf("circular include of %q", path)))
		return nil, next
	}

	span, err := p.sess.LoadFile(path, dir)
	if err != nil {
		p.errs.AddError(NewError(toks[j].Span, ErrFileIO, fmt.Sprintf("cannot open %q: %v", path, err)))
		return nil, next
	}

	p.activePaths[path] = true
	defer delete(p.activePaths, path)

	lx := NewLexer(p.sess.Text(span), span.Start)
	included := lx.TokenizeAll()
	p.errs.Merge(lx.Errors())

	expanded := p.Process(included, p.sess.Dir(span), path)
	// The included file's own EOF terminates only its own token stream;
	// it must not appear in the middle of the splice.
	if n := len(expanded); n > 0 && expanded[n-1].Kind == TokenEOF {
		expanded = expanded[:n-1]
	}
	return expanded, next
}

// recordEqv consumes `.eqv NAME tokens…` starting at index i (continuing
// to the line's newline) and records the expansion mapping. Returns the
// index just past the consumed directive.
func (p *Preprocessor) recordEqv(toks []Token, i int) int {
	directive := toks[i]
	j := i + 1
	if j >= len(toks) || toks[j].Kind != TokenIdentifier {
		p.errs.AddError(NewError(directive.Span, ErrInvalidDirective, ".eqv requires a name"))
		return skipToNewline(toks, i)
	}
	name := toks[j].Literal
	bodyStart := j + 1
	lineEnd := bodyStart
	for lineEnd < len(toks) && toks[lineEnd].Kind != TokenNewline && toks[lineEnd].Kind != TokenEOF {
		lineEnd++
	}
	body := make([]Token, lineEnd-bodyStart)
	copy(body, toks[bodyStart:lineEnd])
	p.eqvs[name] = eqvMapping{name: name, body: body}
	if lineEnd < len(toks) && toks[lineEnd].Kind == TokenNewline {
		return lineEnd + 1
	}
	return lineEnd
}

// skipToNewline returns the index just past the next TokenNewline at or
// after i, stopping (without consuming) at TokenEOF so the stream's
// trailing EOF token is never swallowed.
func skipToNewline(toks []Token, i int) int {
	for i < len(toks) {
		if toks[i].Kind == TokenNewline {
			return i + 1
		}
		if toks[i].Kind == TokenEOF {
			return i
		}
		i++
	}
	return i
}
