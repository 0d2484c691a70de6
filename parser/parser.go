package parser

import (
	"strconv"

	"github.com/lookbusy1344/mips-toolchain/isa"
)

// Parser is a hand-written recursive-descent parser over a preprocessed
// token stream. It never aborts: on a malformed statement it records a
// diagnostic and skips to the next newline, so a single typo doesn't
// prevent the rest of the file from parsing.
type Parser struct {
	toks []Token
	pos  int
	errs *ErrorList
}

// NewParser wraps a preprocessed token stream. toks must end with a
// TokenEOF, as produced by Lexer.TokenizeAll / Preprocessor.Process.
func NewParser(toks []Token, errs *ErrorList) *Parser {
	return &Parser{toks: toks, errs: errs}
}

func (p *Parser) cur() Token  { return p.toks[p.pos] }
func (p *Parser) atEnd() bool { return p.cur().Kind == TokenEOF }

func (p *Parser) advance() Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) peek(offset int) Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) skipNewlines() {
	for p.cur().Kind == TokenNewline {
		p.advance()
	}
}

// skipStatement discards tokens up to and including the next newline,
// the recovery strategy for a malformed root element.
func (p *Parser) skipStatement() {
	for p.cur().Kind != TokenNewline && p.cur().Kind != TokenEOF {
		p.advance()
	}
	if p.cur().Kind == TokenNewline {
		p.advance()
	}
}

func (p *Parser) errorAt(tok Token, kind ErrorKind, msg string) {
	p.errs.AddError(NewError(tok.Span, kind, msg))
}

// Parse consumes the whole token stream, returning every root element
// it could recover. A label declaration and the instruction or
// directive on the same line are returned as separate nodes in order.
func (p *Parser) Parse() []Node {
	var nodes []Node
	p.skipNewlines()
	for !p.atEnd() {
		n := p.parseRootElement()
		if n != nil {
			nodes = append(nodes, n...)
		}
		p.skipNewlines()
	}
	return nodes
}

// parseRootElement parses one line: an optional label declaration
// followed by an instruction or directive, or either alone.
func (p *Parser) parseRootElement() []Node {
	var nodes []Node

	if p.cur().Kind == TokenIdentifier && p.peek(1).Kind == TokenColon {
		tok := p.advance()
		colon := p.advance()
		nodes = append(nodes, &LabelDecl{Name: tok.Literal, Pos: spanOf(tok, colon)})
		if p.cur().Kind == TokenNewline || p.cur().Kind == TokenEOF {
			return nodes
		}
	}

	switch p.cur().Kind {
	case TokenDirective:
		if n := p.parseDirective(); n != nil {
			nodes = append(nodes, n)
		}
	case TokenIdentifier:
		if n := p.parseInstruction(); n != nil {
			nodes = append(nodes, n)
		}
	case TokenNewline, TokenEOF:
		// label with no body, already handled above
	default:
		p.errorAt(p.cur(), ErrUnexpectedToken, "expected a label, instruction, or directive")
		p.skipStatement()
		return nodes
	}

	p.expectLineEnd()
	return nodes
}

func (p *Parser) expectLineEnd() {
	if p.cur().Kind == TokenNewline {
		p.advance()
		return
	}
	if p.cur().Kind == TokenEOF {
		return
	}
	p.errorAt(p.cur(), ErrUnexpectedToken, "expected end of line")
	p.skipStatement()
}

func spanOf(first, last Token) Span {
	end := last.Span.End()
	return Span{Start: first.Span.Start, Len: end - first.Span.Start}
}

// parseInstruction parses `mnemonic (operand (',' operand)*)?`.
func (p *Parser) parseInstruction() *InstructionNode {
	mnemonic := p.advance()
	node := &InstructionNode{Mnemonic: mnemonic.Literal, Pos: mnemonic.Span}

	if p.cur().Kind == TokenNewline || p.cur().Kind == TokenEOF {
		return node
	}

	for {
		op := p.parseOperand()
		if op == nil {
			p.skipStatement()
			return node
		}
		node.Operands = append(node.Operands, op)
		node.Pos = spanOf(mnemonic, Token{Span: op.operandSpan()})
		if p.cur().Kind == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return node
}

// parseOperand parses one instruction operand per the grammar:
//
//	operand ::= register | immediate | ident
//	          | immediate '(' register ')' | '(' register ')'
func (p *Parser) parseOperand() Operand {
	switch p.cur().Kind {
	case TokenRegister:
		return p.parseRegister()

	case TokenLParen:
		return p.parseBaseAddress(nil)

	case TokenMinus, TokenInteger, TokenChar:
		imm := p.parseImmediate()
		if imm == nil {
			return nil
		}
		if p.cur().Kind == TokenLParen {
			return p.parseBaseAddress(imm)
		}
		return imm

	case TokenIdentifier:
		tok := p.advance()
		return &SymbolRefOperand{Name: tok.Literal, Pos: tok.Span}

	default:
		p.errorAt(p.cur(), ErrUnexpectedToken, "expected an operand")
		return nil
	}
}

func (p *Parser) parseRegister() *RegisterOperand {
	tok := p.advance()
	if _, ok := isa.RegisterByName(tok.Literal); ok {
		return &RegisterOperand{Name: tok.Literal, Pos: tok.Span}
	}
	if _, ok := isa.FpRegisterByName(tok.Literal); ok {
		return &RegisterOperand{Name: tok.Literal, Pos: tok.Span}
	}
	p.errorAt(tok, ErrInvalidRegister, "unknown register "+tok.Literal)
	return &RegisterOperand{Name: tok.Literal, Pos: tok.Span}
}

// parseBaseAddress parses `'(' register ')'`, offset already consumed
// (or nil for the zero-offset form).
func (p *Parser) parseBaseAddress(offset *ImmediateOperand) Operand {
	lparen := p.advance() // '('
	if p.cur().Kind != TokenRegister {
		p.errorAt(p.cur(), ErrUnexpectedToken, "expected register inside '('")
		return nil
	}
	base := p.parseRegister()
	if p.cur().Kind != TokenRParen {
		p.errorAt(p.cur(), ErrExpectedChar, "expected ')'")
		return nil
	}
	rparen := p.advance()
	start := lparen.Span.Start
	if offset != nil {
		start = offset.Pos.Start
	}
	return &BaseAddressOperand{
		Offset: offset,
		Base:   base,
		Pos:    Span{Start: start, Len: rparen.Span.End() - start},
	}
}

// parseImmediate parses `literal | '-' literal` where literal is a
// decimal/hex/octal/binary integer or a character literal.
func (p *Parser) parseImmediate() *ImmediateOperand {
	negative := false
	start := p.cur()
	if p.cur().Kind == TokenMinus {
		p.advance()
		negative = true
	}

	tok := p.cur()
	switch tok.Kind {
	case TokenInteger:
		p.advance()
		v, err := parseIntegerLiteral(tok)
		if err != nil {
			p.errorAt(tok, ErrInvalidImmediate, err.Error())
			return nil
		}
		return &ImmediateOperand{Value: v, Negative: negative, Pos: spanOf(start, tok)}
	case TokenChar:
		p.advance()
		b, err := parseCharLiteralValue(tok.Literal)
		if err != nil {
			p.errorAt(tok, ErrInvalidEscape, err.Error())
			return nil
		}
		return &ImmediateOperand{Value: uint32(b), Negative: negative, Pos: spanOf(start, tok)}
	default:
		p.errorAt(tok, ErrInvalidImmediate, "expected a numeric or character literal")
		return nil
	}
}

// parseIntegerLiteral parses a lexed integer token. The literal text
// already carries its radix prefix (0x/0o/0b) or none for decimal,
// which is exactly what Go's own integer-literal syntax expects, so
// base 0 (auto-detect) handles every Radix value the lexer produces.
func parseIntegerLiteral(tok Token) (uint32, error) {
	v, err := strconv.ParseUint(tok.Literal, 0, 64)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func parseCharLiteralValue(lit string) (byte, error) {
	if len(lit) == 0 {
		return 0, errEmptyCharLiteral
	}
	if lit[0] == '\\' {
		return ParseEscapeChar(lit)
	}
	return lit[0], nil
}

var errEmptyCharLiteral = &emptyCharLiteralError{}

type emptyCharLiteralError struct{}

func (e *emptyCharLiteralError) Error() string { return "empty character literal" }

// parseDirective parses a single `.directive ...` statement.
func (p *Parser) parseDirective() *DirectiveNode {
	tok := p.advance()
	switch tok.Literal {
	case "text":
		return &DirectiveNode{Kind: DirText, Pos: tok.Span}
	case "data":
		return &DirectiveNode{Kind: DirData, Pos: tok.Span}
	case "asciiz":
		if p.cur().Kind != TokenString {
			p.errorAt(p.cur(), ErrInvalidDirective, ".asciiz requires a string literal")
			return nil
		}
		str := p.advance()
		return &DirectiveNode{Kind: DirAsciiz, Text: ProcessEscapeSequences(str.Literal), Pos: spanOf(tok, str)}
	case "word":
		return p.parseWordDirective(tok)
	case "eqv":
		return p.parseEqvDirective(tok)
	case "include":
		if p.cur().Kind != TokenString {
			p.errorAt(p.cur(), ErrInvalidDirective, ".include requires a string literal")
			return nil
		}
		str := p.advance()
		return &DirectiveNode{Kind: DirInclude, Text: str.Literal, Pos: spanOf(tok, str)}
	case "macro":
		p.errorAt(tok, ErrInvalidDirective, "macro facility not supported")
		return nil
	case "end_macro":
		p.errorAt(tok, ErrInvalidDirective, "macro facility not supported")
		return nil
	default:
		p.errorAt(tok, ErrInvalidDirective, "unknown directive ."+tok.Literal)
		return nil
	}
}

func (p *Parser) parseWordDirective(tok Token) *DirectiveNode {
	node := &DirectiveNode{Kind: DirWord, Pos: tok.Span}
	for {
		op := p.parseOperand()
		if op == nil {
			return node
		}
		switch op.(type) {
		case *ImmediateOperand, *SymbolRefOperand:
			node.WordValues = append(node.WordValues, op)
			node.WordRepeats = append(node.WordRepeats, p.parseWordRepeatCount())
			node.WordCount += node.WordRepeats[len(node.WordRepeats)-1]
		default:
			p.errorAt(p.cur(), ErrInvalidDirective, ".word takes integer or symbol operands")
		}
		if p.cur().Kind == TokenComma {
			p.advance()
			continue
		}
		break
	}
	return node
}

// parseWordRepeatCount parses the optional ": n" suffix of a .word
// value, defaulting to 1 when absent.
func (p *Parser) parseWordRepeatCount() int {
	if p.cur().Kind != TokenColon {
		return 1
	}
	p.advance()
	if p.cur().Kind != TokenInteger {
		p.errorAt(p.cur(), ErrInvalidDirective, ".word repeat count must be an integer")
		return 1
	}
	ctok := p.advance()
	n, err := parseIntegerLiteral(ctok)
	if err != nil || n == 0 {
		p.errorAt(ctok, ErrInvalidDirective, ".word repeat count must be >= 1")
		return 1
	}
	return int(n)
}

// parseEqvDirective only appears here if the preprocessor pass was
// skipped (e.g. direct AST construction in a test); a fully
// preprocessed stream never reaches this, since Preprocessor.Process
// consumes every `.eqv` itself.
func (p *Parser) parseEqvDirective(tok Token) *DirectiveNode {
	if p.cur().Kind != TokenIdentifier {
		p.errorAt(p.cur(), ErrInvalidDirective, ".eqv requires a name")
		return nil
	}
	name := p.advance()
	var body []Token
	for p.cur().Kind != TokenNewline && p.cur().Kind != TokenEOF {
		body = append(body, p.advance())
	}
	return &DirectiveNode{Kind: DirEqv, EqvName: name.Literal, EqvBody: body, Pos: spanOf(tok, name)}
}
