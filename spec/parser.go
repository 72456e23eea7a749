package spec

import (
	"io"
)

// RootNode is the raw parse of a grammar file. It resolves nothing:
// symbol classification, precedence levels, and validation are the
// grammar builder's job.
type RootNode struct {
	Directives []*DirectiveNode
	Rules      []*RuleNode

	// Prologue is the concatenated text of all %{ ... %} blocks.
	Prologue string

	// Union is the raw %union body including the braces; empty when
	// the grammar declares no union.
	Union string

	// Epilogue is the trailing user-code section, verbatim.
	Epilogue string
}

// DirectiveNode is one %-declaration: token, start, type, left,
// right, or nonassoc.
type DirectiveNode struct {
	Name      string
	ValueType string
	Params    []string
	Pos       Position
}

type RuleNode struct {
	LHS  string
	Alts []*AlternativeNode
	Pos  Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Prec     string
	Action   string
	Pos      Position
}

// ElementNode is one RHS symbol: either an identifier or a quoted
// literal (exactly one of the fields is set).
type ElementNode struct {
	ID      string
	Literal string
	Pos     Position
}

func raiseSyntaxError(synErr *SyntaxError, pos Position) {
	panic(synErr.withPos(pos))
}

func Parse(src io.Reader) (*RootNode, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex       *lexer
	peekedTok *token
	lastTok   *token
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (root *RootNode, retErr error) {
	defer func() {
		err := recover()
		if err != nil {
			var ok bool
			retErr, ok = err.(error)
			if !ok {
				panic(err)
			}
			return
		}
	}()
	root = &RootNode{}
	p.parseDeclarations(root)
	p.parseRules(root)
	root.Epilogue = p.lex.remainder()
	if len(root.Rules) == 0 {
		raiseSyntaxError(synErrNoProduction, p.lastTok.pos)
	}
	return root, nil
}

func (p *parser) parseDeclarations(root *RootNode) {
	for {
		tok := p.next()
		switch tok.kind {
		case tokenKindSectionMarker:
			return
		case tokenKindEOF:
			raiseSyntaxError(synErrNoSection, tok.pos)
		case tokenKindPrologue:
			root.Prologue += tok.text
		case tokenKindDirective:
			p.parseDirective(root, tok)
		default:
			raiseSyntaxError(synErrStrayToken, tok.pos)
		}
	}
}

func (p *parser) parseDirective(root *RootNode, tok *token) {
	switch tok.text {
	case "union":
		body := p.next()
		if body.kind != tokenKindBraceBlock {
			raiseSyntaxError(synErrNoUnionBody, body.pos)
		}
		root.Union = body.text
	case "token", "type", "left", "right", "nonassoc", "start":
		dir := &DirectiveNode{
			Name: tok.text,
			Pos:  tok.pos,
		}
		if p.consume(tokenKindTypeTag) {
			dir.ValueType = p.lastTok.text
		}
		for {
			if !p.consume(tokenKindID) && !p.consume(tokenKindLiteral) {
				break
			}
			dir.Params = append(dir.Params, p.lastTok.text)
		}
		if len(dir.Params) == 0 {
			raiseSyntaxError(synErrDirNoParam, tok.pos)
		}
		root.Directives = append(root.Directives, dir)
	default:
		raiseSyntaxError(synErrInvalidDirective, tok.pos)
	}
}

func (p *parser) parseRules(root *RootNode) {
	for {
		tok := p.next()
		switch tok.kind {
		case tokenKindEOF, tokenKindSectionMarker:
			return
		case tokenKindID:
			root.Rules = append(root.Rules, p.parseRule(tok))
		default:
			raiseSyntaxError(synErrNoProductionName, tok.pos)
		}
	}
}

func (p *parser) parseRule(lhs *token) *RuleNode {
	if !p.consume(tokenKindColon) {
		raiseSyntaxError(synErrNoColon, p.lastTok.pos)
	}
	rule := &RuleNode{
		LHS: lhs.text,
		Pos: lhs.pos,
	}
	rule.Alts = append(rule.Alts, p.parseAlternative())
	for p.consume(tokenKindOr) {
		rule.Alts = append(rule.Alts, p.parseAlternative())
	}
	if !p.consume(tokenKindSemicolon) {
		raiseSyntaxError(synErrNoSemicolon, p.lastTok.pos)
	}
	return rule
}

func (p *parser) parseAlternative() *AlternativeNode {
	alt := &AlternativeNode{
		Pos: p.peek().pos,
	}
	for {
		if p.consume(tokenKindID) {
			alt.Elements = append(alt.Elements, &ElementNode{
				ID:  p.lastTok.text,
				Pos: p.lastTok.pos,
			})
			continue
		}
		if p.consume(tokenKindLiteral) {
			alt.Elements = append(alt.Elements, &ElementNode{
				Literal: p.lastTok.text,
				Pos:     p.lastTok.pos,
			})
			continue
		}
		break
	}
	if p.consume(tokenKindDirective) {
		if p.lastTok.text != "prec" {
			raiseSyntaxError(synErrInvalidDirective, p.lastTok.pos)
		}
		if !p.consume(tokenKindID) && !p.consume(tokenKindLiteral) {
			raiseSyntaxError(synErrNoPrecSymbol, p.lastTok.pos)
		}
		alt.Prec = p.lastTok.text
	}
	if p.consume(tokenKindBraceBlock) {
		alt.Action = p.lastTok.text
	}
	return alt
}

func (p *parser) next() *token {
	if p.peekedTok != nil {
		tok := p.peekedTok
		p.peekedTok = nil
		p.lastTok = tok
		return tok
	}
	tok, err := p.lex.next()
	if err != nil {
		panic(err)
	}
	p.lastTok = tok
	return tok
}

func (p *parser) peek() *token {
	if p.peekedTok == nil {
		tok, err := p.lex.next()
		if err != nil {
			panic(err)
		}
		p.peekedTok = tok
	}
	return p.peekedTok
}

func (p *parser) consume(expected tokenKind) bool {
	tok := p.peek()
	if tok.kind != expected {
		return false
	}
	p.next()
	return true
}
