package spec

import (
	"strings"
	"testing"
)

func TestLexer_Next(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		tokens  []*token
	}{
		{
			caption: "declaration tokens",
			src:     "%token <ival> NUM '+'\n%%",
			tokens: []*token{
				{kind: tokenKindDirective, text: "token"},
				{kind: tokenKindTypeTag, text: "ival"},
				{kind: tokenKindID, text: "NUM"},
				{kind: tokenKindLiteral, text: "'+'"},
				{kind: tokenKindSectionMarker, text: "%%"},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "rule punctuation",
			src:     "E : E '+' E | NUM ;",
			tokens: []*token{
				{kind: tokenKindID, text: "E"},
				{kind: tokenKindColon, text: ":"},
				{kind: tokenKindID, text: "E"},
				{kind: tokenKindLiteral, text: "'+'"},
				{kind: tokenKindID, text: "E"},
				{kind: tokenKindOr, text: "|"},
				{kind: tokenKindID, text: "NUM"},
				{kind: tokenKindSemicolon, text: ";"},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "comments are skipped",
			src:     "A /* comment */ B // line\nC",
			tokens: []*token{
				{kind: tokenKindID, text: "A"},
				{kind: tokenKindID, text: "B"},
				{kind: tokenKindID, text: "C"},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "a prologue block is one token",
			src:     "%{\n#include <stdio.h>\n%}",
			tokens: []*token{
				{kind: tokenKindPrologue, text: "\n#include <stdio.h>\n"},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "a brace block tracks nesting, strings, and comments",
			src:     `{ if (a) { b("}"); } /* } */ }`,
			tokens: []*token{
				{kind: tokenKindBraceBlock, text: `{ if (a) { b("}"); } /* } */ }`},
				{kind: tokenKindEOF},
			},
		},
		{
			caption: "literal escapes stay raw",
			src:     `'\n' '\x41'`,
			tokens: []*token{
				{kind: tokenKindLiteral, text: `'\n'`},
				{kind: tokenKindLiteral, text: `'\x41'`},
				{kind: tokenKindEOF},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			lex, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			for _, want := range tt.tokens {
				got, err := lex.next()
				if err != nil {
					t.Fatal(err)
				}
				if got.kind != want.kind {
					t.Fatalf("unexpected token kind; want: %v, got: %v (%v)", want.kind, got.kind, got.text)
				}
				if want.text != "" && got.text != want.text {
					t.Fatalf("unexpected token text; want: %q, got: %q", want.text, got.text)
				}
			}
		})
	}
}

func TestLexer_Position(t *testing.T) {
	lex, err := newLexer(strings.NewReader("A\n  B"))
	if err != nil {
		t.Fatal(err)
	}
	tok, err := lex.next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.pos.Row != 1 || tok.pos.Col != 1 {
		t.Fatalf("unexpected position of A; got: %v", tok.pos)
	}
	tok, err = lex.next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.pos.Row != 2 || tok.pos.Col != 3 {
		t.Fatalf("unexpected position of B; got: %v", tok.pos)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want *SyntaxError
	}{
		{src: "'a", want: synErrUnclosedLiteral},
		{src: "''", want: synErrEmptyLiteral},
		{src: "/* comment", want: synErrUnclosedComment},
		{src: "%{ prologue", want: synErrUnclosedPrologue},
		{src: "{ action", want: synErrUnclosedBrace},
		{src: "<tag", want: synErrUnclosedTypeTag},
		{src: "?", want: synErrInvalidChar},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lex, err := newLexer(strings.NewReader(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			for {
				tok, err := lex.next()
				if err != nil {
					synErr, ok := err.(*SyntaxError)
					if !ok || !synErr.Is(tt.want) {
						t.Fatalf("want: %v, got: %v", tt.want, err)
					}
					return
				}
				if tok.kind == tokenKindEOF {
					t.Fatalf("an error was expected; got EOF")
				}
			}
		})
	}
}
