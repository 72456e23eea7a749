package spec

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	src := `
%{
#include <stdio.h>
int yylex(void);
%}
%union {
	int ival;
	char* sval;
}
%token <ival> NUM
%token IDENT
%start E
%left '+' '-'
%left '*' '/'
%nonassoc UMINUS
%type <ival> E
%%
E : E '+' E { $$ = $1 + $3; }
  | E '*' E { $$ = $1 * $3; }
  | '-' E %prec UMINUS { $$ = -$2; }
  | NUM
  ;
%%
int main(void) {
	return yyparse();
}
`
	root, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(root.Prologue, "#include <stdio.h>") {
		t.Fatalf("the prologue must be captured verbatim; got: %q", root.Prologue)
	}
	if !strings.Contains(root.Union, "char* sval;") {
		t.Fatalf("the union body must be captured verbatim; got: %q", root.Union)
	}
	if !strings.Contains(root.Epilogue, "int main(void)") {
		t.Fatalf("the epilogue must be captured verbatim; got: %q", root.Epilogue)
	}

	wantDirs := []struct {
		name      string
		valueType string
		params    []string
	}{
		{name: "token", valueType: "ival", params: []string{"NUM"}},
		{name: "token", params: []string{"IDENT"}},
		{name: "start", params: []string{"E"}},
		{name: "left", params: []string{"'+'", "'-'"}},
		{name: "left", params: []string{"'*'", "'/'"}},
		{name: "nonassoc", params: []string{"UMINUS"}},
		{name: "type", valueType: "ival", params: []string{"E"}},
	}
	if len(root.Directives) != len(wantDirs) {
		t.Fatalf("unexpected directive count; want: %v, got: %v", len(wantDirs), len(root.Directives))
	}
	for i, want := range wantDirs {
		dir := root.Directives[i]
		if dir.Name != want.name || dir.ValueType != want.valueType {
			t.Fatalf("unexpected directive; want: %+v, got: %+v", want, dir)
		}
		if len(dir.Params) != len(want.params) {
			t.Fatalf("unexpected directive params; want: %v, got: %v", want.params, dir.Params)
		}
		for j, p := range want.params {
			if dir.Params[j] != p {
				t.Fatalf("unexpected directive param; want: %v, got: %v", p, dir.Params[j])
			}
		}
	}

	if len(root.Rules) != 1 {
		t.Fatalf("unexpected rule count; want: 1, got: %v", len(root.Rules))
	}
	rule := root.Rules[0]
	if rule.LHS != "E" || len(rule.Alts) != 4 {
		t.Fatalf("unexpected rule shape; LHS: %v, alternatives: %v", rule.LHS, len(rule.Alts))
	}

	alt := rule.Alts[0]
	if len(alt.Elements) != 3 || alt.Elements[0].ID != "E" || alt.Elements[1].Literal != "'+'" {
		t.Fatalf("unexpected first alternative: %+v", alt)
	}
	if alt.Action != "{ $$ = $1 + $3; }" {
		t.Fatalf("the action must be captured with its braces; got: %q", alt.Action)
	}

	uminus := rule.Alts[2]
	if uminus.Prec != "UMINUS" {
		t.Fatalf("%%prec must be recorded; got: %q", uminus.Prec)
	}
	if len(uminus.Elements) != 2 || uminus.Elements[0].Literal != "'-'" {
		t.Fatalf("unexpected %%prec alternative: %+v", uminus)
	}

	last := rule.Alts[3]
	if len(last.Elements) != 1 || last.Elements[0].ID != "NUM" || last.Action != "" {
		t.Fatalf("unexpected last alternative: %+v", last)
	}
}

func TestParse_EmptyAlternative(t *testing.T) {
	root, err := Parse(strings.NewReader(`
%token A
%%
L : /* empty */ | L A ;
`))
	if err != nil {
		t.Fatal(err)
	}
	rule := root.Rules[0]
	if len(rule.Alts) != 2 {
		t.Fatalf("unexpected alternative count; got: %v", len(rule.Alts))
	}
	if len(rule.Alts[0].Elements) != 0 {
		t.Fatalf("the first alternative must be empty; got: %+v", rule.Alts[0].Elements)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		want    *SyntaxError
	}{
		{
			caption: "the rules section is missing",
			src:     "%token A\n",
			want:    synErrNoSection,
		},
		{
			caption: "a grammar without rules",
			src:     "%token A\n%%\n",
			want:    synErrNoProduction,
		},
		{
			caption: "a semicolon is missing",
			src:     "%%\nS : A\n",
			want:    synErrNoSemicolon,
		},
		{
			caption: "a colon is missing",
			src:     "%%\nS A ;\n",
			want:    synErrNoColon,
		},
		{
			caption: "an unknown directive",
			src:     "%bogus A\n%%\nS : A ;\n",
			want:    synErrInvalidDirective,
		},
		{
			caption: "a directive without parameters",
			src:     "%token\n%%\nS : A ;\n",
			want:    synErrDirNoParam,
		},
		{
			caption: "%union without a body",
			src:     "%union A\n%%\nS : A ;\n",
			want:    synErrNoUnionBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Fatalf("want: %v, got: %v", tt.want, err)
			}
		})
	}
}

func TestParse_PositionsAreTracked(t *testing.T) {
	root, err := Parse(strings.NewReader("%token A\n%%\nS : A ;\n"))
	if err != nil {
		t.Fatal(err)
	}
	if root.Directives[0].Pos.Row != 1 {
		t.Fatalf("unexpected directive row; got: %v", root.Directives[0].Pos.Row)
	}
	if root.Rules[0].Pos.Row != 3 {
		t.Fatalf("unexpected rule row; got: %v", root.Rules[0].Pos.Row)
	}
}
