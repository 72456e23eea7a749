package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/julymiaw/seuyacc/grammar"
)

// yytable cell encoding, identical to what yyparse expects:
// positive = shift to that state, negative = reduce by rule
// (-cell - 1), 0 = accept, yyErrorCode = error.
const yyErrorCode = -32767

type parserTemplateData struct {
	HeaderName string
	Prologue   string
	Epilogue   string

	YYFinal   int
	YYLast    int
	YYNTokens int
	YYNNTs    int
	YYNRules  int
	YYNStates int
	YYMaxUTok int
	YYErrCode int
	GotoSize  int

	TranslateTable string
	YYTable        string
	TName          string
	YYGoto         string
	YYR1           string
	YYR2           string
	ReduceCases    string
}

// GenParserSource renders the table-driven C parser for a compiled
// grammar. headerName is the name of the companion header included at
// the top of the file.
func GenParserSource(gram *grammar.Grammar, tab *grammar.ParsingTable, headerName string) ([]byte, error) {
	terms := gram.Terminals()
	nonTerms := gram.NonTerminals()
	prods := gram.Productions()

	values, err := TokenValues(terms)
	if err != nil {
		return nil, err
	}
	translate, maxUTok := translateTable(values)

	data := &parserTemplateData{
		HeaderName: headerName,
		Prologue:   strings.TrimSpace(gram.Prologue()),
		Epilogue:   strings.TrimSpace(gram.Epilogue()),
		YYFinal:    tab.StateCount() - 1,
		YYLast:     tab.StateCount() * len(terms),
		YYNTokens:  len(terms),
		YYNNTs:     len(nonTerms),
		YYNRules:   len(prods),
		YYNStates:  tab.StateCount(),
		YYMaxUTok:  maxUTok,
		YYErrCode:  yyErrorCode,
		GotoSize:   tab.StateCount() * len(nonTerms),
	}

	data.TranslateTable = formatInts(translate, 16, "  ")

	{
		cells := make([]int, 0, tab.StateCount()*len(terms))
		for state := 0; state < tab.StateCount(); state++ {
			for t := range terms {
				cells = append(cells, actionCode(tab, state, t))
			}
		}
		data.YYTable = formatRows(cells, len(terms), "  ")
	}

	{
		var b strings.Builder
		for i, sym := range terms {
			if i > 0 {
				b.WriteString(",\n")
			}
			fmt.Fprintf(&b, "  %q", tokenDisplayName(sym))
		}
		data.TName = b.String()
	}

	{
		cells := make([]int, 0, tab.StateCount()*len(nonTerms))
		for state := 0; state < tab.StateCount(); state++ {
			for _, sym := range nonTerms {
				ok, next := tab.GoTo(state, sym.ID())
				if ok {
					cells = append(cells, next)
				} else {
					cells = append(cells, -1)
				}
			}
		}
		data.YYGoto = formatRows(cells, len(nonTerms), "  ")
	}

	{
		r1 := make([]int, len(prods))
		r2 := make([]int, len(prods))
		for i, prod := range prods {
			r1[i] = prod.LHS().ID()
			r2[i] = len(prod.RHS())
		}
		data.YYR1 = formatInts(r1, 16, "  ")
		data.YYR2 = formatInts(r2, 16, "  ")
	}

	{
		var b strings.Builder
		for _, prod := range prods {
			fmt.Fprintf(&b, "    case %v: /* %v */\n", prod.Num(), prod)
			if prod.Action() != "" {
				b.WriteString("      {\n")
				b.WriteString("        " + expandAction(stripBraces(prod.Action()), prod) + "\n")
				b.WriteString("      }\n")
			}
			b.WriteString("      break;\n")
		}
		data.ReduceCases = strings.TrimRight(b.String(), "\n")
	}

	var out bytes.Buffer
	err = parserTemplate.Execute(&out, data)
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func actionCode(tab *grammar.ParsingTable, state, term int) int {
	ty, next, prod := tab.Action(state, term)
	switch ty {
	case grammar.ActionTypeShift:
		return next
	case grammar.ActionTypeReduce:
		return -prod - 1
	case grammar.ActionTypeAccept:
		return 0
	default:
		return yyErrorCode
	}
}

// tokenDisplayName is the yytname entry for a terminal: `$end` for
// EOF, the raw quoted text for literals, the identifier otherwise.
func tokenDisplayName(sym *grammar.Symbol) string {
	if sym.IsEOF() {
		return "$end"
	}
	return sym.Name()
}

func formatInts(values []int, perLine int, indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	for i, v := range values {
		fmt.Fprintf(&b, "%v", v)
		if i != len(values)-1 {
			b.WriteString(",")
			if (i+1)%perLine == 0 {
				b.WriteString("\n")
				b.WriteString(indent)
			} else {
				b.WriteString(" ")
			}
		}
	}
	return b.String()
}

// formatRows renders one table row per line so a reader can match
// lines to states.
func formatRows(values []int, rowLen int, indent string) string {
	var b strings.Builder
	for row := 0; row*rowLen < len(values); row++ {
		if row > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%v/* state %v */\n%v", indent, row, indent)
		for col := 0; col < rowLen; col++ {
			i := row*rowLen + col
			fmt.Fprintf(&b, "%v", values[i])
			if i != len(values)-1 {
				b.WriteString(",")
				if col != rowLen-1 {
					b.WriteString(" ")
				}
			}
		}
	}
	return b.String()
}

var parserTemplate = template.Must(template.New("cParser").Parse(`/* An LR(1) parser generated by seuyacc. */

#include "{{ .HeaderName }}"
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

{{ if .Prologue -}}
/* user prologue */
{{ .Prologue }}

{{ end -}}
YYSTYPE yylval;

extern int yylex(void);
extern void yyerror(const char* s);
static void yyreport_syntax_error(const char* actual, const char** expected, int expected_count);

#ifndef YYMAXDEPTH
# define YYMAXDEPTH 10000
#endif

#define YYFINAL {{ .YYFinal }}
#define YYLAST {{ .YYLast }}

#define YYNTOKENS {{ .YYNTokens }}
#define YYNNTS {{ .YYNNTs }}
#define YYNRULES {{ .YYNRules }}
#define YYNSTATES {{ .YYNStates }}
#define YYMAXUTOK {{ .YYMaxUTok }}
#define YYERRCODE {{ .YYErrCode }}
#define YYUNDEF -1

static const short yytranslate_table[YYMAXUTOK + 1] = {
{{ .TranslateTable }}
};

static int yytranslate_token(int token) {
  if (token < 0 || token > YYMAXUTOK) {
    return YYUNDEF;
  }
  return yytranslate_table[token];
}

/* ACTION table: positive = shift, negative = reduce (-n - 1),
   0 = accept, {{ .YYErrCode }} = error. */
static const short yytable[] = {
{{ .YYTable }}
};

static const char* yytname[] = {
{{ .TName }}
};

/* GOTO table: -1 = empty. */
static const short yygoto[] = {
{{ .YYGoto }}
};

/* LHS symbol index of each rule. */
static const short yyr1[] = {
{{ .YYR1 }}
};

/* RHS length of each rule. */
static const short yyr2[] = {
{{ .YYR2 }}
};

static void yy_reduce(int rule_num, int* top, YYSTYPE* stack) {
  int symbols_to_pop = yyr2[rule_num];
  YYSTYPE yyval;
  YYSTYPE yyvsp[YYMAXDEPTH + 1];
  int i;

  /* $1 = yyvsp[1], $2 = yyvsp[2], ... */
  for (i = 1; i <= symbols_to_pop; i++) {
    yyvsp[i] = stack[*top - symbols_to_pop + i];
  }

  /* default action: $$ = $1 */
  if (symbols_to_pop > 0) {
    yyval = yyvsp[1];
  }

  switch (rule_num) {
{{ .ReduceCases }}
  }

  stack[*top - symbols_to_pop + 1] = yyval;
}

int yyparse(void) {
  int state = 0;
  int top = 0;
  int token_raw;
  int token;
  int action;
  YYSTYPE stack[YYMAXDEPTH];
  int state_stack[YYMAXDEPTH];

  state_stack[0] = 0;
  token_raw = yylex();
  token = yytranslate_token(token_raw);

  for (;;) {
    if (token == YYUNDEF) {
      yyerror("unrecognized token");
      return 1;
    }

    action = yytable[state * YYNTOKENS + token];

    if (action == YYERRCODE) {
      /* collect the tokens this state would have accepted */
      const char* expected[YYNTOKENS];
      int expected_count = 0;
      int i;
      for (i = 0; i < YYNTOKENS; i++) {
        if (yytable[state * YYNTOKENS + i] != YYERRCODE) {
          expected[expected_count++] = yytname[i];
        }
      }
      yyreport_syntax_error(yytname[token], expected, expected_count);
      return 1;
    }

    if (action > 0) { /* shift */
      stack[++top] = yylval;
      state_stack[top] = action;
      state = action;
      token_raw = yylex();
      token = yytranslate_token(token_raw);
    } else if (action < 0) { /* reduce */
      int rule = -action - 1;
      int nonterminal;
      int next_state;

      yy_reduce(rule, &top, stack);

      top -= yyr2[rule];
      nonterminal = yyr1[rule] - YYNTOKENS;
      {
        int goto_index = state_stack[top] * YYNNTS + nonterminal;
        if (goto_index < 0 || goto_index >= {{ .GotoSize }}) {
          yyerror("goto index out of range");
          return 3;
        }
        next_state = yygoto[goto_index];
      }
      if (next_state == -1) {
        yyerror("no goto entry");
        return 2;
      }

      state_stack[++top] = next_state;
      state = next_state;
    } else { /* accept */
      return 0;
    }
  }
}

/* syntax error reporting stub; to replace it, define
   YYREPORT_SYNTAX_ERROR_DEFINED and a static yyreport_syntax_error
   in this file (the prologue or the epilogue) */
#ifndef YYREPORT_SYNTAX_ERROR_DEFINED
static void yyreport_syntax_error(const char* actual, const char** expected, int expected_count) {
  int i;
  fprintf(stderr, "syntax error: unexpected %s", actual);
  if (expected_count > 0) {
    fprintf(stderr, ", expecting");
    for (i = 0; i < expected_count; i++) {
      fprintf(stderr, " %s", expected[i]);
    }
  }
  fprintf(stderr, "\n");
  yyerror("syntax error");
}
#endif
{{ if .Epilogue }}
/* user epilogue */
{{ .Epilogue }}
{{ end -}}
`))
