package codegen

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/julymiaw/seuyacc/grammar"
)

type headerTemplateData struct {
	Guard  string
	Tokens []headerToken
	Union  string
}

type headerToken struct {
	Name  string
	Value int
}

// GenHeader renders the companion header: token code macros, the
// YYSTYPE union, and the yyparse declaration. fileName names the
// header file itself and shapes the include guard.
func GenHeader(gram *grammar.Grammar, fileName string) ([]byte, error) {
	terms := gram.Terminals()
	values, err := TokenValues(terms)
	if err != nil {
		return nil, err
	}

	var tokens []headerToken
	for i, sym := range terms {
		// Literals are addressed by their character value and get no
		// macro; EOF is pinned separately.
		if sym.IsEOF() || sym.Kind() != grammar.SymbolKindToken {
			continue
		}
		tokens = append(tokens, headerToken{
			Name:  sym.Name(),
			Value: values[i],
		})
	}

	data := &headerTemplateData{
		Guard:  guardName(fileName),
		Tokens: tokens,
		Union:  unionBody(gram.Union()),
	}

	var out bytes.Buffer
	err = headerTemplate.Execute(&out, data)
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func guardName(fileName string) string {
	guard := strings.ToUpper(fileName)
	guard = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, guard)
	return guard
}

// unionBody normalizes a %union block into the members of the
// YYSTYPE union; the default covers grammars without %union.
func unionBody(union string) string {
	body := stripBraces(strings.TrimSpace(union))
	body = strings.TrimSpace(body)
	if body == "" {
		return "  int ival;\n  char* sval;"
	}
	var lines []string
	for _, line := range strings.Split(body, "\n") {
		lines = append(lines, "  "+strings.TrimSpace(line))
	}
	return strings.Join(lines, "\n")
}

var headerTemplate = template.Must(template.New("cHeader").Parse(`/* Token definitions generated by seuyacc. */

#ifndef {{ .Guard }}_INCLUDED
# define {{ .Guard }}_INCLUDED

#ifndef YYDEBUG
# define YYDEBUG 0
#endif
#if YYDEBUG
extern int yydebug;
#endif

#ifndef YYTOKENTYPE
# define YYTOKENTYPE
  enum yytokentype
  {
    YYEOF = 0{{ range .Tokens }},
    {{ .Name }} = {{ .Value }}{{ end }}
  };
#endif

#define YYEOF 0
{{ range .Tokens -}}
#define {{ .Name }} {{ .Value }}
{{ end }}
#if ! defined YYSTYPE && ! defined YYSTYPE_IS_DECLARED
union YYSTYPE
{
{{ .Union }}
};
typedef union YYSTYPE YYSTYPE;
# define YYSTYPE_IS_TRIVIAL 1
# define YYSTYPE_IS_DECLARED 1
#endif

extern YYSTYPE yylval;

int yyparse(void);

#endif /* !{{ .Guard }}_INCLUDED */
`))
