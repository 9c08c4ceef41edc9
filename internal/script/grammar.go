// Package script parses and runs replay scripts: a line-oriented list of
// player commands and expectations driven against a seeded world.
//
//	seed 7
//	job courier
//	move east 3
//	tick 70ms x 10
//	expect hp >= 10
package script

import (
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

type Script struct {
	Stmts []*Stmt `@@*`
}

type Stmt struct {
	Pos lexer.Position

	Seed     *uint64 `  "seed" @Number`
	Job      *string `| "job" @Ident`
	Move     *Move   `| "move" @@`
	Interact bool    `| @"interact"`
	Combat   *Combat `| @@`
	Cursor   *int    `| "cursor" @Number`
	Confirm  bool    `| @"confirm"`
	Tick     *Tick   `| @@`
	Buy      *int    `| "buy" @Number`
	Use      *int    `| "use" @Number`
	Equip    *int    `| "equip" @Number`
	Open     *string `| "open" @Ident`
	Close    bool    `| @"close"`
	Save     bool    `| @"save"`
	Expect   *Expect `| "expect" @@`
}

type Move struct {
	Dir   string `@("north" | "south" | "east" | "west")`
	Steps *int   `@Number?`
}

type Combat struct {
	Action string `@("attack" | "skill" | "item" | "flee")`
	Slot   *int   `@Number?`
}

type Tick struct {
	Keyword string  `@"tick"`
	Step    *string `@Duration?`
	Times   *int    `("x" @Number)?`
}

type Expect struct {
	Field string `@Ident`
	Op    string `@Op`
	Value Value  `@@`
}

type Value struct {
	Number *float64 `  @Number`
	Word   *string  `| @Ident`
}

func (v Value) String() string {
	if v.Number != nil {
		return formatNumber(*v.Number)
	}
	if v.Word != nil {
		return *v.Word
	}
	return ""
}

var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Duration", Pattern: `[0-9]+(\.[0-9]+)?(ms|s)\b`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Op", Pattern: `>=|<=|==|!=|>|<`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
})

var parser = participle.MustBuild[Script](
	participle.Lexer(scriptLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

func Parse(filename, source string) (*Script, error) {
	return parser.ParseString(filename, source)
}

func ParseFile(path string) (*Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(b))
}
