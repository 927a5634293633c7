package regexpr

import "github.com/alecthomas/participle/v2/lexer"

// exprLexer tokenizes register expressions such as "mdio+rwctrl[7:5]".
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},

	// Hex before decimal so "0x..." is not split after the zero.
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
	{Name: "Punct", Pattern: `[+\[\]:]`},
})
