package main

import (
	"encoding/json"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/urfave/cli/v2"
	mplex "github.com/vyPal/MiniPascal/lib/lexer"
	"github.com/vyPal/MiniPascal/lib/parser"
	"github.com/vyPal/MiniPascal/lib/token"
	"go.uber.org/zap"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "tokens",
		Usage:     "Print the token sequence of a program",
		Category:  "compile",
		ArgsUsage: "[file]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Print the tokens as JSON",
			},
		}, sessionFlags...),
		Action: dumpTokens,
	}, &cli.Command{
		Name:     "grammar",
		Usage:    "Print the EBNF grammar of the language",
		Category: "compile",
		Action: func(c *cli.Context) error {
			fmt.Fprint(c.App.Writer, parser.Grammar)
			return nil
		},
	})
}

type tokenRecord struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

func dumpTokens(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.log.Sync()

	filename, src, err := s.open(c)
	if err != nil {
		return exitError(err)
	}
	defer src.Close()

	lex, err := mplex.Definition.Lex(filename, src)
	if err != nil {
		return exitError(err)
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return exitError(err)
	}
	s.log.Debug("lexed", zap.String("file", filename), zap.Int("tokens", len(raw)))

	tokens := make([]token.Token, len(raw))
	for i, tok := range raw {
		tokens[i] = mplex.FromParticiple(tok)
	}

	if !c.Bool("json") {
		printTokens(c.App.Writer, tokens)
		return nil
	}

	records := make([]tokenRecord, len(tokens))
	for i, tok := range tokens {
		records[i] = tokenRecord{
			Index:  i,
			Kind:   tok.Name,
			Lexeme: tok.Lexeme,
			Line:   tok.Pos.Line,
			Column: tok.Pos.Column,
			Offset: tok.Pos.Offset,
		}
	}
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return exitError(err)
	}
	return nil
}
