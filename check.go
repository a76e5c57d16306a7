package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	mplex "github.com/vyPal/MiniPascal/lib/lexer"
	"github.com/vyPal/MiniPascal/lib/parser"
	"github.com/vyPal/MiniPascal/lib/symtab"
	"github.com/vyPal/MiniPascal/lib/token"
	"go.uber.org/zap"
)

func init() {
	commands = append(commands, &cli.Command{
		Name:      "check",
		Usage:     "Tokenize and parse a program, reporting the first error",
		Category:  "compile",
		ArgsUsage: "[file]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:    "tokens",
				Aliases: []string{"t"},
				Usage:   "Print the token sequence before parsing",
			},
			&cli.BoolFlag{
				Name:  "symbols",
				Usage: "Print the symbol table after a successful parse",
			},
			&cli.BoolFlag{
				Name:  "syntax-only",
				Usage: "Only check the grammar, skip declaration checks",
			},
		}, sessionFlags...),
		Action: check,
	})
}

func check(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return exitError(err)
	}
	defer s.log.Sync()

	filename, src, err := s.open(c)
	if err != nil {
		return exitError(err)
	}

	start := time.Now()
	tokens := mplex.TokenizeReader(filename, src)
	src.Close()
	s.log.Info("tokenized",
		zap.String("file", filename),
		zap.Int("tokens", len(tokens)),
		zap.Duration("elapsed", time.Since(start)))

	w := c.App.Writer
	if c.Bool("tokens") || s.conf.Diagnostics.ShowTokens {
		printTokens(w, tokens)
	}

	opts := []parser.Option{parser.WithLogger(s.log)}
	if c.Bool("syntax-only") || s.conf.Diagnostics.SyntaxOnly {
		opts = append(opts, parser.SyntaxOnly())
	}

	start = time.Now()
	prog, err := parser.Parse(tokens, opts...)
	if err != nil {
		var failure *parser.Failure
		if errors.As(err, &failure) {
			s.log.Info("parse failed",
				zap.String("file", filename),
				zap.Stringer("kind", failure.Kind),
				zap.Int("position", failure.Position))
			return cli.Exit(color.RedString("%s", formatFailure(filename, failure)), 1)
		}
		return exitError(err)
	}
	s.log.Info("parsed",
		zap.String("file", filename),
		zap.String("program", prog.Name),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Fprintf(w, "%s %s: program %s, %d constants, %d variables, %d instructions\n",
		color.GreenString("ok"), filename, prog.Name, prog.Constants, prog.Variables, prog.Instructions)

	if c.Bool("symbols") || s.conf.Diagnostics.ShowSymbols {
		printSymbols(w, prog.Symbols)
	}
	return nil
}

func formatFailure(filename string, f *parser.Failure) string {
	pos := f.Token.Pos
	loc := fmt.Sprintf("%s:%d:%d", filename, pos.Line, pos.Column)
	if f.Kind == parser.SemanticError {
		return fmt.Sprintf("%s: %s: %s (token %d)", loc, f.Kind, f.Err, f.Position)
	}
	return fmt.Sprintf("%s: %s: expected %s but got %s (token %d)", loc, f.Kind, f.Expected, f.Actual, f.Position)
}

func printTokens(w io.Writer, tokens []token.Token) {
	fmt.Fprintln(w, "----------------------------------------")
	for i, tok := range tokens {
		fmt.Fprintf(w, "%4d  %3d:%-3d  %-18s %q", i, tok.Pos.Line, tok.Pos.Column, tok.Name, tok.Lexeme)
		if tok.Message != "" {
			fmt.Fprintf(w, "  %s", color.YellowString(tok.Message))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "----------------------------------------")
}

func printSymbols(w io.Writer, table *symtab.Table) {
	for _, name := range table.Names() {
		sym, _ := table.Lookup(name)
		if sym.IsConstant {
			fmt.Fprintf(w, "  const %s = %d\n", name, sym.Value)
		} else {
			fmt.Fprintf(w, "  var   %s\n", name)
		}
	}
}
