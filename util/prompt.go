package util

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter asks questions on out and reads answers from in. A closed or
// empty input selects the default answer.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

var stdPrompter = NewPrompter(os.Stdin, os.Stdout)

func (p *Prompter) String(prompt string, def string) string {
	fmt.Fprintf(p.out, "%s (%s): ", prompt, def)

	response := p.readLine()
	if response == "" {
		return def
	}
	return response
}

func (p *Prompter) YN(prompt string, def bool) bool {
	if def {
		fmt.Fprintf(p.out, "%s (Y/n): ", prompt)
	} else {
		fmt.Fprintf(p.out, "%s (y/N): ", prompt)
	}

	response := p.readLine()
	if response == "" {
		return def
	}
	return strings.ToLower(response) == "y"
}

func (p *Prompter) readLine() string {
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return ""
	}
	return strings.TrimSpace(response)
}

func PromptString(prompt string, def string) string {
	return stdPrompter.String(prompt, def)
}

func PromptYN(prompt string, def bool) bool {
	return stdPrompter.YN(prompt, def)
}
