package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/askpage"
)

// REPL prompt and exit word.
const (
	Prompt      = "Faça uma pergunta avançada sobre IA (ou 'sair'): "
	ExitCommand = "sair"
)

// maxLineBytes bounds a single question.
const maxLineBytes = 1 << 20

// Repl reads questions from in until a line equal to ExitCommand, ignoring
// case, or end of input, and writes each answer to out. Lines are forwarded
// as typed.
func Repl(ctx context.Context, in io.Reader, out io.Writer, a askpage.Assistant) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for {
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		query := scanner.Text()
		if strings.EqualFold(query, ExitCommand) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		answer, err := a.RunQuery(ctx, query)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResposta avançada: %s\n\n", answer)
	}
}
