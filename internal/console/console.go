// Package console runs an interactive text chat on a terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/xaenox/jarvis-bot/internal/models"
)

const (
	greeting = "Hello! I'm Jarvis. Type 'exit' or 'quit' to leave."
	farewell = "Goodbye! Have a great day."
)

type Resolver interface {
	ResolveReply(ctx context.Context, input string) models.Reply
}

type Console struct {
	resolver Resolver
	in       io.Reader
	out      io.Writer
	you      *color.Color
	jarvis   *color.Color
}

func New(resolver Resolver, in io.Reader, out io.Writer) *Console {
	return &Console{
		resolver: resolver,
		in:       in,
		out:      out,
		you:      color.New(color.FgGreen, color.Bold),
		jarvis:   color.New(color.FgCyan, color.Bold),
	}
}

// Run reads lines until exit, quit, end of input or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.say(greeting)

	// lines have no length limit
	reader := bufio.NewReader(c.in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		c.you.Fprint(c.out, "You: ")
		raw, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if err != nil && raw == "" {
			fmt.Fprintln(c.out)
			c.say(farewell)
			return nil
		}

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "exit", "quit":
			c.say(farewell)
			return nil
		}

		c.say(c.resolver.ResolveReply(ctx, line).Text)
	}
}

func (c *Console) say(text string) {
	c.jarvis.Fprint(c.out, "Jarvis: ")
	fmt.Fprintln(c.out, text)
}
