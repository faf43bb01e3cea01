package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/joshuaclayton/socket/internal/fragments"
	"github.com/joshuaclayton/socket/internal/markdown"
	"github.com/joshuaclayton/socket/internal/styles"
	"github.com/joshuaclayton/socket/skt"
)

// CLI is the socket command surface (spec.md §6.1, supplemented with
// --fragments and --styles per original_source/src/cli.rs).
type CLI struct {
	Context   string `help:"Path to a JSON context file." name:"context" type:"existingfile"`
	Fragments string `help:"Directory of .skt fragments to load." name:"fragments" type:"existingdir"`
	Styles    string `help:"Path to a stylesheet entry file." name:"styles" type:"existingfile"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("socket"),
		kong.Description("Compile an SKT template from stdin to HTML on stdout."),
		kong.UsageOnError(),
	)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	code := run(cli, os.Stdin, os.Stdout, logger)
	os.Exit(code)
}

func run(cli CLI, stdin io.Reader, stdout io.Writer, logger *slog.Logger) int {
	source, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "socket: failed to read stdin: %s\n", err)
		return 1
	}

	nodes, err := skt.Parse(string(source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "socket: parse error: %s\n", err)
		return 1
	}

	ctx := skt.EmptyContext()
	if cli.Context != "" {
		data, err := os.ReadFile(cli.Context)
		if err != nil {
			fmt.Fprintf(os.Stderr, "socket: failed to read context: %s\n", err)
			return 1
		}
		ctx, err = skt.LoadContext(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "socket: %s\n", err)
			return 1
		}
	}

	table := skt.NewFragments()
	if cli.Fragments != "" {
		if err := fragments.Load(afero.NewOsFs(), cli.Fragments, table); err != nil {
			fmt.Fprintf(os.Stderr, "socket: failed to load fragments: %s\n", err)
			return 1
		}
	}

	var css string
	if cli.Styles != "" {
		compiled, err := (styles.PassthroughCompiler{}).Compile(cli.Styles)
		if err != nil {
			fmt.Fprintf(os.Stderr, "socket: %s\n", err)
			return 1
		}
		css = compiled
	}

	evaluator := skt.NewEvaluator(
		skt.WithFragments(table),
		skt.WithCSS(css),
		skt.WithMarkdownRenderer(markdown.Render),
		skt.WithLogger(logger),
	)

	html, warnings := evaluator.Eval(nodes, ctx)
	for _, w := range warnings {
		logger.Warn("evaluation warning", slog.Any("error", w))
	}

	fmt.Fprint(stdout, html)
	return 0
}
