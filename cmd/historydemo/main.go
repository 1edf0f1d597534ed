// Package main is a small demonstration of the history engine: it
// types a few characters into an in-memory text document, undoes and
// redoes them, and prints the document after each step. It exists to
// exercise the package end to end, not as a real editor front end.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inkstone/history/internal/config"
	"github.com/inkstone/history/internal/engine/step"
	"github.com/inkstone/history/internal/plugin/history"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a history.toml config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
			return 1
		}
		cfg = loaded
	}

	logger := func(format string, args ...any) { fmt.Printf(format+"\n", args...) }
	plugin := history.New(cfg, logger)

	doc := step.TextDoc{Text: ""}
	sel := func() string { return step.TextSelection{Anchor: len(doc.Text), Head: len(doc.Text)}.ToJSON() }

	apply := func(pos int, text string) {
		before := sel()
		tr := step.NewTransform(doc)
		if err := tr.Step(step.ReplaceStep{From: pos, To: pos, Text: text}); err != nil {
			fmt.Fprintf(os.Stderr, "error: step: %v\n", err)
			os.Exit(1)
		}
		plugin.Apply(tr, before, nil, nil, 0)
		doc = tr.Doc().(step.TextDoc)
		fmt.Printf("typed %q -> %q (undoDepth=%d)\n", text, doc.Text, plugin.UndoDepth())
	}

	apply(0, "hello")
	apply(5, " world")

	for plugin.UndoDepth() > 0 {
		res, err := plugin.Undo(doc, sel())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: undo: %v\n", err)
			return 1
		}
		doc = res.Transform.Doc().(step.TextDoc)
		fmt.Printf("undo -> %q (%s)\n", doc.Text, history.Describe(res))
	}

	for plugin.RedoDepth() > 0 {
		res, err := plugin.Redo(doc, sel())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: redo: %v\n", err)
			return 1
		}
		doc = res.Transform.Doc().(step.TextDoc)
		fmt.Printf("redo -> %q (%s)\n", doc.Text, history.Describe(res))
	}

	return 0
}
