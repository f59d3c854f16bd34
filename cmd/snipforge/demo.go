package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/snipforge/internal/config"
	"github.com/dshills/snipforge/internal/engine"
	"github.com/dshills/snipforge/internal/input/key"
	"github.com/dshills/snipforge/internal/snippet"
	"github.com/dshills/snipforge/internal/source/terminal"
)

// listSnippets prints the library as an aligned table.
func listSnippets(snippets []snippet.Snippet) {
	if len(snippets) == 0 {
		fmt.Println("library is empty")
		return
	}

	triggerWidth := 0
	for _, sn := range snippets {
		if w := runewidth.StringWidth(sn.Trigger); w > triggerWidth {
			triggerWidth = w
		}
	}

	for _, sn := range snippets {
		desc := sn.Description
		if desc == "" {
			desc = firstLine(sn.Content)
		}
		fmt.Printf("%s  %s\n", runewidth.FillRight(sn.Trigger, triggerWidth), desc)
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

// runDemo runs the interactive terminal demo: keystrokes stream into the
// engine, expansions display on the screen, Escape quits. The library file
// stays watched so edits show up live.
func runDemo(cfg config.Config, store *snippet.Store, snippets []snippet.Snippet) int {
	e, err := newEngine(cfg, snippets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	e.Start()
	defer e.Close()

	src, err := terminal.NewSource()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating terminal: %v\n", err)
		return 1
	}
	if err := src.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing terminal: %v\n", err)
		return 1
	}
	defer src.Stop()

	watcher, err := snippet.NewWatcher(store, e.UpdateSnippets,
		snippet.WithErrorHandler(func(err error) { log.Printf("watcher: %v", err) }))
	if err != nil {
		log.Printf("live reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	screen := src.Screen()
	status := fmt.Sprintf("%d snippets loaded - type a trigger, Esc quits", len(snippets))
	lastOutput := ""

	for {
		drawDemo(screen, status, lastOutput)

		select {
		case ev, ok := <-src.Events():
			if !ok {
				return 0
			}
			if ev.Key == key.KeyEscape {
				return 0
			}
			e.Events() <- ev

		case m := <-e.Matches():
			out, err := e.Expand(m, defaultFields(m))
			if err != nil {
				lastOutput = fmt.Sprintf("%s: %v", m.Snippet.Trigger, err)
				continue
			}
			lastOutput = fmt.Sprintf("%s → %s", m.Snippet.Trigger, out.String())
		}
	}
}

// defaultFields fills every prompted field with its name, standing in for
// the field-collection dialog this demo does not have.
func defaultFields(m engine.Match) map[string]string {
	fields := make(map[string]string)
	for _, name := range m.Template.FieldNames() {
		fields[name] = name
	}
	return fields
}

// drawDemo paints the two status lines.
func drawDemo(screen tcell.Screen, status, output string) {
	screen.Clear()
	drawText(screen, 0, 0, tcell.StyleDefault.Bold(true), status)
	drawText(screen, 0, 2, tcell.StyleDefault, output)
	screen.Show()
}

// drawText writes a string at (x, y), advancing by display width.
func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
