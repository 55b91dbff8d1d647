//go:build gui

// Desktop variant of ChapterMate. Always summarizes locally
// (extractive), the trade for a UI that never blocks on a network call.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/chaptermate/chaptermate/internal/config"
	"github.com/chaptermate/chaptermate/internal/document"
	"github.com/chaptermate/chaptermate/internal/library"
	"github.com/chaptermate/chaptermate/internal/session"
	"github.com/chaptermate/chaptermate/internal/summarizer"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type gui struct {
	win   fyne.Window
	sess  *session.Session
	store *library.Store

	title    *widget.Label
	percent  *widget.Label
	progress *widget.ProgressBar
	content  *widget.Label
}

func main() {
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("chaptermate-gui %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := library.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sess := session.New(store, &summarizer.Extractive{}, cfg.WindowSize, cfg.Summarizer.Timeout())

	a := app.New()
	w := a.NewWindow("ChapterMate - Library Edition")

	g := &gui{
		win:      w,
		sess:     sess,
		store:    store,
		title:    widget.NewLabel("No Active Book"),
		percent:  widget.NewLabel("0%"),
		progress: widget.NewProgressBar(),
		content:  widget.NewLabel(""),
	}
	g.title.TextStyle.Bold = true
	g.content.Wrapping = fyne.TextWrapWord

	header := container.NewBorder(nil, nil, g.title, g.percent, g.progress)

	buttons := container.NewHBox(
		widget.NewButton("LIBRARY", g.openLibrary),
		widget.NewButton("NEW", g.newBook),
		widget.NewButton("PREV", func() { g.move(g.sess.Retreat) }),
		widget.NewButton("NEXT", func() { g.move(g.sess.Advance) }),
		widget.NewButton("RESET ALL", g.resetAll),
	)

	w.SetContent(container.NewBorder(
		header,
		container.NewCenter(buttons),
		nil, nil,
		container.NewVScroll(g.content),
	))

	g.refresh()
	w.Resize(fyne.NewSize(900, 700))
	w.ShowAndRun()
}

func (g *gui) refresh() {
	_, book, ok := g.sess.ActiveBook()
	if !ok {
		g.title.SetText("No Active Book")
		g.percent.SetText("0%")
		g.progress.SetValue(0)
		g.content.SetText("\nWelcome. Use NEW to add a book.")
		return
	}

	g.title.SetText(book.Title)
	pct := g.sess.Percent()
	g.percent.SetText(fmt.Sprintf("%d%%", int(pct)))
	g.progress.SetValue(pct / 100)

	w, sum, err := g.sess.Refresh(context.Background())
	switch {
	case errors.Is(err, document.ErrNoText):
		g.content.SetText("No readable text in this window. The file may be a scanned document; try another file.")
	case err != nil:
		g.content.SetText("Could not read this window: " + err.Error())
	case w.AtEnd && sum == nil:
		g.content.SetText("You have reached the end of this book.")
	default:
		var sb strings.Builder
		for _, p := range sum.Points {
			sb.WriteString("💡  ")
			sb.WriteString(p)
			sb.WriteString("\n\n")
		}
		g.content.SetText(sb.String())
	}
}

func (g *gui) move(f func() error) {
	if err := f(); err != nil {
		dialog.ShowError(err, g.win)
		return
	}
	g.refresh()
}

func (g *gui) newBook() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, g.win)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()

		dialog.ShowEntryDialog("Skip Intro", "Start page:", func(s string) {
			start, _ := strconv.Atoi(strings.TrimSpace(s))
			if start < 0 {
				start = 0
			}
			if err := g.sess.LoadBook(path, start); err != nil {
				dialog.ShowError(err, g.win)
				return
			}
			g.refresh()
		}, g.win)
	}, g.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf", ".epub"}))
	fd.Show()
}

func (g *gui) openLibrary() {
	entries := g.store.Books()
	if len(entries) == 0 {
		dialog.ShowInformation("Library", "Library is empty. Use NEW to add a book.", g.win)
		return
	}

	box := container.NewVBox()
	var d dialog.Dialog
	for _, e := range entries {
		label := fmt.Sprintf("%s (%d%%)", e.Book.Title, int(e.Book.Percent()))
		box.Add(widget.NewButton(label, func() {
			if err := g.sess.Resume(e.Path); err != nil {
				dialog.ShowError(err, g.win)
				return
			}
			d.Hide()
			g.refresh()
		}))
	}

	scroll := container.NewVScroll(box)
	scroll.SetMinSize(fyne.NewSize(420, 420))
	d = dialog.NewCustom("Library", "Close", scroll, g.win)
	d.Show()
}

func (g *gui) resetAll() {
	dialog.ShowConfirm("Factory Reset",
		"This will PERMANENTLY delete all your books and progress. Start from scratch?",
		func(ok bool) {
			if !ok {
				return
			}
			if err := g.sess.Reset(); err != nil {
				dialog.ShowError(err, g.win)
				return
			}
			g.refresh()
		}, g.win)
}
