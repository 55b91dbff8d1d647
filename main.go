//go:build !gui

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
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

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BB86FC"))

	percentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#03DAC6"))

	contentStyle = lipgloss.NewStyle().
			Padding(1, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CF6679"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)
)

type summaryMsg struct {
	window  document.Window
	summary *summarizer.Summary
	err     error
}

type model struct {
	sess *session.Session

	spin     spinner.Model
	prog     progress.Model
	content  string
	status   string
	width    int
	height   int
	quitting bool
}

func newModel(sess *session.Session) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = percentStyle
	return model{
		sess:   sess,
		spin:   sp,
		prog:   progress.New(progress.WithDefaultGradient()),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd {
	if _, _, ok := m.sess.ActiveBook(); !ok {
		return nil
	}
	return tea.Batch(m.spin.Tick, refreshCmd(m.sess))
}

func refreshCmd(sess *session.Session) tea.Cmd {
	return func() tea.Msg {
		w, sum, err := sess.Refresh(context.Background())
		return summaryMsg{window: w, summary: sum, err: err}
	}
}

func (m model) summarizing() bool {
	return m.sess.Phase() == session.Summarizing
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "n", "right":
			if err := m.sess.Advance(); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.status = ""
			return m, tea.Batch(m.spin.Tick, refreshCmd(m.sess))

		case "p", "left":
			if err := m.sess.Retreat(); err != nil {
				m.status = err.Error()
				return m, nil
			}
			m.status = ""
			return m, tea.Batch(m.spin.Tick, refreshCmd(m.sess))

		case "r":
			if m.summarizing() {
				m.status = session.ErrBusy.Error()
				return m, nil
			}
			m.status = ""
			return m, tea.Batch(m.spin.Tick, refreshCmd(m.sess))

		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prog.Width = msg.Width / 3
		return m, nil

	case summaryMsg:
		m.content = renderSummary(msg.window, msg.summary, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.summarizing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func renderSummary(w document.Window, sum *summarizer.Summary, err error) string {
	switch {
	case errors.Is(err, document.ErrNoText):
		return "No readable text in this window. The file may be a scanned document; try another file."
	case err != nil:
		return errStyle.Render("Summary failed: " + err.Error())
	case sum == nil:
		return "You have reached the end of this book."
	default:
		return sum.Render()
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	_, book, ok := m.sess.ActiveBook()
	if !ok {
		return contentStyle.Render("No active book. Use `chaptermate new-book <path>` to add one.\nPress Q to quit.")
	}

	pct := m.sess.Percent()
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render(book.Title),
		statusStyle.Render(fmt.Sprintf("page %d/%d", book.Page, book.Total)),
		percentStyle.Render(fmt.Sprintf(" %d%% ", int(pct))),
		m.prog.ViewAs(pct/100),
	)

	body := m.content
	if m.summarizing() {
		body = m.spin.View() + " Summarizing..."
	}

	controls := controlsStyle.Render("N/→: next window  P/←: previous  R: reload  Q: quit")

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(contentStyle.Width(m.width).Render(body))
	sb.WriteString("\n")
	if m.status != "" {
		sb.WriteString(statusStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(controls)
	return sb.String()
}

func usage() {
	fmt.Fprintf(os.Stderr, "ChapterMate - Reading Progress Tracker\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  chaptermate [options] <command> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  new-book <path>   Register a book and make it active\n")
	fmt.Fprintf(os.Stderr, "  next              Advance one window and summarize it\n")
	fmt.Fprintf(os.Stderr, "  prev              Go back one window and summarize it\n")
	fmt.Fprintf(os.Stderr, "  summary           Summarize the current window without moving\n")
	fmt.Fprintf(os.Stderr, "  library           List known books with progress\n")
	fmt.Fprintf(os.Stderr, "  resume <path>     Make a known book active\n")
	fmt.Fprintf(os.Stderr, "  reset             Delete all books and progress\n")
	fmt.Fprintf(os.Stderr, "  read              Interactive reading session (default)\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  chaptermate new-book book.pdf -start-page 12\n")
	fmt.Fprintf(os.Stderr, "  chaptermate next\n")
	fmt.Fprintf(os.Stderr, "  chaptermate read\n")
}

func main() {
	configPath := flag.String("config", "", "Config file (default: $XDG_CONFIG_HOME/chaptermate/config.yaml)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = usage
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("chaptermate %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(*configPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, args []string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	store, err := library.Open()
	if err != nil {
		return err
	}
	summ, err := summarizer.New(cfg)
	if err != nil {
		return err
	}
	sess := session.New(store, summ, cfg.WindowSize, cfg.Summarizer.Timeout())

	cmd := "read"
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "new-book":
		return cmdNewBook(sess, args)
	case "next":
		return cmdMove(sess, args, sess.Advance)
	case "prev":
		return cmdMove(sess, args, sess.Retreat)
	case "summary":
		return printCurrentWindow(sess)
	case "library":
		return cmdLibrary(store)
	case "resume":
		return cmdResume(sess, args)
	case "reset":
		return cmdReset(sess, args)
	case "read":
		return cmdRead(sess)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdNewBook(sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("new-book", flag.ExitOnError)
	startPage := fs.Int("start-page", 0, "Page to start reading from (skip front matter)")
	fs.Parse(reorderArgs(args))
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chaptermate new-book <path> [-start-page N]")
	}

	if err := sess.LoadBook(fs.Arg(0), *startPage); err != nil {
		return err
	}
	_, book, _ := sess.ActiveBook()
	fmt.Printf("Added %q (%d pages), starting at page %d.\n\n", book.Title, book.Total, book.Page)
	return printCurrentWindow(sess)
}

// reorderArgs moves flags ahead of positionals so both
// `new-book -start-page 5 book.pdf` and `new-book book.pdf -start-page 5`
// parse.
func reorderArgs(args []string) []string {
	var flags, rest []string
	for i := 0; i < len(args); i++ {
		if strings.HasPrefix(args[i], "-") {
			flags = append(flags, args[i])
			if i+1 < len(args) && !strings.Contains(args[i], "=") {
				flags = append(flags, args[i+1])
				i++
			}
			continue
		}
		rest = append(rest, args[i])
	}
	return append(flags, rest...)
}

func cmdMove(sess *session.Session, args []string, move func() error) error {
	if len(args) != 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	if err := move(); err != nil {
		return err
	}
	return printCurrentWindow(sess)
}

func printCurrentWindow(sess *session.Session) error {
	_, book, ok := sess.ActiveBook()
	if !ok {
		return session.ErrNoActiveBook
	}

	w, sum, err := sess.Refresh(context.Background())
	if err != nil && !errors.Is(err, document.ErrNoText) {
		return err
	}

	fmt.Printf("%s — page %d/%d (%d%%)\n\n", book.Title, book.Page, w.TotalPages, int(sess.Percent()))
	fmt.Println(renderSummary(w, sum, err))
	return nil
}

func cmdLibrary(store *library.Store) error {
	entries := store.Books()
	if len(entries) == 0 {
		fmt.Println("Library is empty. Use `chaptermate new-book <path>` to add a book.")
		return nil
	}

	activePath, _, _ := store.ActiveBook()
	for _, e := range entries {
		marker := " "
		if e.Path == activePath {
			marker = "*"
		}
		fmt.Printf("%s %-40s %3d%%  %s\n", marker, e.Book.Title, int(e.Book.Percent()), e.Path)
	}
	return nil
}

func cmdResume(sess *session.Session, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: chaptermate resume <path>")
	}
	if err := sess.Resume(args[0]); err != nil {
		return err
	}
	_, book, _ := sess.ActiveBook()
	fmt.Printf("Resumed %q at page %d/%d.\n", book.Title, book.Page, book.Total)
	return nil
}

func cmdReset(sess *session.Session, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if !*yes {
		fmt.Print("This permanently deletes all books and progress. Continue? [y/N] ")
		reply, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		reply = strings.ToLower(strings.TrimSpace(reply))
		if reply != "y" && reply != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := sess.Reset(); err != nil {
		return err
	}
	fmt.Println("All data cleared.")
	return nil
}

func cmdRead(sess *session.Session) error {
	p := tea.NewProgram(newModel(sess), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
