package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nhle/sap-board/internal/app"
	"github.com/nhle/sap-board/internal/board"
	"github.com/nhle/sap-board/internal/logging"
	"github.com/nhle/sap-board/internal/model"
	"github.com/nhle/sap-board/internal/store"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const usage = `Usage: sapboard [flags] [command]

Commands:
  tui               open the board (default)
  list              print visible announcements
  add TEXT...       add an announcement
  delete POSITION   delete the announcement at POSITION (0 is newest)
  scopes            list saved scopes (sqlite backend)
  init-config       write the effective configuration to --config

Flags:
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "sapboard:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("sapboard", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	configPath := flags.String("config", model.DefaultConfigPath(), "config file")
	envFile := flags.String("env-file", ".env", "dotenv file with SAPBOARD_* overrides")
	flags.String("db", "", "board storage file")
	flags.String("backend", "", "storage backend: sqlite or settings")
	flags.String("scope", "", "settings scope to save under")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.StringP("window", "w", "", "date window: all, today, 7 or 30")
	asJSON := flags.Bool("json", false, "list: print JSON")
	showVersion := flags.Bool("version", false, "print version and exit")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Fprintln(stdout, "sapboard", version)
		return nil
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", *envFile, err)
	}

	cfg, err := model.LoadConfig(*configPath, flags)
	if err != nil {
		return err
	}

	command, rest := "tui", flags.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	if command == "init-config" {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "wrote", *configPath)
		return nil
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	window, err := model.ParseWindow(cfg.Display.DefaultWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Storage, logger.Logger)
	if err != nil {
		return err
	}

	session := board.NewSession(st,
		board.WithLogger(logger.Logger),
		board.WithWindow(window),
	)

	ctx := context.Background()
	if err := session.Open(ctx); err != nil {
		_ = session.Release()
		return err
	}

	switch command {
	case "add", "delete", "rm":
		warnUnrestored(os.Stderr, session)
	}

	switch command {
	case "tui":
		return runTUI(ctx, session, cfg.Display.Title)
	case "list", "ls":
		defer session.Release()
		return printList(stdout, session, *asJSON)
	case "scopes":
		defer session.Release()
		return printScopes(ctx, stdout, st)
	case "add":
		text := strings.Join(rest, " ")
		if _, err := session.OnCreate(text); err != nil {
			_ = session.Release()
			return err
		}
		return session.Close(ctx)
	case "delete", "rm":
		if len(rest) != 1 {
			_ = session.Release()
			return fmt.Errorf("delete needs exactly one position")
		}
		position, err := strconv.Atoi(rest[0])
		if err != nil {
			_ = session.Release()
			return fmt.Errorf("invalid position %q: %w", rest[0], err)
		}
		if err := session.OnDelete(position); err != nil {
			_ = session.Release()
			return err
		}
		return session.Close(ctx)
	default:
		_ = session.Release()
		flags.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// runTUI runs the board until the user quits, then saves it once.
func runTUI(ctx context.Context, session *board.Session, title string) error {
	p := tea.NewProgram(app.New(session, title), tea.WithAltScreen())
	_, runErr := p.Run()
	return errors.Join(runErr, session.Close(ctx))
}

// warnUnrestored tells the user that entries skipped on load are about to
// be dropped by the save that follows a change.
func warnUnrestored(w io.Writer, session *board.Session) {
	for _, sk := range session.LoadReport().Skipped {
		fmt.Fprintf(w, "sapboard: dropping stored entry %d on save: %v\n", sk.Position, sk.Err)
	}
}

type listEntry struct {
	Position int        `json:"position"`
	Text     string     `json:"text"`
	Date     model.Date `json:"created_date"`
}

func printList(w io.Writer, session *board.Session, asJSON bool) error {
	rows := session.Rows()
	entries := make([]listEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, listEntry{
			Position: r.Position,
			Text:     r.Announcement.Text,
			Date:     r.Announcement.CreatedDate,
		})
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%3d  %s  %s\n", e.Position, e.Date, e.Text); err != nil {
			return err
		}
	}
	return nil
}

func printScopes(ctx context.Context, w io.Writer, st store.Store) error {
	lister, ok := st.(interface {
		Scopes(ctx context.Context) ([]string, error)
	})
	if !ok {
		return fmt.Errorf("scopes are only tracked by the sqlite backend")
	}
	names, err := lister.Scopes(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(w, n)
	}
	return nil
}
