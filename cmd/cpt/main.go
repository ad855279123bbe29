package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cpt/internal/bootstrap"
	progressdomain "cpt/internal/modules/progress/domain"
	"cpt/internal/platform/config"
	"cpt/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is filled by the root command before any subcommand runs.
type env struct {
	home       string
	configPath string
	verbose    bool
	offline    bool
	endpoint   string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "cpt",
		Short:         "Chess puzzle trainer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd.Name() == "tui")
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&e.home, "home", defaultHome(), "data directory (cache, progress, session notes)")
	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default <home>/config.yaml)")
	root.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&e.offline, "offline", false, "never fetch; use cached and imported sets only")
	root.PersistentFlags().StringVar(&e.endpoint, "endpoint", "", "puzzle endpoint URL (overrides config)")

	root.AddCommand(newTUICmd(e))
	root.AddCommand(newFetchCmd(e))
	root.AddCommand(newImportCmd(e))
	root.AddCommand(newPuzzlesCmd(e))
	root.AddCommand(newSolveCmd(e))
	root.AddCommand(newFavoritesCmd(e))
	root.AddCommand(newSolvedCmd(e))
	root.AddCommand(newAttemptsCmd(e))
	return root
}

func defaultHome() string {
	if home := os.Getenv("CPT_HOME"); home != "" {
		return home
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".cpt"
	}
	return filepath.Join(dir, ".cpt")
}

func (e *env) load(tui bool) error {
	cfg, err := config.New(e.home, e.configPath)
	if err != nil {
		return err
	}
	if e.verbose {
		cfg.Logging.Level = "debug"
	}
	if e.offline {
		cfg.Source.Offline = true
	}
	if e.endpoint != "" {
		cfg.Source.Endpoint = e.endpoint
	}
	logger, err := logging.New(cfg.Logging, tui)
	if err != nil {
		return err
	}
	e.cfg, e.logger = cfg, logger
	return nil
}

func (e *env) app(console io.Writer) (*bootstrap.App, error) {
	return bootstrap.New(e.cfg, e.logger, console)
}

func newTUICmd(e *env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Train interactively in the terminal",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := e.app(nil)
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app, category)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "puzzle category to open (default from config)")
	return cmd
}

func newFetchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <category>...",
		Short: "Fetch and cache puzzle sets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			sets, err := app.PuzzleCLI.Prefetch(context.Background(), args)
			if err != nil {
				return err
			}
			for _, s := range sets {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d puzzles\t%s\n", s.Category, s.Count, s.FetchedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
			return nil
		},
	}
}

func newImportCmd(e *env) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "import <csv> --category <name>",
		Short: "Import a Lichess puzzle CSV as a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(category) == "" {
				return fmt.Errorf("--category is required")
			}
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			out, err := app.PuzzleCLI.ImportCSV(context.Background(), args[0], category)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported %d puzzles into %s\n", out.Count, out.Category)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category name")
	return cmd
}

func newPuzzlesCmd(e *env) *cobra.Command {
	puzzles := &cobra.Command{Use: "puzzles", Short: "Browse cached puzzle sets"}

	var refresh bool
	list := &cobra.Command{
		Use:   "list [category]",
		Short: "List cached categories, or the puzzles of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if len(args) == 0 {
				cats, err := app.PuzzleCLI.ListCategories(ctx)
				if err != nil {
					return err
				}
				if len(cats) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no cached sets")
					return nil
				}
				for _, c := range cats {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", c.Category, c.Count, c.FetchedAt.Format("2006-01-02"))
				}
				return nil
			}
			set, err := app.PuzzleCLI.LoadSet(ctx, args[0], refresh)
			if err != nil {
				return err
			}
			solved, err := app.ProgressCLI.ListSolved(ctx)
			if err != nil {
				return err
			}
			done := make(map[string]struct{}, len(solved))
			for _, key := range solved {
				done[key] = struct{}{}
			}
			for _, entry := range set.Entries {
				mark := " "
				if _, ok := done[entry.Key]; ok {
					mark = "✓"
				}
				fen, _, _ := strings.Cut(entry.Key, ",")
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %3d  %s\t%s\n", mark, entry.Index+1, players(entry.White, entry.Black), fen)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&refresh, "refresh", false, "fetch the category again before listing")

	var after int
	next := &cobra.Command{
		Use:   "next <category>",
		Short: "Show the next unsolved puzzle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			ctx := context.Background()
			solved, err := app.ProgressCLI.ListSolved(ctx)
			if err != nil {
				return err
			}
			out, err := app.PuzzleCLI.NextUnsolved(ctx, args[0], after-1, solved)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", out.Index+1, out.Key)
			return nil
		},
	}
	next.Flags().IntVar(&after, "after", 0, "1-based puzzle number to search after")

	puzzles.AddCommand(list, next)
	return puzzles
}

func players(white, black string) string {
	if white == "" && black == "" {
		return "-"
	}
	return white + " - " + black
}

func newSolveCmd(e *env) *cobra.Command {
	var start int
	var moves []string
	cmd := &cobra.Command{
		Use:   "solve <category> --moves <uci,...>",
		Short: "Play moves against a puzzle without the board UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			var tokens []string
			for _, m := range moves {
				tokens = append(tokens, strings.Fields(m)...)
			}
			snap, outcomes, end, err := app.TrainingCLI.Solve(context.Background(), args[0], start, tokens)
			w := cmd.OutOrStdout()
			if snap.Key != "" {
				_, _ = fmt.Fprintf(w, "puzzle %d of %d, you play %s\n", snap.Index+1, snap.Total, snap.Orientation)
			}
			for _, o := range outcomes {
				line := o.Verdict + " " + o.Move
				if o.Reply != "" {
					line += " reply " + o.Reply
				}
				_, _ = fmt.Fprintln(w, line)
			}
			if end.NotePath != "" {
				_, _ = fmt.Fprintf(w, "session %s: %d solved, note %s\n", end.SessionID, end.Stats.Solved, end.NotePath)
			}
			return err
		},
	}
	cmd.Flags().IntVar(&start, "start", 0, "1-based puzzle number (default: resume)")
	cmd.Flags().StringSliceVar(&moves, "moves", nil, "moves in from-to notation, e.g. e2e4,e7e8q")
	return cmd
}

func newFavoritesCmd(e *env) *cobra.Command {
	favorites := &cobra.Command{Use: "favorites", Short: "Favorite puzzles"}
	favorites.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite puzzles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			keys, err := app.ProgressCLI.ListFavorites(context.Background())
			if err != nil {
				return err
			}
			printKeys(cmd.OutOrStdout(), keys, "no favorites")
			return nil
		},
	})
	favorites.AddCommand(&cobra.Command{
		Use:   "toggle <puzzle>",
		Short: "Add or remove a puzzle string from favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.ToggleFavorite(context.Background(), args[0])
			if err != nil {
				return err
			}
			state := "removed"
			if out.Favorite {
				state = "added"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, out.Key)
			return nil
		},
	})
	return favorites
}

func newSolvedCmd(e *env) *cobra.Command {
	solved := &cobra.Command{Use: "solved", Short: "Solved puzzles"}
	solved.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List solved puzzles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			keys, err := app.ProgressCLI.ListSolved(context.Background())
			if err != nil {
				return err
			}
			printKeys(cmd.OutOrStdout(), keys, "nothing solved yet")
			return nil
		},
	})

	var key string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Forget solved puzzles (or another progress key)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			if err := app.ProgressCLI.Reset(context.Background(), key); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", key)
			return nil
		},
	}
	reset.Flags().StringVar(&key, "key", progressdomain.KeySolved, "progress key: "+strings.Join(progressdomain.Keys, "|"))
	solved.AddCommand(reset)
	return solved
}

func newAttemptsCmd(e *env) *cobra.Command {
	attempts := &cobra.Command{Use: "attempts", Short: "Wrong moves per position"}
	var fen string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded wrong moves",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := e.app(io.Discard)
			if err != nil {
				return err
			}
			out, err := app.ProgressCLI.ListAttempts(context.Background(), fen)
			if err != nil {
				return err
			}
			if len(out) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no attempts")
				return nil
			}
			for _, a := range out {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", a.FEN, strings.Join(a.Moves, " "))
			}
			return nil
		},
	}
	list.Flags().StringVar(&fen, "fen", "", "only this starting position")
	attempts.AddCommand(list)
	return attempts
}

func printKeys(w io.Writer, keys []string, empty string) {
	if len(keys) == 0 {
		_, _ = fmt.Fprintln(w, empty)
		return
	}
	for _, k := range keys {
		_, _ = fmt.Fprintln(w, k)
	}
}
