package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	progressinadapter "cpt/internal/modules/progress/adapter/in"
	progressoutadapter "cpt/internal/modules/progress/adapter/out"
	progressdto "cpt/internal/modules/progress/dto"
	progressout "cpt/internal/modules/progress/port/out"
	progressservice "cpt/internal/modules/progress/service"
	progressusecase "cpt/internal/modules/progress/usecase"
	puzzleinadapter "cpt/internal/modules/puzzle/adapter/in"
	puzzleoutadapter "cpt/internal/modules/puzzle/adapter/out"
	puzzledomain "cpt/internal/modules/puzzle/domain"
	puzzleout "cpt/internal/modules/puzzle/port/out"
	puzzleservice "cpt/internal/modules/puzzle/service"
	puzzleusecase "cpt/internal/modules/puzzle/usecase"
	traininginadapter "cpt/internal/modules/training/adapter/in"
	trainingoutadapter "cpt/internal/modules/training/adapter/out"
	trainingdomain "cpt/internal/modules/training/domain"
	trainingout "cpt/internal/modules/training/port/out"
	trainingservice "cpt/internal/modules/training/service"
	trainingusecase "cpt/internal/modules/training/usecase"
	"cpt/internal/platform/clock"
	"cpt/internal/platform/config"
	apperrors "cpt/internal/platform/errors"
	"cpt/internal/platform/id"
	uiapp "cpt/internal/ui/app"
)

type App struct {
	PuzzleCLI   puzzleinadapter.CLIHandler
	ProgressCLI progressinadapter.CLIHandler
	TrainingCLI traininginadapter.CLIHandler
	TrainingTUI traininginadapter.TUIHandler

	cfg    config.Config
	logger *zap.Logger
	board  *trainingoutadapter.TeaBoard
}

// New wires every module for cfg. With a console writer the training board
// narrates to it without pacing delays; otherwise the interactive terminal
// board is used and RunTUI must drive it.
func New(cfg config.Config, logger *zap.Logger, console io.Writer) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := clock.SystemClock{}

	var source puzzleout.SetSource
	if !cfg.Source.Offline {
		source = puzzleoutadapter.NewHTTPSetSource(cfg.Source.Endpoint, cfg.Source.Timeout, logger)
	}
	cache, err := puzzleoutadapter.NewSQLiteSetCache(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new puzzle cache: %w", err)
	}
	puzzleUC := puzzleusecase.NewInteractor(puzzleservice.NewSetService(
		clk, source, cache, puzzleoutadapter.NewCSVSetReader(), logger,
	))

	kv, err := newKVStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("new progress store: %w", err)
	}
	progressUC := progressusecase.NewInteractor(progressservice.NewProgressService(kv, logger))

	teaBoard := trainingoutadapter.NewTeaBoard()
	var board trainingout.Board = teaBoard
	pacing := trainingdomain.Pacing{
		SeedDelay:   cfg.Pacing.SeedDelay,
		ReplyDelay:  cfg.Pacing.ReplyDelay,
		RevertDelay: cfg.Pacing.RevertDelay,
	}
	if console != nil {
		board = trainingoutadapter.NewConsoleBoard(console, puzzledomain.Queen)
		pacing = trainingdomain.Pacing{}
	}
	trainingUC := trainingusecase.NewInteractor(trainingservice.NewController(trainingservice.ControllerDeps{
		Clock:    clk,
		IDs:      id.UUID{},
		Catalog:  trainingoutadapter.NewPuzzleCatalogAdapter(puzzleUC),
		Progress: trainingoutadapter.NewProgressRecorderAdapter(progressUC),
		Rules:    trainingoutadapter.NewChessRulesFactory(),
		Board:    board,
		Notes:    trainingoutadapter.NewMarkdownSessionLog(cfg.Home),
		Pacing:   pacing,
		Logger:   logger,
	}))

	return &App{
		PuzzleCLI:   puzzleinadapter.NewCLIHandler(puzzleUC),
		ProgressCLI: progressinadapter.NewCLIHandler(progressUC),
		TrainingCLI: traininginadapter.NewCLIHandler(trainingUC),
		TrainingTUI: traininginadapter.NewTUIHandler(trainingUC),
		cfg:         cfg,
		logger:      logger,
		board:       teaBoard,
	}, nil
}

func newKVStore(cfg config.Config, logger *zap.Logger) (progressout.KVStore, error) {
	if cfg.Storage.Backend == config.BackendFile {
		return progressoutadapter.NewFileKVStore(filepath.Join(cfg.Home, "progress.json"), logger), nil
	}
	return progressoutadapter.NewSQLiteKVStore(cfg.DBPath)
}

// RunTUI blocks until the terminal UI exits, then ends any open session so
// its note is written.
func RunTUI(app *App, category string) error {
	if category == "" {
		category = app.cfg.Source.Category
	}
	browser := puzzleBrowser{CLIHandler: app.PuzzleCLI, progress: app.ProgressCLI}
	model := uiapp.NewModel(category, app.TrainingTUI, browser, app.cfg.Pacing.Animation)
	program := tea.NewProgram(model, tea.WithAltScreen())
	app.board.Attach(program)

	_, err := program.Run()
	out, endErr := app.TrainingTUI.End(context.Background())
	switch {
	case errors.Is(endErr, apperrors.ErrNoActiveSession):
	case endErr != nil:
		app.logger.Warn("end session on exit", zap.Error(endErr))
	default:
		app.logger.Info("session note written", zap.String("path", out.NotePath))
	}
	return err
}

// puzzleBrowser serves the puzzles view: set listings from the puzzle
// module and solved/favorite marks from the progress module.
type puzzleBrowser struct {
	puzzleinadapter.CLIHandler
	progress progressinadapter.CLIHandler
}

func (b puzzleBrowser) Status(ctx context.Context, key string) (progressdto.StatusOutput, error) {
	return b.progress.Status(ctx, key)
}
