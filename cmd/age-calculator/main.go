package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-age-calculator/internal/config"
	"github.com/tartampluch/go-age-calculator/internal/engine"
	"github.com/tartampluch/go-age-calculator/internal/locale"
	"github.com/tartampluch/go-age-calculator/internal/server"
	"github.com/tartampluch/go-age-calculator/internal/ui"
	"golang.org/x/sync/errgroup"
)

// options holds the parsed command line.
type options struct {
	mode      string
	addr      string
	algorithm engine.Algorithm
	lang      string
}

// main delegates to runMain so deferred calls (closing the log file) run
// before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain parses flags, sets up logging and signals, then runs the selected surface.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	mode := flag.String(config.FlagMode, config.DefaultMode, config.FlagDescMode)
	addr := flag.String(config.FlagAddr, config.DefaultAddr, config.FlagDescAddr)
	algo := flag.String(config.FlagAlgorithm, config.DefaultAlgorithm, config.FlagDescAlgorithm)
	lang := flag.String(config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	algorithm, err := engine.ParseAlgorithm(*algo)
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	opts := options{
		mode:      *mode,
		addr:      *addr,
		algorithm: algorithm,
		lang:      *lang,
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(opts)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the calculator and translations, then starts the surfaces of opts.mode.
func run(ctx context.Context, opts options) error {
	calc := engine.NewCalculator(engine.RealClock{}, opts.algorithm)
	tr := locale.New()

	switch opts.mode {
	case config.ModeDesktop:
		runDesktop(ctx, calc, tr, opts.lang)
		return nil

	case config.ModeWeb:
		return newServer(opts, calc, tr).Start(ctx)

	case config.ModeBoth:
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return newServer(opts, calc, tr).Start(gctx)
		})

		// Fyne must own the main goroutine; closing the window stops the server.
		runDesktop(gctx, calc, tr, opts.lang)
		cancel()

		return g.Wait()

	default:
		return fmt.Errorf("%s: %q", config.ErrUnknownMode, opts.mode)
	}
}

func newServer(opts options, calc *engine.Calculator, tr *locale.Translator) *server.AgeServer {
	srv := server.NewAgeServer(opts.addr, calc, tr, server.NewMetrics())
	srv.DefaultLang = opts.lang
	return srv
}

// runDesktop blocks until the window is closed or ctx is cancelled.
func runDesktop(ctx context.Context, calc *engine.Calculator, tr *locale.Translator, lang string) {
	a := app.NewWithID(config.AppID)
	ui.NewAgeApp(a, ctx, calc, tr.Localizer(lang)).Run()
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(opts options) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
		config.LogKeyMode, opts.mode,
		config.LogKeyAlgorithm, string(opts.algorithm),
		config.LogKeyLang, opts.lang,
	)
}

// setupLogging installs a JSON slog logger writing to stdout and, when
// possible, to a log file in the user cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stdout}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath returns the log file path, creating its directory (0700).
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
