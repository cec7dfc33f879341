package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/config"
	"github.com/wippyai/parse-bridge/engine"
	"github.com/wippyai/parse-bridge/host"
	"github.com/wippyai/parse-bridge/nlp"
	"github.com/wippyai/parse-bridge/nlphost"
	"github.com/wippyai/parse-bridge/standoff"
	"github.com/wippyai/parse-bridge/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program reads
	// stdin, so the OSC 11 reply does not land in the input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	cfgFile  string
	textFile string
	cfg      config.Config
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "run",
	Short:         "Tokenize, parse and bracket text through a foreign NLP runtime",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return initConfig()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.parse-bridge.yaml, ~/.config/parse-bridge/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&textFile, "file", "f", "",
		"read text from file instead of arguments or stdin")

	rootCmd.AddCommand(
		tokenizeCmd(),
		parseCmd(),
		bracketCmd(),
		findCmd(),
		invokeCmd(),
		exploreCmd(),
		initCmd(),
	)
}

func initConfig() error {
	loaded, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	l, err := cfg.Logger()
	if err != nil {
		return err
	}
	logger = l
	bridge.SetLogger(l.Named("bridge"))
	host.SetLogger(l.Named("host"))
	engine.SetLogger(l.Named("engine"))

	if used != "" {
		logger.Debug("loaded config", zap.String("path", used))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session is the NLP stack shared by the text commands.
type session struct {
	bridge  *bridge.Bridge
	pre     *standoff.Preprocessor
	parser  *nlp.ParserProvider
	tracing *tracing.Provider
}

func openSession(ctx context.Context) (*session, error) {
	tp, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}

	rt, err := nlphost.NewRuntime()
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("runtime: %w", err)
	}
	b := bridge.New(rt,
		bridge.WithRegistry(nlp.NewRegistry()),
		bridge.WithTracer(tp.Tracer()),
		bridge.WithLogger(logger.Named("bridge")),
	)

	pre, err := standoff.NewPreprocessor(ctx, b, cfg.Tokenizer)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	parser := nlp.NewParserProvider(func(ctx context.Context) (*nlp.LexicalizedParser, error) {
		logger.Debug("loading grammar", zap.String("path", cfg.GrammarPath()))
		return nlp.NewLexicalizedParser(ctx, b, cfg.Grammar, cfg.Root, cfg.Options...)
	})

	return &session{bridge: b, pre: pre, parser: parser, tracing: tp}, nil
}

func (s *session) Close(ctx context.Context) {
	if err := s.tracing.Shutdown(ctx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
}

// readText takes text from --file, then arguments, then piped stdin.
func readText(args []string) (string, error) {
	if textFile != "" {
		data, err := os.ReadFile(textFile)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no text: pass it as arguments, with --file, or on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
