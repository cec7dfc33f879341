package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wippyai/parse-bridge/bridge"
	"github.com/wippyai/parse-bridge/config"
	"github.com/wippyai/parse-bridge/engine"
	"github.com/wippyai/parse-bridge/standoff"
)

func tokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Print standoff tokens, one per line, sentences separated by a blank line",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			sents, err := s.pre.Sentences(ctx, text)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, sent := range sents {
				if i > 0 {
					fmt.Fprintln(out)
				}
				for _, tok := range sent {
					fmt.Fprintf(out, "%d\t%d\t%s\t%q\t%q\n", tok.Begin, tok.End, tok.Word, tok.Current, tok.After)
				}
			}
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Parse each sentence and print its tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			parsed, err := standoff.Parse(ctx, text, s.pre, s.parser)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range parsed {
				if compact {
					fmt.Fprintln(out, t.Root().String())
				} else {
					fmt.Fprintln(out, t.String())
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print each tree on one line")
	return cmd
}

func bracketCmd() *cobra.Command {
	var (
		labels    []string
		coords    []string
		openMark  string
		closeMark string
	)
	cmd := &cobra.Command{
		Use:   "bracket [text...]",
		Short: "Reproduce the text with markers around selected constituents",
		Long: `Reproduce the original text of every sentence with open and close markers
around the selected constituents. Constituents are chosen by label (--label NP)
or by dotted coordinate from the root (--coord 0.0.1).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(args)
			if err != nil {
				return err
			}
			var fixed []standoff.Coordinate
			for _, c := range coords {
				coord, err := standoff.ParseCoordinate(c)
				if err != nil {
					return err
				}
				fixed = append(fixed, coord)
			}

			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			parsed, err := standoff.Parse(ctx, text, s.pre, s.parser)
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, t := range parsed {
				targets := append([]standoff.Coordinate(nil), fixed...)
				for _, l := range labels {
					targets = append(targets, t.Find(l)...)
				}
				got, err := t.Root().Bracketed(targets, openMark, closeMark)
				if err != nil {
					return err
				}
				b.WriteString(got)
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&labels, "label", "l", nil, "bracket every constituent with this label")
	cmd.Flags().StringSliceVar(&coords, "coord", nil, "bracket the constituent at this coordinate")
	cmd.Flags().StringVar(&openMark, "open", "[", "open marker")
	cmd.Flags().StringVar(&closeMark, "close", "]", "close marker")
	return cmd
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find WORD1 WORD2",
		Short: "Print the first sentence containing both words",
		Long: `Parse the text from --file or stdin and print the first sentence whose
leaves contain both words, with its tree.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close(ctx)

			t, ok, err := standoff.FirstSentenceWith(ctx, text, s.pre, s.parser, args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no sentence contains both %q and %q", args[0], args[1])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.TrimSpace(t.Root().OriginalString()))
			fmt.Fprintln(out, t.String())
			return nil
		},
	}
}

func invokeCmd() *cobra.Command {
	var (
		wasmFile string
		witFile  string
		class    string
	)
	cmd := &cobra.Command{
		Use:   "invoke MEMBER [ARGS...]",
		Short: "Call a member of a WebAssembly class through the bridge",
		Long: `Define a class from a core WebAssembly module and a WIT member list, create
one object and invoke MEMBER on it. Static members are reached through the
same object. Arguments are parsed according to the declared parameter types.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wasm, err := os.ReadFile(wasmFile)
			if err != nil {
				return fmt.Errorf("read wasm: %w", err)
			}
			witText, err := os.ReadFile(witFile)
			if err != nil {
				return fmt.Errorf("read wit: %w", err)
			}

			ctx := cmd.Context()
			eng := engine.New(ctx, &engine.Config{MemoryLimitPages: cfg.Engine.MemoryLimitPages})
			defer eng.Close(ctx)
			if err := eng.DefineClass(ctx, class, wasm, string(witText)); err != nil {
				return err
			}

			member := args[0]
			c, _ := eng.Class(class)
			params, ok := c.Params(member)
			if !ok {
				return fmt.Errorf("class %s has no member %q (members: %s)",
					class, member, strings.Join(c.Members(), ", "))
			}
			if len(params) != len(args)-1 {
				return fmt.Errorf("%s takes %d arguments, got %d", member, len(params), len(args)-1)
			}
			callArgs := make([]any, len(params))
			for i, p := range params {
				v, err := convertArg(args[i+1], p)
				if err != nil {
					return fmt.Errorf("argument %d: %w", i, err)
				}
				callArgs[i] = v
			}

			b := bridge.New(eng, bridge.WithLogger(logger.Named("bridge")))
			obj, err := b.New(ctx, class)
			if err != nil {
				return err
			}
			result, err := obj.Invoke(ctx, member, callArgs...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatResult(result))
			return nil
		},
	}
	cmd.Flags().StringVar(&wasmFile, "wasm", "", "core WebAssembly module")
	cmd.Flags().StringVar(&witFile, "wit", "", "WIT member declarations")
	cmd.Flags().StringVar(&class, "class", "wasm.Class", "class name to define")
	_ = cmd.MarkFlagRequired("wasm")
	_ = cmd.MarkFlagRequired("wit")
	return cmd
}

func formatResult(v any) string {
	switch r := v.(type) {
	case nil:
		return "()"
	case []any:
		parts := make([]string, len(r))
		for i, x := range r {
			parts[i] = fmt.Sprint(x)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprint(v)
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ".parse-bridge.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
}
