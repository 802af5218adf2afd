package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/funvibe/overload/internal/config"
	"github.com/funvibe/overload/internal/log"
	"github.com/funvibe/overload/internal/manifest"
	"github.com/funvibe/overload/internal/tracing"
	"github.com/funvibe/overload/pkg/overload"
)

const (
	flagManifest = "manifest"
	flagDebug    = "debug"
	flagLogFile  = "log-file"
	flagNoColor  = "no-color"
	flagTrace    = "trace"
)

// app holds one command tree and its settings. Tests build a fresh app per
// case so flags and environment never leak between runs.
type app struct {
	root     *cobra.Command
	v        *viper.Viper
	closeLog func()
}

func newApp() *app {
	a := &app{v: viper.New()}
	a.root = &cobra.Command{
		Use:   "overload",
		Short: "Inspect and call runtime-typed dispatchers",
		Long: `Build the functions declared in an overload.yaml manifest and inspect them.

Without --manifest the nearest overload.yaml in the current directory or
one of its parents is used. Every flag can also be set through the
environment with the OVERLOAD_ prefix, e.g. OVERLOAD_DEBUG=1.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	flags := a.root.PersistentFlags()
	flags.StringP(flagManifest, "m", "", "manifest file (default: nearest overload.yaml)")
	flags.Bool(flagDebug, false, "log debug output to stderr")
	flags.String(flagLogFile, "", "append log output to this file")
	flags.Bool(flagNoColor, false, "disable colored output")
	flags.Bool(flagTrace, false, "export build spans using the manifest's tracing settings")

	a.v.SetEnvPrefix(config.EnvPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	_ = a.v.BindPFlags(flags)
	if _, ok := os.LookupEnv(config.EnvNoColor); ok {
		a.v.SetDefault(flagNoColor, true)
	}

	a.root.AddCommand(
		a.checkCmd(),
		a.signaturesCmd(),
		a.callCmd(),
		a.convertCmd(),
		a.typesCmd(),
	)
	return a
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch {
	case a.v.GetString(flagLogFile) != "":
		closeLog, err := log.Init(a.v.GetString(flagLogFile))
		if err != nil {
			return err
		}
		a.closeLog = closeLog
	case a.v.GetBool(flagDebug):
		log.InitWriter(cmd.ErrOrStderr(), log.LevelDebug)
	}
	log.Debug(log.CatCLI, "starting", "command", cmd.Name())
	return nil
}

func (a *app) teardown(*cobra.Command, []string) error {
	if a.closeLog != nil {
		a.closeLog()
		a.closeLog = nil
	}
	log.Reset()
	return nil
}

// session is a manifest applied to a fresh instance.
type session struct {
	path     string
	typed    *overload.Typed
	lib      *manifest.Library
	provider *tracing.Provider
}

// errNoManifest is returned when a command needs a manifest and none was found.
var errNoManifest = errors.New("no " + config.ManifestFileName + " found (use --manifest)")

// load resolves the manifest and builds every function in it. Without a
// manifest, required commands fail and the others get a default instance.
func (a *app) load(required bool) (*session, error) {
	path := a.v.GetString(flagManifest)
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
		if path, err = manifest.FindManifest(wd); err != nil {
			return nil, err
		}
	}
	if path == "" {
		if required {
			return nil, errNoManifest
		}
		return &session{typed: overload.New(), provider: tracing.Noop()}, nil
	}

	m, err := manifest.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	provider := tracing.Noop()
	if a.v.GetBool(flagTrace) {
		cfg := m.Tracing
		cfg.Enabled = true
		if provider, err = tracing.NewProvider(cfg); err != nil {
			return nil, err
		}
	}

	s := &session{
		path:     path,
		typed:    overload.New(overload.WithTracer(provider.Tracer())),
		provider: provider,
	}
	if s.lib, err = m.Apply(s.typed); err != nil {
		_ = s.close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info(log.CatCLI, "loaded manifest", "path", path, "functions", len(s.lib.Names()))
	return s, nil
}

// close flushes exported spans.
func (s *session) close() error {
	return s.provider.Shutdown(context.Background())
}

// function looks up a manifest function by name.
func (s *session) function(name string) (*overload.Dispatcher, error) {
	if s.lib != nil {
		if d, ok := s.lib.Get(name); ok {
			return d, nil
		}
	}
	var names []string
	if s.lib != nil {
		names = s.lib.Names()
	}
	return nil, fmt.Errorf("unknown function %q (available: %s)", name, strings.Join(names, ", "))
}

// colorEnabled reports whether output to w may be colored.
func colorEnabled(w io.Writer, disabled bool) bool {
	if disabled {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

func printError(w io.Writer, err error, color bool) {
	if color {
		fmt.Fprintf(w, "%serror:%s %v\n", ansiRed, ansiReset, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
