package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/metcalfc/digest/internal/client"
	"github.com/metcalfc/digest/internal/config"
	"github.com/metcalfc/digest/internal/reader"
	"github.com/metcalfc/digest/internal/state"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// env holds everything a front-end needs once configuration is resolved.
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *state.StateStore
	src     reader.Source
	changes <-chan struct{}
	fresh   bool

	stop context.CancelFunc
}

// newRootCommand builds the command line shared by the terminal and the
// graphical reader. run is called with a prepared env.
func newRootCommand(name, short string, run func(ctx context.Context, e *env) error) *cobra.Command {
	v := config.NewViper()
	var fresh, showVersion bool

	cmd := &cobra.Command{
		Use:   name + " [flags]",
		Short: short,
		Example: fmt.Sprintf(`
%[1]s --server https://reader.example.com
%[1]s --library ~/Books/digests
%[1]s --library ~/Books/digests --fresh
`, name),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			if showVersion {
				fmt.Printf("%s %s (commit: %s, built: %s)\n", name, version, commit, date)
				return nil
			}
			ctx, stop := context.WithCancel(cmd.Context())
			e, err := prepare(ctx, v, fresh)
			if err != nil {
				stop()
				return err
			}
			e.stop = stop
			defer func() {
				err = multierr.Append(err, e.close())
			}()
			return run(ctx, e)
		},
	}

	flags := cmd.Flags()
	flags.String("server", "", "Base URL of the digest server")
	flags.String("library", "", "Directory of EPUB books to read instead of a server")
	flags.Int("expand-level", 1, "Initial catalog expansion: 0 dates, 1 books, 2 articles")
	flags.Duration("timeout", client.DefaultTimeout, "Timeout of server and library requests")
	flags.String("log-level", "none", "File log level: none, normal or debug")
	flags.BoolVar(&fresh, "fresh", false, "Ignore the saved reading position")
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")

	bind(v, cmd, map[string]string{
		config.KeyServer:      "server",
		config.KeyLibrary:     "library",
		config.KeyExpandLevel: "expand-level",
		config.KeyTimeout:     "timeout",
		config.KeyLogLevel:    "log-level",
	})
	return cmd
}

func bind(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("unable to bind flag %q: %v", flag, err))
		}
	}
}

// prepare loads the configuration and opens the catalog source.
func prepare(ctx context.Context, v *viper.Viper, fresh bool) (*env, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	log, err := cfg.Logging.Prepare()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare logs: %w", err)
	}
	log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", version),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", commit))
	if f := v.ConfigFileUsed(); f != "" {
		log.Info("Using configuration file", zap.String("location", f))
	}

	e := &env{cfg: cfg, log: log, fresh: fresh}
	if e.store, err = state.NewStateStore(); err != nil {
		log.Warn("Reading position will not be saved", zap.Error(err))
	}

	if cfg.Server != "" {
		c, err := client.New(cfg.Server,
			client.WithTimeout(cfg.Timeout),
			client.WithCacheDir(cfg.CacheDir),
			client.WithLogger(log))
		if err != nil {
			return nil, fmt.Errorf("unable to use server: %w", err)
		}
		e.src = c
		return e, nil
	}

	e.src = reader.NewLibrary(cfg.Library, reader.WithLibraryLogger(log))
	w, err := reader.Watch(ctx, cfg.Library, reader.DefaultDebounce, log)
	if err != nil {
		log.Warn("Library changes will not be picked up", zap.String("dir", cfg.Library), zap.Error(err))
	} else {
		e.changes = w.Changed()
	}
	return e, nil
}

func (e *env) close() (err error) {
	if e.stop != nil {
		e.stop()
	}
	e.log.Debug("Program ended")
	if er := e.log.Sync(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to flush logs: %w", er))
	}
	return err
}
