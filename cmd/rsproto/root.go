package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/rsproto"
)

// app carries the state shared by the commands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	stdout  io.Writer
	logger  *log.Logger
}

// config is the resolved configuration of generate and watch. Values come
// from flags, RSPROTO_* environment variables and rsproto.yaml, in that
// order of precedence.
type config struct {
	Kernel       string        `mapstructure:"kernel"`
	CrateMapping string        `mapstructure:"crate-mapping"`
	Strip        bool          `mapstructure:"strip-nonfunctional-codegen"`
	Out          string        `mapstructure:"out"`
	Files        []string      `mapstructure:"file"`
	Workers      int           `mapstructure:"workers"`
	Debounce     time.Duration `mapstructure:"debounce"`
	Verbose      bool          `mapstructure:"verbose"`
}

// newRootCmd returns the root command and the logger its commands share.
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *log.Logger) {
	a := &app{
		v:      viper.New(),
		stdout: stdout,
		logger: log.NewWithOptions(stderr, log.Options{Prefix: "rsproto"}),
	}
	root := &cobra.Command{
		Use:   "rsproto",
		Short: "Generate Rust protobuf bindings from descriptor sets",
		Long: `rsproto generates Rust bindings for the files of one crate from a
descriptor set written by protoc --descriptor_set_out --include_imports.

With --kernel=cpp each file also gets a .pb.thunks.cc C++ shim the bindings
link against.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./rsproto.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.AddCommand(a.generateCmd(), a.watchCmd(), a.versionCmd())
	return root, a.logger
}

// init reads the config file and binds the flags of cmd.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("RSPROTO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.SetConfigName("rsproto")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if a.v.GetBool("verbose") {
		a.logger.SetLevel(log.DebugLevel)
	}
	if f := a.v.ConfigFileUsed(); f != "" {
		a.logger.Debug("using config file", "path", f)
	}
	return nil
}

// config returns the configuration resolved for the running command.
func (a *app) config() (*config, error) {
	cfg := &config{}
	if err := a.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the generator version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "rsproto %s\n", rsproto.Version)
			return err
		},
	}
}
