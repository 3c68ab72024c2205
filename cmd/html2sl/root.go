package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"html2sl/internal/config"
	"html2sl/internal/logger"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "html2sl [flags] <file.html | ->",
		Short: "Convert HTML into builder-style DSL",
		Long: `html2sl converts an HTML document into nested builder calls that mirror
its tag, attribute and text tree.

Each element becomes a tag() call, attributes become chained calls and
children are wrapped in .child(...). Comments are dropped and
whitespace-only text is ignored.

Reads stdin when the argument is "-" or missing.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogger(cmd, v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $HOME/.html2sl.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log-json", false, "log as JSON")

	local := cmd.Flags()
	local.StringP("output", "o", "", "write output to file instead of stdout")
	local.StringP("select", "s", "", "convert only elements matching a CSS selector")
	local.Int("indent", 4, "spaces per indentation level")
	local.Bool("tabs", false, "indent with tabs")
	local.String("escape-prefix", "r#", "prefix for reserved attribute names")
	local.StringSlice("reserved", nil, "attribute names that need escaping")
	local.Bool("escape-literals", false, "escape quotes and backslashes in string literals")
	local.Bool("strict", false, "fail when the document produces no output")
	local.Bool("stats", false, "print conversion statistics to stderr")

	bindFlags(v, cmd)

	cmd.AddCommand(newConfigCmd(v), newVersionCmd())
	return cmd
}

// bindFlags maps flags onto configuration keys
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	bind := func(key string, flag string, persistent bool) {
		set := cmd.Flags()
		if persistent {
			set = cmd.PersistentFlags()
		}
		_ = v.BindPFlag(key, set.Lookup(flag))
	}

	bind("config", "config", true)
	bind("debug", "debug", true)
	bind("quiet", "quiet", true)
	bind("log_json", "log-json", true)

	bind("selector", "select", false)
	bind("indent_width", "indent", false)
	bind("escape_prefix", "escape-prefix", false)
	bind("reserved_names", "reserved", false)
	bind("use_tabs", "tabs", false)
	bind("escape_literals", "escape-literals", false)
	bind("strict", "strict", false)
}

func initLogger(cmd *cobra.Command, v *viper.Viper) {
	logger.Init(logger.Options{
		Debug:  v.GetBool("debug"),
		Quiet:  v.GetBool("quiet"),
		JSON:   v.GetBool("log_json"),
		Output: cmd.ErrOrStderr(),
	})
}

// loadConfig merges defaults, config file, HTML2SL_* environment variables
// and flags, in increasing priority
func loadConfig(v *viper.Viper) (config.Config, error) {
	def := config.Default()
	v.SetDefault("indent_width", def.IndentWidth)
	v.SetDefault("use_tabs", def.UseTabs)
	v.SetDefault("escape_prefix", def.EscapePrefix)
	v.SetDefault("reserved_names", def.ReservedNames)
	v.SetDefault("escape_literals", def.EscapeLiterals)
	v.SetDefault("selector", def.Selector)
	v.SetDefault("strict", def.Strict)

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".html2sl")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("HTML2SL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		logger.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return config.Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
