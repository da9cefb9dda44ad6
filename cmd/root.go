package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/user"

	"github.com/josephlewis42/tinysh/core/config"
	"github.com/josephlewis42/tinysh/core/logger"
	"github.com/josephlewis42/tinysh/core/shell"
	"github.com/josephlewis42/tinysh/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	logFile     string
	logLevel    string
	colorMode   string
	commandLine string
)

// loadConfig reads the configuration and applies flag overrides. Without a
// config file the defaults are used.
func loadConfig(cmd *cobra.Command, configFs afero.Fs) (*config.Configuration, error) {
	configuration, err := config.Load(configFs, cfgPath)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		if cmd.Flags().Changed("config") {
			log.Println("Couldn't load config: did you run init?")
			return nil, err
		}
		configuration = config.Default()
	case err != nil:
		return nil, err
	}

	if logFile != "" {
		configuration.Log.Path = logFile
	}
	if logLevel != "" {
		configuration.Log.Level = logLevel
	}
	if colorMode != "" {
		configuration.Color = colorMode
	}

	return configuration, configuration.Validate()
}

// openEventLog opens the session event log, the returned func closes it.
func openEventLog(configuration *config.Configuration, configFs afero.Fs) (*logger.Logger, func(), error) {
	if configuration.Log.Path == "" {
		return logger.Nop(), func() {}, nil
	}

	level, err := configuration.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	fd, err := configuration.OpenEventLog(configFs)
	if err != nil {
		return nil, nil, err
	}

	return logger.NewJSONLinesLogger(fd, level), func() { fd.Close() }, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}

func newShell(cmd *cobra.Command, configuration *config.Configuration, sessionLog *logger.SessionLogger) (*shell.Shell, error) {
	home, err := configuration.HomeDir()
	if err != nil {
		return nil, err
	}

	location, err := configuration.Location()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	workDir, err := vos.NewWorkDir(vos.NewOsFs(), cwd, home)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()

	return shell.NewShell(shell.Options{
		WorkDir:  workDir,
		IO:       vos.NewStreams(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Log:      sessionLog,
		Location: location,
		Prompt:   configuration.Prompt,
		Color:    configuration.Color,
		User:     currentUser(),
		Hostname: hostname,
		Root:     os.Geteuid() == 0,
	})
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tinysh",
	Short: "A tiny interactive command shell",
	Long: `A small shell with a handful of built-ins for moving around and
editing directories, two stage pipes and a replayable history.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configFs := afero.NewOsFs()
		configuration, err := loadConfig(cmd, configFs)
		if err != nil {
			return err
		}

		eventLog, closeLog, err := openEventLog(configuration, configFs)
		if err != nil {
			return err
		}
		defer closeLog()

		sh, err := newShell(cmd, configuration, eventLog.NewSession())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		if cmd.Flags().Changed("command") {
			err := sh.RunCommand(ctx, commandLine)
			if errors.Is(err, shell.ErrExit) {
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}
			return err
		}

		return sh.Run(ctx)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "JSON lines event log, overrides log.path")

	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "minimum event log level, overrides log.level")
	rootCmd.Flags().StringVar(&colorMode, "color", "", "colorize the output (always|auto|never), overrides color")
}
