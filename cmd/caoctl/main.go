package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/compose-network/cao-console/configs"
	"github.com/compose-network/cao-console/internal/delegation"
	"github.com/compose-network/cao-console/internal/inspect"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/compose-network/cao-console/internal/overview"
	"github.com/compose-network/cao-console/internal/proposals"
	"github.com/compose-network/cao-console/internal/remunerations"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "caoctl"

var flagConfig string

var rootCmd = &cobra.Command{
	Use:          appName,
	Short:        "Governance console for a CAO and its funds",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.LoadDefaults(viper.GetViper()); err != nil {
			return err
		}

		if flagConfig != "" {
			viper.SetConfigFile(flagConfig)
		} else {
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")

			if execPath, err := os.Executable(); err == nil {
				viper.AddConfigPath(filepath.Dir(execPath))
			}
			viper.AddConfigPath(".")
			viper.AddConfigPath("./configs")
		}

		// Without a config file the embedded defaults and flags apply.
		configFileLoaded := true
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				const errMsg = "error reading config file"
				slog.With("err", err.Error()).Error(errMsg)
				return errors.Join(err, errors.New(errMsg))
			}
			configFileLoaded = false
		}

		if err := viper.Unmarshal(&configs.Values); err != nil {
			const errMsg = "unable to decode application config"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}

		if err := configs.Values.Log.Validate(); err != nil {
			return err
		}
		level, _ := configs.Values.Log.SlogLevel()
		logger.Initialize(level, configs.Values.Log.Format)

		log := logger.Named("config")
		if configFileLoaded {
			log.With("config_file", viper.ConfigFileUsed()).Debug("config file loaded")
		} else {
			log.Debug("no config file found, relying on flags and defaults")
		}
		log.With("config", configs.Values).Debug("configuration loaded")

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (defaults to config.yaml next to the binary, in . or in ./configs)")

	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(intFlags); err != nil {
		panic(err)
	}
}

func main() {
	rootCmd.AddCommand(inspect.DecodeCMD)
	rootCmd.AddCommand(inspect.EncodeCMD)
	rootCmd.AddCommand(inspect.SelectorsCMD)
	rootCmd.AddCommand(proposals.CMD)
	rootCmd.AddCommand(delegation.CMD)
	rootCmd.AddCommand(remunerations.CMD)
	rootCmd.AddCommand(overview.CMD)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		stop()
		os.Exit(1)
	}
}
