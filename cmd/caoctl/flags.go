package main

import (
	"github.com/spf13/viper"
)

// flagDef defines a persistent flag and the configuration key it overrides.
type (
	flagType interface {
		string | int
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

// Defaults live in the embedded config, so flags only take effect when set.
var (
	stringFlags = []flagDef[string]{
		// Node
		{"rpc-url", "rpc.url", "", "JSON-RPC endpoint of the node"},
		{"from", "rpc.from", "", "Account sending transactions (defaults to the node's first account)"},

		// Contracts
		{"cao", "addresses.cao", "", "CAO contract address"},
		{"cao-token", "addresses.cao-token", "", "CAO token contract address"},
		{"cao-parameters", "addresses.cao-parameters", "", "CAO parameters contract address"},
		{"hr", "addresses.hr", "", "HR contract address"},
		{"abi-dir", "abi-dir", "", "Directory of ABI files overriding the built-in ones"},

		// Output
		{"output", "output", "", "Output format: table or yaml"},
		{"log-level", "log.level", "", "Log level: debug, info, warn or error"},
		{"log-format", "log.format", "", "Log format: json or text"},
	}

	intFlags = []flagDef[int]{
		{"retry-attempts", "rpc.retry-attempts", 0, "Attempts per RPC request"},
	}
)

// declareFlags declares persistent flags and binds them to viper configuration keys.
func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	var zero T
	switch any(zero).(type) {
	case string:
		rootCmd.PersistentFlags().String(flagName, any(defaultValue).(string), description)
	case int:
		rootCmd.PersistentFlags().Int(flagName, any(defaultValue).(int), description)
	}
	return viper.BindPFlag(viperKey, rootCmd.PersistentFlags().Lookup(flagName))
}
