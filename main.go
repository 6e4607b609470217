package main

import (
	"flag"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/electra-shield/voting-backend/app"
	"github.com/electra-shield/voting-backend/config"
	"github.com/electra-shield/voting-backend/logging"
)

func initFlags() {
	flag.String(config.FlagConfigPath, "", "config file path")
	flag.String(config.FlagConfigDbPass, "", "database password override")

	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		panic(err)
	}
}

func printUsage() {
	fmt.Print("usage: ./voting-backend --config-path configFile\n")
}

func main() {
	initFlags()

	configFilePath := viper.GetString(config.FlagConfigPath)
	if configFilePath == "" {
		printUsage()
		return
	}
	cfg := config.ParseConfigFromFile(configFilePath)

	logging.InitLogger(&cfg.LogConfig)

	app.NewApp(cfg).Start()
}
