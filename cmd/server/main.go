package main

import (
	"os"
	"strings"

	"github.com/dfryer1193/cmsblog/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const serviceName = "cmsblog"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "cmsblog",
		Short:         "Server-rendered blog front-end for a headless CMS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the blog pages, the JSON API and the comment endpoint",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	linksCmd = &cobra.Command{
		Use:   "links",
		Short: "Inspect comments that were created without a link to their post",
	}
	linksListCmd = &cobra.Command{
		Use:   "list",
		Short: "List comments still waiting to be linked",
		Args:  cobra.NoArgs,
		RunE:  runLinksList,
	}
	linksResolveCmd = &cobra.Command{
		Use:   "resolve [comment id]",
		Short: "Mark a comment as linked after it was connected to its post in the CMS",
		Args:  cobra.ExactArgs(1),
		RunE:  runLinksResolve,
	}

	listLimit  int
	listOffset int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	linksListCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum number of comments to list")
	linksListCmd.Flags().IntVar(&listOffset, "offset", 0, "number of comments to skip")

	linksCmd.AddCommand(linksListCmd, linksResolveCmd)
	rootCmd.AddCommand(serveCmd, linksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Log)
	return cfg, nil
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
