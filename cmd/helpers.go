package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/rigi-cli/internal/pipeline"
	"github.com/mj1618/rigi-cli/internal/platform"
	"github.com/spf13/cobra"
)

// providerOptions collects the snapshot source flags.
func providerOptions(cmd *cobra.Command) platform.ProviderOptions {
	flags := cmd.Root().PersistentFlags()
	tree, _ := flags.GetString("tree")
	image, _ := flags.GetString("image")
	scale, _ := flags.GetFloat64("scale")
	return platform.ProviderOptions{TreePath: tree, ImagePath: image, Scale: scale}
}

func newProvider(cmd *cobra.Command) (*platform.Provider, error) {
	return platform.NewProvider(providerOptions(cmd))
}

func newPipeline(cmd *cobra.Command) (*platform.Provider, *pipeline.Pipeline, error) {
	provider, err := newProvider(cmd)
	if err != nil {
		return nil, nil, err
	}
	return provider, pipeline.New(provider, pipeline.SettingsFromConfig(appConfig), logger), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
