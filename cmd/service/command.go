package service

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vidalaw/intake-api/app/core"
	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/pkg/safe"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "client intake service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	startJanitor(app)
	serve(app)

	return nil
}

// startJanitor sweeps expired share tokens on a schedule. Expiry is already
// enforced at read time, so the sweep only keeps the table from growing.
func startJanitor(app *core.Core) {
	c := cron.New()
	_, err := c.AddFunc(app.Cfg().Janitor.Spec, func() {
		safe.RunWithLog(func() {
			if _, err := v1.NewJanitorLogic(context.Background(), app).SweepExpiredTokens(); err != nil {
				slog.Error("Janitor sweep failed", slog.String("error", err.Error()))
			}
		}, "janitor")
	})
	if err != nil {
		slog.Error("Failed to schedule janitor", slog.String("error", err.Error()))
		return
	}
	c.Start()
}
