package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetboard/app"
	"github.com/kilianp07/fleetboard/config"
	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/infra/logger"
	"github.com/kilianp07/fleetboard/infra/terminal"
)

// openBoard loads the configuration and starts a service for one command.
// Conflicts are confirmed on the command's terminal unless yes is set.
func openBoard(cmd *cobra.Command, yes bool) (*app.Service, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg,
		app.WithConfirmer(commandConfirmer(cmd, yes)),
		app.WithNotifier(terminal.NewNotifier(cmd.OutOrStdout())),
	)
	if err != nil {
		return nil, nil, err
	}
	svc.Start(contextOf(cmd))
	closeFn := func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}
	return svc, closeFn, nil
}

func commandConfirmer(cmd *cobra.Command, yes bool) board.Confirmer {
	if yes {
		return board.StaticConfirmer(true)
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok {
		return terminal.NewConfirmer(f, cmd.OutOrStdout())
	}
	return terminal.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

func parseOwner(kind, id string) (model.OwnerRef, error) {
	switch kind {
	case "route", "routes":
		return model.Route(id), nil
	case "trip", "field-trip", "field_trip", "fieldtrip":
		return model.FieldTrip(id), nil
	}
	return model.OwnerRef{}, fmt.Errorf("unknown owner kind %q (want route or trip)", kind)
}

func parseResource(kind, id string) (model.ResourceRef, error) {
	switch kind {
	case "staff":
		return model.Staff(id), nil
	case "asset":
		return model.Asset(id), nil
	}
	return model.ResourceRef{}, fmt.Errorf("unknown resource kind %q (want staff or asset)", kind)
}

// report prints no-op outcomes and turns refusals into command errors.
// Successful mutations are already announced by the notifier.
func report(cmd *cobra.Command, res board.Result) error {
	switch {
	case !res.OK:
		return fmt.Errorf("%s: %s", res.Code, res.Reason)
	case res.Unchanged:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Reason)
		return err
	}
	return nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
