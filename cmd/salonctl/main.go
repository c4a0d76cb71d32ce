// Command salonctl is the back office terminal client of the salon API.
package main

import (
	"context"

	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/cli"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, m *app.Telemetry) error {
		return cli.Execute(ctx, cli.Deps{
			Logger:    lg,
			Telemetry: m,
		})
	})
}
