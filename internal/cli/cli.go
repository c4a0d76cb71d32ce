// Package cli implements salonctl, the terminal client of the salon API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JamersonCarlos/beauty-salon-web/internal/app"
	"github.com/JamersonCarlos/beauty-salon-web/internal/domain/sale"
	"github.com/JamersonCarlos/beauty-salon-web/internal/salonapi"
)

// Deps are the process-level collaborators of the command tree. Zero values
// select the real environment.
type Deps struct {
	In        io.Reader
	Out       io.Writer
	Logger    *zap.Logger
	Telemetry *sdkapp.Telemetry
	// LoadConfig defaults to app.LoadClientConfig.
	LoadConfig func() (*app.ClientConfig, error)
}

// env is the per-invocation state built before a command runs.
type env struct {
	Deps

	cfg    *app.ClientConfig
	client *salonapi.Client
	sales  *sale.Service
	in     *bufio.Reader
}

// NewRootCmd builds the salonctl command tree.
func NewRootCmd(d Deps) *cobra.Command {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.LoadConfig == nil {
		d.LoadConfig = app.LoadClientConfig
	}
	e := &env{Deps: d, in: bufio.NewReader(d.In)}

	var baseURL string
	root := &cobra.Command{
		Use:           "salonctl",
		Short:         "Salon back office client",
		Long:          "salonctl records sales, browses the sales history and prints receipts against the salon API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(baseURL)
		},
	}
	root.SetIn(d.In)
	root.SetOut(d.Out)
	root.SetErr(d.Out)
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "Salon API base URL (overrides SALON_BASE_URL)")

	root.AddCommand(
		loginCmd(e),
		logoutCmd(e),
		catalogCmd(e),
		salesCmd(e),
	)
	return root
}

// Execute runs salonctl with the process arguments.
func Execute(ctx context.Context, d Deps) error {
	return NewRootCmd(d).ExecuteContext(ctx)
}

func (e *env) setup(baseURL string) error {
	cfg, err := e.LoadConfig()
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	e.cfg = cfg

	lg := e.Logger
	if !cfg.Debug {
		lg = lg.WithOptions(zap.IncreaseLevel(zap.WarnLevel))
	}

	opts := []salonapi.Option{
		salonapi.WithLogger(lg.Named("api")),
		salonapi.WithToken(cfg.Token),
		salonapi.WithOnSessionExpired(func() {
			if err := cfg.SaveToken(""); err != nil {
				lg.Warn("Forget token failed", zap.Error(err))
			}
			fmt.Fprintln(e.Out, warnColor.Sprint("Session expired. Run `salonctl login` again."))
		}),
	}
	if e.Telemetry != nil {
		opts = append(opts, salonapi.WithTelemetry(e.Telemetry.TracerProvider(), e.Telemetry.MeterProvider()))
	}

	client, err := salonapi.New(cfg.BaseURL, opts...)
	if err != nil {
		return errors.Wrap(err, "create api client")
	}
	e.client = client
	e.sales = sale.NewService(client, lg.Named("sale"))
	return nil
}

// prompt prints label and reads one trimmed line.
func (e *env) prompt(label string) (string, error) {
	fmt.Fprint(e.Out, label)
	line, err := e.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (e *env) confirm(question string) (bool, error) {
	answer, err := e.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}
