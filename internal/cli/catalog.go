package cli

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

func catalogCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the sellable catalog",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "products",
			Short: "List products",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				products, err := e.client.ListProducts(cmd.Context())
				if err != nil {
					return errors.Wrap(err, "list products")
				}
				return renderProducts(e.Out, products)
			},
		},
		&cobra.Command{
			Use:   "services",
			Short: "List services",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				services, err := e.client.ListServices(cmd.Context())
				if err != nil {
					return errors.Wrap(err, "list services")
				}
				return renderServices(e.Out, services)
			},
		},
	)
	return cmd
}
