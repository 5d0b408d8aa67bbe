package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/currency"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <username>",
	Short: "Confirm a registered account so it can sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		ok, err := a.auth.ConfirmUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return auth.ErrUserNotFound
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account %s confirmed\n", args[0])
		return nil
	},
}

var plansCurrency string

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List subscription plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := models.Currency(strings.ToUpper(plansCurrency))
		if !models.IsValidCurrency(c) {
			return fmt.Errorf("unsupported currency %q", plansCurrency)
		}
		return printPlans(cmd.OutOrStdout(), subscription.Plans(c))
	},
}

func init() {
	plansCmd.Flags().StringVarP(&plansCurrency, "currency", "c", string(models.DefaultCurrency), "currency for prices (EUR, USD, BGN)")
}

func printPlans(w io.Writer, plans []subscription.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAN\tPRICE\tFEATURES")
	for _, p := range plans {
		price := fmt.Sprintf("%s%.2f/%s", currency.Symbol(p.Currency), p.Price, p.Interval)
		name := p.Name
		if p.Popular {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, price, strings.Join(p.Features, ", "))
	}
	return tw.Flush()
}
