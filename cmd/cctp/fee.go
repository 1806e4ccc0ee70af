package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func runFee(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.logger.Sync()

	domain, _ := cmd.Flags().GetUint32("domain")
	txID, _ := cmd.Flags().GetString("tx")
	if txID == "" {
		return fmt.Errorf("transaction hash is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	amount, err := d.oracle.FetchFee(ctx, domain, txID)
	if err != nil {
		return err
	}

	fmt.Println(amount.String())
	return nil
}
