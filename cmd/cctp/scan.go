package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runScan(cmd *cobra.Command, _ []string) error {
	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}
	defer d.logger.Sync()
	defer d.pool.Close()

	domain, _ := cmd.Flags().GetUint32("domain")
	recipientHex, _ := cmd.Flags().GetString("recipient")
	amount, _ := cmd.Flags().GetUint64("amount")
	originTimestamp, _ := cmd.Flags().GetInt64("origin-timestamp")

	if !common.IsHexAddress(recipientHex) {
		return fmt.Errorf("invalid recipient address: %s", recipientHex)
	}
	if amount == 0 {
		return fmt.Errorf("amount is required")
	}

	chainCfg, ok := d.reg.Lookup(domain)
	if !ok {
		return fmt.Errorf("unsupported domain %d", domain)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := d.pool.Get(ctx, chainCfg)
	if err != nil {
		return err
	}

	recipient := common.HexToAddress(recipientHex)
	txHash, found, err := d.scanner.FindMintLog(ctx, client, chainCfg, recipient, amount, originTimestamp)
	if err != nil {
		return err
	}
	if !found {
		d.logger.Info("no mint found within search horizon",
			zap.Uint32("domain", domain),
			zap.String("recipient", recipient.Hex()),
			zap.Uint64("amount", amount),
		)
		return nil
	}

	match, err := d.resolver.Resolve(ctx, client, chainCfg.ChainID, txHash, originTimestamp)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(match, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
