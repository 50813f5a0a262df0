package main

import (
	"context"
)

func (cli *commandLine) expireSubscriptions() error {
	count, err := cli.billingSvc.Expire(context.Background())
	if err != nil {
		return err
	}
	logger.Printf("expiresubs: %d subscriptions expired", count)
	return nil
}
