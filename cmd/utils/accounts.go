package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/infrastructure/config"
	"flightsurety-service/internal/infrastructure/persistence"
	"flightsurety-service/internal/interface/contract"
	"flightsurety-service/pkg/logger"
	"flightsurety-service/pkg/utils"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Prints how the node accounts are split between owner, airlines and passengers
func main() {
	showBalances := flag.Bool("balances", false, "also print account balances in ether")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.NewLogger().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewLoggerWithLevel(cfg.LogLevel)

	network, err := config.LoadNetwork(cfg.NetworkConfigPath, cfg.Network)
	if err != nil {
		log.Fatal("Failed to load network config", "error", err)
	}

	ctx := context.Background()
	rpcClient, err := persistence.NewRPCClient(ctx, network.URL)
	if err != nil {
		log.Fatal("Failed to connect to Ethereum node", "error", err)
	}
	defer rpcClient.Close()

	parsedABI, err := contract.LoadABI(cfg.ContractArtifactPath)
	if err != nil {
		log.Fatal("Failed to load contract ABI", "error", err)
	}
	gateway := contract.NewGateway(rpcClient, network.AppContract(), parsedABI, log)

	accounts, err := gateway.Accounts(ctx)
	if err != nil {
		log.Fatal("Failed to list accounts", "error", err)
	}

	pool, err := entity.NewAccountPool(accounts)
	if err != nil {
		log.Fatal("Failed to partition accounts", "count", len(accounts), "error", err)
	}

	out := map[string]interface{}{
		"network":  cfg.Network,
		"contract": gateway.Address().Hex(),
		"pool":     pool,
	}

	if *showBalances {
		client := ethclient.NewClient(rpcClient)
		balances := make(map[string]string, len(accounts))
		for _, account := range accounts {
			balance, err := client.BalanceAt(ctx, account, nil)
			if err != nil {
				log.Warn("Failed to read balance", "account", account.Hex(), "error", err)
				continue
			}
			balances[account.Hex()] = utils.WeiToEther(balance)
		}
		out["balances"] = balances
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
