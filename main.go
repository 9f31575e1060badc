package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	logger "github.com/ElrondNetwork/elrond-go-logger"
	"github.com/urfave/cli"

	"github.com/DrDelphi/LuckeeBot/api"
	"github.com/DrDelphi/LuckeeBot/bot"
	"github.com/DrDelphi/LuckeeBot/config"
	"github.com/DrDelphi/LuckeeBot/data"
	"github.com/DrDelphi/LuckeeBot/lottery"
	"github.com/DrDelphi/LuckeeBot/network"
	"github.com/DrDelphi/LuckeeBot/scheduler"
	"github.com/DrDelphi/LuckeeBot/storage"
	"github.com/DrDelphi/LuckeeBot/utils"
	"github.com/DrDelphi/LuckeeBot/wallet"
)

var log = logger.GetOrCreate("main")

var (
	configFile = cli.StringFlag{
		Name:  "config",
		Usage: "path of the JSON configuration file",
		Value: utils.DefaultConfigPath,
	}
	logLevel = cli.StringFlag{
		Name:  "log-level",
		Usage: "logger level and pattern, e.g. *:INFO or *:DEBUG,network:TRACE",
		Value: "*:INFO",
	}
	apiAddress = cli.StringFlag{
		Name:  "api",
		Usage: "listen address of the HTTP API, overrides api.listen from the config",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "LuckeeBot"
	app.Usage = "Telegram client for a commit-reveal lottery contract"
	app.Flags = []cli.Flag{configFile, logLevel, apiAddress}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Error("application stopped", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := logger.SetLogLevel(c.String(logLevel.Name)); err != nil {
		return err
	}

	cfg, err := config.NewConfig(c.String(configFile.Name))
	if err != nil {
		log.Error("can not load config", "path", c.String(configFile.Name), "error", err)
		return err
	}
	if addr := c.String(apiAddress.Name); addr != "" {
		cfg.API.Listen = addr
	}

	backend, txSender, decimals, err := newBackend(cfg)
	if err != nil {
		return err
	}

	kv, err := storage.Open(cfg.Storage.Kind, cfg.Storage.Path, cfg.Storage.RedisAddr)
	if err != nil {
		log.Error("can not open storage", "kind", cfg.Storage.Kind, "error", err)
		return err
	}
	defer kv.Close()

	gateway := network.NewGateway(backend, cfg.ContractAddress)
	clock := lottery.NewPhaseClock(lottery.Schedule{
		Commitment: time.Duration(cfg.Phases.CommitmentSeconds) * time.Second,
		Reveal:     time.Duration(cfg.Phases.RevealSeconds) * time.Second,
		Settlement: time.Duration(cfg.Phases.SettlementSeconds) * time.Second,
	})

	var b *bot.Bot
	poller := lottery.NewPoller(lottery.PollerArgs{
		Source:   gateway,
		Clock:    clock,
		Targets:  func() []lottery.RoundTarget { return b.RoundTargets() },
		Balances: func() []lottery.BalanceRefresher { return b.BalanceRefreshers() },
	})

	b, err = bot.NewBot(bot.Args{
		Config:   cfg,
		Gateway:  gateway,
		Rounds:   poller,
		Clock:    clock,
		KV:       kv,
		TxSender: txSender,
		Decimals: decimals,
	})
	if err != nil {
		return err
	}
	poller.OnRoundChange(b.RoundChanged)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tasks := scheduler.NewGroup(ctx)
	tasks.Every("session", time.Duration(cfg.Polling.SessionSeconds)*time.Second, func(ctx context.Context) {
		_ = poller.RefreshSession(ctx)
	})
	tasks.Every("status", time.Duration(cfg.Polling.StatusSeconds)*time.Second, func(ctx context.Context) {
		_ = poller.RefreshStatus(ctx)
	})
	defer tasks.Stop()

	b.StartTasks(ctx)

	if cfg.API.Listen != "" {
		server := api.NewServer(api.Args{
			Contract: gateway,
			Rounds:   poller,
			Users:    b,
			Clock:    clock,
		})
		go func() {
			if err := server.Start(cfg.API.Listen); err != nil {
				log.Error("api stopped", "error", err)
			}
		}()
		defer func() {
			_ = server.Shutdown()
		}()
	}

	log.Info("bot started", "backend", cfg.Network.Backend, "contract", cfg.ContractAddress)
	<-ctx.Done()
	log.Info("shutting down")

	return nil
}

// newBackend picks the contract backend; only the MultiversX proxy can
// broadcast transactions signed by the local wallets
func newBackend(cfg *data.AppConfig) (network.Backend, wallet.TxSender, int32, error) {
	if cfg.Network.Backend == "erd" {
		nm, err := network.NewNetworkManager(cfg)
		if err != nil {
			return nil, nil, 0, err
		}
		return nm, nm, nm.Decimals(), nil
	}

	timeout := time.Duration(cfg.Network.TimeoutSeconds) * time.Second
	return network.NewWasmClient(cfg.Network.Lcd, timeout), nil, utils.DefaultDenomDecimals, nil
}
