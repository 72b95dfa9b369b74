package main

import (
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"golunesbridge/LunesRPC"
	"golunesbridge/SOLRPC"
	"golunesbridge/allowance"
	"golunesbridge/bridge"
	"golunesbridge/bridgeapi"
	"golunesbridge/chains"
	"golunesbridge/config"
	"golunesbridge/fees"
	"golunesbridge/redis"
	"golunesbridge/workers"
	"golunesbridge/workers/handlers"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Print("Starting Solana/Lunes bridge")

	config.Init()
	chains.SetSS58Prefix(config.Config.Lunes.SS58Prefix)

	if config.Config.DevMode {
		log.SetLevel(log.DebugLevel)
		// this is for debug, makes output contain sensitive info
		log.Debugf("%+v", config.Config)
	}

	feeCfg := fees.FeeConfig{
		LowBps:              config.Config.Fees.LowBps,
		MediumBps:           config.Config.Fees.MediumBps,
		HighBps:             config.Config.Fees.HighBps,
		VolumeThreshold1Usd: decimal.NewFromFloat(config.Config.Fees.VolumeThreshold1Usd),
		VolumeThreshold2Usd: decimal.NewFromFloat(config.Config.Fees.VolumeThreshold2Usd),
		TokenPrecision:      config.Config.Fees.TokenPrecision,
	}

	store := redis.NewStore()
	solClient := SOLRPC.NewClient()
	lunesClient := LunesRPC.NewClient()

	api := bridgeapi.NewHTTPClient(
		config.Config.BridgeAPI.BaseURL,
		config.Config.BridgeAPI.WsURL,
		config.Config.BridgeAPI.WebhookURL,
		time.Duration(config.Config.BridgeAPI.TimeoutSeconds)*time.Second,
	)

	gate := allowance.NewGate(lunesClient)

	initiator := bridge.NewInitiator(solClient, lunesClient, api, gate, store, bridge.InitiatorConfig{
		Fees:                  feeCfg,
		SolanaTokenMint:       config.Config.Solana.TokenMint,
		SolanaCustody:         config.Config.Solana.Custody,
		LunesTokenContract:    config.Config.Lunes.TokenContract,
		LunesFeeTokenContract: config.Config.Lunes.FeeTokenContract,
		FeeCollector:          config.Config.Lunes.FeeCollector,
	})

	tracker := bridge.NewTracker(
		api,
		store,
		time.Duration(config.Config.Tracking.PollIntervalSeconds)*time.Second,
		time.Duration(config.Config.Tracking.MaxPollSeconds)*time.Second,
		config.Config.Tracking.PushEnabled,
	)

	limiter := bridge.NewRateLimiter(
		config.Config.RateLimit.MaxAttempts,
		time.Duration(config.Config.RateLimit.WindowSeconds)*time.Second,
	)

	orch := bridge.NewOrchestrator(initiator, tracker, limiter, config.Config.DevMode)
	orch.SetStateCallback(func(state bridge.UIState, message string) {
		if message != "" {
			log.Printf("Bridge state: %s (%s)", state, message)
		} else {
			log.Printf("Bridge state: %s", state)
		}
	})
	defer orch.Close()

	h := handlers.New(orch, store, api, solClient, feeCfg, config.Config.DevMode)

	// there are 2 worker threads:
	// * resume tracking of mirrored in-flight transactions
	// * API serving HTTP server (serves as main worker thread)
	go workers.Worker_resume(store, tracker)

	workers.Worker_HTTP(h)
}
