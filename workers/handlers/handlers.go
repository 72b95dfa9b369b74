package handlers

import (
	"golunesbridge/bridge"
	"golunesbridge/bridgeapi"
	"golunesbridge/chains"
	"golunesbridge/fees"
	"golunesbridge/redis"
)

// Handler carries the API dependencies; no package-level state so tests can
// build one around fakes.
type Handler struct {
	orch    *bridge.Orchestrator
	store   *redis.Store
	api     bridgeapi.Client
	solana  chains.ChainClient
	feeCfg  fees.FeeConfig
	devMode bool
}

func New(orch *bridge.Orchestrator, store *redis.Store, api bridgeapi.Client, solana chains.ChainClient, feeCfg fees.FeeConfig, devMode bool) *Handler {
	return &Handler{
		orch:    orch,
		store:   store,
		api:     api,
		solana:  solana,
		feeCfg:  feeCfg,
		devMode: devMode,
	}
}
