package config

type Configuration struct {
	// Server config
	Server struct {
		Port      int    `yaml:"port"`
		UseSSL    bool   `yaml:"ssl"`
		RedisPort int    `yaml:"redis_port"`
		RedisHost string `yaml:"redis_host"`
	} `yaml:"server"`
	// Fee schedule, bps by rolling monthly volume tier
	Fees struct {
		LowBps              int64   `yaml:"low_bps"`
		MediumBps           int64   `yaml:"medium_bps"`
		HighBps             int64   `yaml:"high_bps"`
		VolumeThreshold1Usd float64 `yaml:"volume_threshold1_usd"`
		VolumeThreshold2Usd float64 `yaml:"volume_threshold2_usd"`
		TokenPrecision      int32   `yaml:"token_precision"`
	} `yaml:"fees"`
	// Client-side submission guard
	RateLimit struct {
		MaxAttempts   int `yaml:"max_attempts"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
	Tracking struct {
		PollIntervalSeconds int  `yaml:"poll_interval_seconds"`
		MaxPollSeconds      int  `yaml:"max_poll_seconds"` // 0 keeps tracking unbounded
		PushEnabled         bool `yaml:"push_enabled"`
	} `yaml:"tracking"`
	// Bridge coordination service
	BridgeAPI struct {
		BaseURL        string `yaml:"base_url"`
		WsURL          string `yaml:"ws_url"`
		WebhookURL     string `yaml:"webhook_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"bridge_api"`
	// Solana-related config
	Solana struct {
		RPCList       []string `yaml:"rpc_list"`
		TokenMint     string   `yaml:"token_mint"`
		Custody       string   `yaml:"custody"`
		PauseAccount  string   `yaml:"pause_account"`
		VolumeAccount string   `yaml:"volume_account"`
		WalletAddress string   `yaml:"wallet_address"`
		// important private stuff
		WalletKey string `yaml:"wallet_key"`
	} `yaml:"solana"`
	// Lunes-related config
	Lunes struct {
		Host             string `yaml:"host"`
		Port             int    `yaml:"port"`
		TokenContract    string `yaml:"token_contract"`
		FeeTokenContract string `yaml:"fee_token_contract"`
		FeeCollector     string `yaml:"fee_collector"`
		WalletAddress    string `yaml:"wallet_address"`
		SS58Prefix       byte   `yaml:"ss58_prefix"`
		// important private stuff
		WalletSeed string `yaml:"wallet_seed"`
	} `yaml:"lunes"`
	DevMode bool `yaml:"dev_mode"`
}

var Config Configuration

// webhook event emitted after a successful registration
const WEBHOOK_EVENT_CREATED = "bridge.transaction.created"

// maximum number of Solana RPC retries across the endpoint list
const SOL_RETRIES = 3

// chain metadata, keyed by chain id (0 Solana, 1 Lunes)
type ChainMeta struct {
	Name     string
	ChainID  int
	Decimals int32
}

var Chains = map[int]ChainMeta{
	0: {
		Name:     "Solana",
		ChainID:  0,
		Decimals: 8,
	},
	1: {
		Name:     "Lunes",
		ChainID:  1,
		Decimals: 8,
	},
}

var RedisStatusSets = map[string]string{
	"pending":    "bridgetx:pending",    // registered with the coordination service, awaiting relay
	"processing": "bridgetx:processing", // relay picked the transaction up
	"completed":  "bridgetx:completed",  // destination leg confirmed
	"failed":     "bridgetx:failed",     // coordination service gave up on the transaction
}
