package utils

import "time"

const (
	DefaultConfigPath = "config.json"

	AutoNonce = 4000000000

	PlaceBetGasLimit     = 15000000
	RevealRandomGasLimit = 20000000
	SettleGasLimit       = 60000000

	DefaultHTTPTimeout = 15 * time.Second

	DefaultDenom         = "uluckee"
	DefaultDenomDecimals = 6
	DisplayTicker        = "LUCKEE"
)
