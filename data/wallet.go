package data

// WalletKind identifies one of the supported wallet providers
type WalletKind string

const (
	WalletLocal        WalletKind = "local"
	WalletKeplr        WalletKind = "keplr"
	WalletLeap         WalletKind = "leap"
	WalletCosmostation WalletKind = "cosmostation"
	WalletMetamask     WalletKind = "metamask"
)

// WalletKinds lists every supported kind
var WalletKinds = []WalletKind{WalletLocal, WalletKeplr, WalletLeap, WalletCosmostation, WalletMetamask}

// WalletInfo is the connected wallet identity; it exists only while connected
type WalletInfo struct {
	Address string     `json:"address"`
	Kind    WalletKind `json:"walletType"`
	ChainID string     `json:"chainId"`
	Balance string     `json:"balance"`
}
