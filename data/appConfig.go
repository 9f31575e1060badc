package data

// AppConfig holds the application configuration read from config.json
type AppConfig struct {
	Bot struct {
		Token   string `json:"token" validate:"required"`
		Owner   int64  `json:"owner"`
		Group   string `json:"group"`
		GroupID int64  `json:"groupID"`
	} `json:"bot"`
	Seedphrase      string `json:"seed" validate:"required"`
	ContractAddress string `json:"contractAddress" validate:"required"`
	ChainID         string `json:"chainID" validate:"required"`
	BetDenom        string `json:"betDenom"`
	Network         struct {
		Backend             string `json:"backend" validate:"oneof=wasm erd"`
		Proxy               string `json:"proxy" validate:"required_if=Backend erd"`
		Lcd                 string `json:"lcd" validate:"required_if=Backend wasm"`
		AddressPrefix       string `json:"addressPrefix"`
		ExplorerTransaction string `json:"explorerTransaction"`
		ExplorerAccount     string `json:"explorerAccount"`
		TimeoutSeconds      int    `json:"timeoutSeconds" validate:"gte=0"`
	} `json:"network"`
	Storage struct {
		Kind      string `json:"kind" validate:"oneof=file sqlite redis memory"`
		Path      string `json:"path"`
		RedisAddr string `json:"redisAddr" validate:"required_if=Kind redis"`
		Namespace string `json:"namespace"`
	} `json:"storage"`
	Phases struct {
		CommitmentSeconds int `json:"commitmentSeconds" validate:"gte=0"`
		RevealSeconds     int `json:"revealSeconds" validate:"gte=0"`
		SettlementSeconds int `json:"settlementSeconds" validate:"gte=0"`
	} `json:"phases"`
	Polling struct {
		SessionSeconds int `json:"sessionSeconds" validate:"gte=0"`
		StatusSeconds  int `json:"statusSeconds" validate:"gte=0"`
	} `json:"polling"`
	API struct {
		Listen string `json:"listen"`
	} `json:"api"`
}
