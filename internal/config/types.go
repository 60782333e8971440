package config

// Config holds all subctl configuration. The listing fields describe which
// parent domain is minted under, on which network, and under which economic
// model.
type Config struct {
	ParentName       string              `json:"parent_name"`
	Network          string              `json:"network"`            // listing network slug, e.g. "base"
	Rental           bool                `json:"rental"`             // time-limited rental vs permanent
	Testnet          bool                `json:"testnet"`
	DefaultAvatarURI string              `json:"default_avatar_uri,omitempty"`
	MintController   string              `json:"mint_controller"`    // mint controller contract address
	Resolver         string              `json:"resolver,omitempty"` // subname resolver contract address
	IndexerURL       string              `json:"indexer_url"`
	DefaultWallet    string              `json:"default_wallet,omitempty"`
	CustomRPCs       map[string][]string `json:"custom_rpcs"`
	RPCAlgorithm     string              `json:"rpc_algorithm,omitempty"` // fastest | round-robin | failover

	// internal: config dir path used for Save()
	configDir string
}

// Wallet represents a stored wallet entry.
type Wallet struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Type      string `json:"type"` // "watch-only" | "signing"
	KeyRef    string `json:"key_ref,omitempty"` // keychain reference for signing wallets
	IsDefault bool   `json:"is_default"`
	CreatedAt string `json:"created_at"`
}

// WalletsFile is the structure of wallets.json.
type WalletsFile struct {
	Wallets []Wallet `json:"wallets"`
}
