package currency

// Currency is an entry of the supported currency catalog
type Currency struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	IsCrypto bool   `json:"is_crypto"`
}
