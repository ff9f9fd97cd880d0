package entity

// DefaultAppName is used until the shop sets its own name
const DefaultAppName = "StockPilot"

// AppSettings holds shop-wide display settings
type AppSettings struct {
	AppName string `json:"appName"`
	LogoURL string `json:"logoUrl"`
}
