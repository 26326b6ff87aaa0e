package push

import "time"

// Config holds push gateway client configuration.
// GatewayURL defaults to the public Expo push endpoint; self-hosted
// deployments point it at their relay. AccessToken is optional because
// unauthenticated sends are permitted for development projects.
type Config struct {
	GatewayURL       string        `env:"PUSH_GATEWAY_URL" envDefault:"https://exp.host"`
	AccessToken      string        `env:"PUSH_ACCESS_TOKEN"`
	SendBatchSize    int           `env:"PUSH_SEND_BATCH_SIZE" envDefault:"100"`
	ReceiptBatchSize int           `env:"PUSH_RECEIPT_BATCH_SIZE" envDefault:"300"`
	RequestTimeout   time.Duration `env:"PUSH_REQUEST_TIMEOUT" envDefault:"10s"`
}
