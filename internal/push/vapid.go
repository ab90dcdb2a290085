package push

import (
	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"webpush_demo/internal/config"
)

// Keys is the VAPID identity used to sign every push request. It is fixed
// once the process has started.
type Keys struct {
	PublicKey  string `json:"publicKey" yaml:"publicKey"`
	PrivateKey string `json:"privateKey" yaml:"privateKey"`
}

func (k Keys) Configured() bool {
	return k.PublicKey != "" && k.PrivateKey != ""
}

func GenerateKeys() (Keys, error) {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return Keys{}, errors.Wrap(err, "generate vapid keys")
	}
	return Keys{PublicKey: publicKey, PrivateKey: privateKey}, nil
}

// NewKeys returns the configured keypair, or a freshly generated one when
// neither half is configured.
func NewKeys(cfg *config.Config, logger *zap.Logger) (Keys, error) {
	keys := Keys{PublicKey: cfg.VAPIDPublicKey, PrivateKey: cfg.VAPIDPrivateKey}
	if keys.Configured() {
		return keys, nil
	}
	if keys.PublicKey != "" || keys.PrivateKey != "" {
		return Keys{}, errors.New("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY must be set together")
	}
	keys, err := GenerateKeys()
	if err != nil {
		return Keys{}, err
	}
	logger.Warn("VAPID keys not configured, generated an ephemeral keypair",
		zap.String("vapid_public_key", keys.PublicKey),
	)
	return keys, nil
}
