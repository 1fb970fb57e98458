package natsbus

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/jwt/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// authOption picks creds-file auth over a bare NKey seed. It returns nil
// when neither is configured.
func authOption(o Options) (nats.Option, error) {
	switch {
	case o.CredsFile != "":
		data, err := os.ReadFile(o.CredsFile)
		if err != nil {
			return nil, fmt.Errorf("read NATS creds: %w", err)
		}
		return credsOption(data, time.Now())
	case o.NKeySeed != "":
		return nkeyOption(o.NKeySeed)
	default:
		return nil, nil
	}
}

// credsOption validates a .creds file up front so a bad file fails at
// startup instead of on every reconnect.
func credsOption(data []byte, now time.Time) (nats.Option, error) {
	userJWT, err := jwt.ParseDecoratedJWT(data)
	if err != nil {
		return nil, fmt.Errorf("parse creds jwt: %w", err)
	}
	kp, err := jwt.ParseDecoratedUserNKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse creds seed: %w", err)
	}

	claims, err := jwt.DecodeUserClaims(userJWT)
	if err != nil {
		return nil, fmt.Errorf("decode creds jwt: %w", err)
	}
	if claims.Expires > 0 && now.Unix() >= claims.Expires {
		return nil, errors.New("NATS creds jwt has expired")
	}

	pub, err := kp.PublicKey()
	if err != nil {
		return nil, err
	}
	if claims.Subject != pub {
		return nil, errors.New("NATS creds seed does not match the jwt subject")
	}

	return nats.UserJWT(
		func() (string, error) { return userJWT, nil },
		func(nonce []byte) ([]byte, error) { return kp.Sign(nonce) },
	), nil
}

func nkeyOption(seed string) (nats.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid NATS nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, err
	}
	return nats.Nkey(pub, func(nonce []byte) ([]byte, error) {
		return kp.Sign(nonce)
	}), nil
}

// BuildCredsFile formats a user JWT and NKey seed in the standard NATS
// .creds layout.
func BuildCredsFile(jwtToken, nkeySeed string) string {
	return `-----BEGIN NATS USER JWT-----
` + jwtToken + `
------END NATS USER JWT------

************************* IMPORTANT *************************
NKEY Seed printed below can be used to sign and prove identity.
NKEYs are sensitive and should be treated as secrets.

-----BEGIN USER NKEY SEED-----
` + nkeySeed + `
------END USER NKEY SEED------
`
}
