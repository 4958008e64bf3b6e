package inbound

import "strings"

// DecryptSeedRequest accepts the field in snake, camel and kebab case; the
// first non-empty one wins.
type DecryptSeedRequest struct {
	EncryptedSeed      string `json:"encrypted_seed"`
	EncryptedSeedCamel string `json:"encryptedSeed"`
	EncryptedSeedKebab string `json:"encrypted-seed"`
}

func (r DecryptSeedRequest) value() string {
	for _, v := range []string{r.EncryptedSeed, r.EncryptedSeedCamel, r.EncryptedSeedKebab} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type DecryptSeedResponse struct {
	Status string `json:"status"`
}

type Generate2FAResponse struct {
	Code     string `json:"code"`
	ValidFor uint64 `json:"valid_for"`
}

type Verify2FARequest struct {
	Code string `json:"code"`
}

type Verify2FAResponse struct {
	Valid bool `json:"valid"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	SeedProvisioned bool   `json:"seed_provisioned"`
}
