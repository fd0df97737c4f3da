package models

// User is the mocked identity held by the session. Any email/name pair is accepted.
type User struct {
	ID            string `json:"id" mapstructure:"id"`
	Email         string `json:"email" mapstructure:"email"`
	Name          string `json:"name" mapstructure:"name"`
	WalletAddress string `json:"walletAddress,omitempty" mapstructure:"walletAddress"`
}
