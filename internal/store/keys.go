package store

// Fixed keys. Backends prefix them with the configured namespace.
const (
	PetitionsKey = "petitions"
	UserKey      = "user"
	OutcomesKey  = "outcomes"
)

// SignedKey flags that userID signed petitionID. Value is "true".
func SignedKey(petitionID, userID string) string {
	return "signed_" + petitionID + "_" + userID
}

// TxKey holds the mock transaction id of userID's signature on petitionID.
func TxKey(petitionID, userID string) string {
	return "tx_" + petitionID + "_" + userID
}

// VotedKey holds userID's vote direction on outcomeID.
func VotedKey(outcomeID, userID string) string {
	return "voted_" + outcomeID + "_" + userID
}
