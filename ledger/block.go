package ledger

// Entry kinds recorded by the dealer.
const (
	KindGenesis   = "genesis"
	KindClaim     = "claim"
	KindReshuffle = "reshuffle"
	KindGameEnd   = "game_end"
)

// Entry is one dealer decision.
type Entry struct {
	Kind    string            `json:"kind"`
	Round   int               `json:"round"`
	Seq     uint64            `json:"seq,omitempty"`   // claim submission order
	Player  int               `json:"player"`          // claimant, -1 if none
	Slots   []int             `json:"slots,omitempty"` // slots the claim covered
	Cards   []int             `json:"cards,omitempty"` // cards under those slots
	Verdict string            `json:"verdict,omitempty"`
	Extra   map[string]string `json:"extra,omitempty"`
}

// Block is an Entry sealed into the chain.
type Block struct {
	Index     int    `json:"index"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Entry     Entry  `json:"entry"`
}
