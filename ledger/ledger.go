package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrEmpty is returned when the ledger has no blocks.
var ErrEmpty = errors.New("ledger is empty")

type Ledger struct {
	mu     sync.RWMutex
	blocks []Block
}

// New creates a ledger with a genesis block carrying the game id.
// The genesis block has index 0 and previous hash "0".
func New(gameID string) *Ledger {
	l := &Ledger{}
	genesis := Block{
		Index:     0,
		Timestamp: time.Now().UnixNano(),
		PrevHash:  "0",
		Entry: Entry{
			Kind:   KindGenesis,
			Player: -1,
			Extra:  map[string]string{"game_id": gameID},
		},
	}
	genesis.Hash = calculateHash(genesis)
	l.blocks = append(l.blocks, genesis)
	return l
}

// Append seals e into a new block and returns it.
func (l *Ledger) Append(e Entry) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmpty
	}
	latest := l.blocks[len(l.blocks)-1]
	b := Block{
		Index:     latest.Index + 1,
		Timestamp: time.Now().UnixNano(),
		PrevHash:  latest.Hash,
		Entry:     e,
	}
	b.Hash = calculateHash(b)
	if err := validateBlock(b, latest); err != nil {
		return Block{}, fmt.Errorf("invalid block: %w", err)
	}
	l.blocks = append(l.blocks, b)
	return b, nil
}

// Latest returns the most recently appended block.
func (l *Ledger) Latest() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmpty
	}
	return l.blocks[len(l.blocks)-1], nil
}

// Get returns the block at index.
func (l *Ledger) Get(index int) (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.blocks) {
		return Block{}, fmt.Errorf("index %d out of range", index)
	}
	return l.blocks[index], nil
}

func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Blocks returns a copy of the chain.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.blocks)
}

// Entries returns the recorded entries of the given kind, in order.
func (l *Ledger) Entries(kind string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	for _, b := range l.blocks {
		if b.Entry.Kind == kind {
			out = append(out, b.Entry)
		}
	}
	return out
}

// Verify validates the whole chain: the genesis block, then every block's
// index, previous-hash link and own hash.
func (l *Ledger) Verify() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return ErrEmpty
	}
	if l.blocks[0].PrevHash != "0" || l.blocks[0].Entry.Kind != KindGenesis {
		return fmt.Errorf("invalid genesis block")
	}
	if h := calculateHash(l.blocks[0]); h != l.blocks[0].Hash {
		return fmt.Errorf("invalid genesis hash: expected %s, got %s", h, l.blocks[0].Hash)
	}
	for i := 1; i < len(l.blocks); i++ {
		if err := validateBlock(l.blocks[i], l.blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return fmt.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	if expected := calculateHash(current); current.Hash != expected {
		return fmt.Errorf("invalid hash: expected %s, got %s", expected, current.Hash)
	}
	return nil
}

// calculateHash computes the SHA256 of a block's index, timestamp, previous
// hash and JSON-encoded entry.
func calculateHash(b Block) string {
	entry, _ := json.Marshal(b.Entry)
	data := fmt.Sprintf("%d%d%s%s", b.Index, b.Timestamp, b.PrevHash, entry)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
