package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/CafeCart/internal/domain"
)

// DefaultSlotKey is the storage slot name every page of the site reads.
const DefaultSlotKey = "cafeCart"

// envelopeVersion is written with every save. Slots written before
// versioning existed hold a bare JSON array and are treated as version 0.
const envelopeVersion = 1

// envelope is the versioned on-wire record stored in the slot.
type envelope struct {
	Version int               `json:"version"`
	Items   []domain.LineItem `json:"items"`
}

// SlotRepository implements repository.SlotRepository on a single Redis key.
type SlotRepository struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewSlotRepository creates a Redis-backed slot repository. An empty key
// falls back to DefaultSlotKey.
func NewSlotRepository(client *redis.Client, key string, logger *slog.Logger) *SlotRepository {
	if key == "" {
		key = DefaultSlotKey
	}
	return &SlotRepository{
		client: client,
		key:    key,
		logger: logger,
	}
}

// Key returns the slot name this repository reads and writes.
func (r *SlotRepository) Key() string {
	return r.key
}

// Load reads the slot. An absent key or unreadable payload yields an empty
// cart: the store self-heals by discarding corrupt state rather than
// propagating a decode failure to every page load.
func (r *SlotRepository) Load(ctx context.Context) (domain.Cart, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return domain.Cart{Items: []domain.LineItem{}}, nil
		}
		return domain.Cart{}, fmt.Errorf("redis get slot %q: %w", r.key, err)
	}

	items, ok := decodeSlot(data)
	if !ok {
		r.logger.Warn("discarding unreadable cart slot",
			slog.String("key", r.key),
			slog.Int("bytes", len(data)),
		)
		return domain.Cart{Items: []domain.LineItem{}}, nil
	}

	return domain.Cart{Items: items}, nil
}

// Save overwrites the slot with the full serialized cart. No merge logic
// exists; two contexts that both read-modify-write without an intervening
// reload lose one of the two updates (last writer wins).
func (r *SlotRepository) Save(ctx context.Context, cart domain.Cart) error {
	items := cart.Items
	if items == nil {
		items = []domain.LineItem{}
	}

	data, err := json.Marshal(envelope{Version: envelopeVersion, Items: items})
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set slot %q: %w", r.key, err)
	}

	return nil
}

// decodeSlot accepts both slot formats: the versioned envelope and the
// legacy bare array written by older pages (version 0). Returns false when
// the payload is neither.
func decodeSlot(data []byte) ([]domain.LineItem, bool) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Items != nil {
		return env.Items, true
	}

	var legacy []domain.LineItem
	if err := json.Unmarshal(data, &legacy); err == nil {
		if legacy == nil {
			legacy = []domain.LineItem{}
		}
		return legacy, true
	}

	return nil, false
}
