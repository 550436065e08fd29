package repository

import (
	"context"

	"github.com/utafrali/CafeCart/internal/domain"
)

// SlotRepository persists the cart to a single named storage slot shared by
// every context of the site.
type SlotRepository interface {
	// Load reads the slot and returns the cart it holds. An absent slot or
	// one whose content cannot be decoded yields an empty cart, not an
	// error; Load only fails on transport problems.
	Load(ctx context.Context) (domain.Cart, error)

	// Save serializes the full cart and overwrites the slot. This is a
	// full replace: concurrent writers race and the last write wins.
	Save(ctx context.Context, cart domain.Cart) error
}
