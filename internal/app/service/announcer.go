package service

import (
	"context"
	"fmt"

	"github.com/bazely/bazely-backend/internal/app/model"
	"github.com/bazely/bazely-backend/pkg/announce"
)

// Announcer posts marketplace events to the social feed. Satisfied by
// *announce.Client; services hold the interface so tests can observe
// or silence announcements.
type Announcer interface {
	Announce(ctx context.Context, text string, mediaIDs ...string) announce.Status
}

const (
	storeDescriptionPreview   = 200
	productDescriptionPreview = 150
)

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func newStoreAnnouncement(store *model.Store) string {
	return fmt.Sprintf(
		"🏪 New Store Alert!\n\n📛 %s\n\n📝 %s\n\n#eCommerce #NewStore",
		store.Name,
		truncate(store.Description, storeDescriptionPreview),
	)
}

func newProductAnnouncement(store *model.Store, product *model.Product) string {
	return fmt.Sprintf(
		"🛍️ New Product Alert!\n\n🏪 Store: %s\n📦 Product: %s\n💰 Price: $%.2f\n\n📝 %s\n\n#eCommerce #NewProduct #Shopping",
		store.Name,
		product.Name,
		product.Price,
		truncate(product.Description, productDescriptionPreview),
	)
}
