package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// writeOnce stores a create-only marker together with an optional gold
// change in one MultiUpdate. It returns false when the marker already exists.
func writeOnce(ctx context.Context, nk runtime.NakamaModule, collection, key, userID string, marker map[string]interface{}, gold int64, metadata map[string]interface{}) (bool, error) {
	value, err := json.Marshal(marker)
	if err != nil {
		return false, fmt.Errorf("failed to marshal %s marker: %w", collection, err)
	}

	storageWrites := []*runtime.StorageWrite{
		{
			Collection:      collection,
			Key:             key,
			UserID:          userID,
			Value:           string(value),
			Version:         "*",
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	}

	var walletUpdates []*runtime.WalletUpdate
	if gold != 0 {
		walletUpdates = append(walletUpdates, &runtime.WalletUpdate{
			UserID:    userID,
			Changeset: map[string]int64{walletCurrencyGold: gold},
			Metadata:  metadata,
		})
	}

	if _, _, err := nk.MultiUpdate(ctx, nil, storageWrites, nil, walletUpdates, true); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
