package extractions

import (
	"context"
	"fmt"
	"io"

	"talent-backend/internal/shared/storage/object"
)

const maxRawTextBytes = 5 << 20

func loadText(ctx context.Context, store object.ObjectStore, storageKey string) (string, error) {
	rc, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("open raw text key=%s: %w", storageKey, err)
	}
	defer rc.Close()

	limited := io.LimitReader(rc, maxRawTextBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("read raw text key=%s: %w", storageKey, err)
	}
	if int64(len(data)) > maxRawTextBytes {
		return "", fmt.Errorf("raw text too large: %d bytes", len(data))
	}
	return string(data), nil
}
