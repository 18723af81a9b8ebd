package entities

import (
	"fmt"
	"time"
)

// BatchInfo holds batch metadata used for expiration ordering
type BatchInfo struct {
	ID             BatchID
	ProductID      ProductID
	Number         string
	ExpirationDate time.Time // zero when unknown
}

// NewBatchInfo creates a validated BatchInfo
func NewBatchInfo(id BatchID, productID ProductID, number string, expirationDate time.Time) (*BatchInfo, error) {
	if id == "" {
		return nil, fmt.Errorf("batch id cannot be empty")
	}
	if productID == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}

	return &BatchInfo{
		ID:             id,
		ProductID:      productID,
		Number:         number,
		ExpirationDate: expirationDate,
	}, nil
}

// HasExpiration reports whether an expiration date is known
func (b BatchInfo) HasExpiration() bool {
	return !b.ExpirationDate.IsZero()
}
