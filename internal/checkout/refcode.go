package checkout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-shop-server/internal/models"

	"gorm.io/gorm"
)

// nextReferenceCode issues the next human-readable order reference for
// the current year, e.g. REF-2026-000412. The sequence resets each
// calendar year and starts at 000001.
//
// The latest-code read is locked FOR UPDATE so two concurrent checkouts
// cannot compute the same sequence number; the unique index on
// reference_code backstops it.
func nextReferenceCode(tx *gorm.DB, now time.Time) (string, error) {
	year := now.Year()
	prefix := fmt.Sprintf("REF-%d-", year)

	// Suffixes grow past six digits once a year's sequence tops 999999,
	// so order by length before value; a plain lexicographic sort would
	// put 1000000 below 999999 and stall the sequence.
	var last models.Transaction
	err := lockForUpdate(tx).
		Where("reference_code LIKE ?", prefix+"%").
		Order("LENGTH(reference_code) DESC, reference_code DESC").
		First(&last).Error

	next := 1
	if err == nil {
		n, perr := strconv.Atoi(strings.TrimPrefix(last.ReferenceCode, prefix))
		if perr != nil {
			return "", fmt.Errorf("malformed reference code %q: %w", last.ReferenceCode, perr)
		}
		next = n + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	return fmt.Sprintf("%s%06d", prefix, next), nil
}
