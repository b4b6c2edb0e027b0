package scheduler

import (
	"log"
	"os"
	"time"

	"go-shop-server/internal/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Reconciler restores base prices when time-bounded discounts lapse.
// It compensates for the discount-apply flow, which mutates product
// prices and records the originals in product_price_logs.
type Reconciler struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{DB: db, Now: time.Now}
}

// Run performs one reconciliation tick: every discount whose window has
// closed but is still flagged active gets its products' prices restored
// from the price log, then is deactivated. A discount that fails is
// logged and left active so the next tick retries it.
//
// Running twice with no newly expired discounts is a no-op: a restored
// discount is inactive and no longer matches the query.
func (r *Reconciler) Run() error {
	now := r.Now()

	var expired []models.Discount
	if err := r.DB.Where("end_date < ? AND is_active = ?", now, true).Find(&expired).Error; err != nil {
		return err
	}

	for _, d := range expired {
		if err := r.restore(d); err != nil {
			log.Printf("[CRON] Failed to restore prices for discount %d (%s): %v", d.ID, d.Name, err)
		}
	}
	return nil
}

// restore handles one expired discount in its own transaction, so a
// failure on one discount never leaves another half-restored.
func (r *Reconciler) restore(d models.Discount) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var logs []models.ProductPriceLog
		if err := tx.Where("discount_id = ?", d.ID).Find(&logs).Error; err != nil {
			return err
		}

		for _, entry := range logs {
			err := tx.Model(&models.Product{}).
				Where("id = ?", entry.ProductID).
				Updates(map[string]interface{}{
					"price":   entry.OriginalPrice,
					"on_sale": false,
				}).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&models.Discount{}).
			Where("id = ?", d.ID).
			Update("is_active", false).Error
	})
}

// Start schedules the reconciler on a fixed interval (default every 5
// minutes, overridable via DISCOUNT_RECONCILE_INTERVAL). Ticks are
// single-flight: if a run is still going when the next fires, the next
// is skipped, never run concurrently against the same discount rows.
func Start(db *gorm.DB) *cron.Cron {
	interval := os.Getenv("DISCOUNT_RECONCILE_INTERVAL")
	if interval == "" {
		interval = "5m"
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	rec := NewReconciler(db)
	_, err := c.AddFunc("@every "+interval, func() {
		log.Println("[CRON] Checking and restoring expired discounts...")
		if err := rec.Run(); err != nil {
			log.Printf("[CRON] Discount reconciliation failed: %v", err)
		}
	})
	if err != nil {
		log.Fatal("Invalid reconciler interval:", err)
	}

	c.Start()
	return c
}
