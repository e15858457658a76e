package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/jptandoc/turo_backend/database"
	"github.com/jptandoc/turo_backend/models"
	"github.com/jptandoc/turo_backend/notifications"
)

// RemindPendingWithdrawals nudges ops about withdrawal requests that have
// been sitting in pending for more than 48 hours.
func RemindPendingWithdrawals() {
	log.Println("Running job: RemindPendingWithdrawals...")

	cutoff := time.Now().Add(-48 * time.Hour)

	var pendingWithdrawals []models.TutorWithdrawal
	err := database.DB.
		Where("status = ? AND requested_at < ?", models.WithdrawalStatusPending, cutoff).
		Order("requested_at asc").
		Find(&pendingWithdrawals).Error
	if err != nil {
		log.Printf("Error checking pending withdrawals: %v", err)
		return
	}

	if len(pendingWithdrawals) == 0 {
		log.Println("No overdue pending withdrawals.")
		return
	}

	body := fmt.Sprintf("<h1>Pending Withdrawals</h1><p>%d withdrawal request(s) have been pending for over 48 hours:</p><ul>", len(pendingWithdrawals))
	for _, w := range pendingWithdrawals {
		body += fmt.Sprintf("<li>%s — %.2f %s (requested %s)</li>", w.Reference, w.Amount, w.Currency, w.RequestedAt.Format("2006-01-02 15:04"))
	}
	body += "</ul>"

	go notifications.NotifyOps("Withdrawal Requests Awaiting Review", body)

	log.Printf("Notified ops about %d overdue withdrawal(s).", len(pendingWithdrawals))
}
