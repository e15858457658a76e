package utils

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/jptandoc/turo_backend/models"
)

const referenceLength = 10
const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateWithdrawalReference returns a short human-readable code that is
// unique across tutor_withdrawals, for use on payout reports and support
// tickets. Ambiguous characters (0/O, 1/I) are excluded.
func GenerateWithdrawalReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, referenceLength)
		for i := range b {
			b[i] = referenceAlphabet[seededRand.Intn(len(referenceAlphabet))]
		}
		code := string(b)

		var existing models.TutorWithdrawal
		err := tx.Where("reference = ?", code).First(&existing).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
