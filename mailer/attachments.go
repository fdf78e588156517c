package mailer

import (
	"fmt"
	"time"

	"lostfound-be/models"

	qrcode "github.com/skip2/go-qrcode"
)

// VerificationText renders the plain-text item summary attached to the
// "send item details" email and handed over at verification.
func VerificationText(item *models.Item) string {
	return fmt.Sprintf(`LOST AND FOUND ITEM VERIFICATION
--------------------------------
Item ID: %s
Title: %s
Category: %s
Description: %s
Location: %s
Date: %s
--------------------------------
To claim this item, please use the Item ID above on the claim form.
Please keep this information secure.
`,
		item.ID.Hex(),
		orNA(item.Title),
		orNA(string(item.Category)),
		orNA(item.Description),
		orNA(item.Location),
		item.Date.Format("2006-01-02"),
	)
}

// VerificationQRContent renders the payload encoded into the pickup QR code.
func VerificationQRContent(item *models.Item) string {
	return fmt.Sprintf(`LOST AND FOUND ITEM VERIFICATION
--------------------------------
Item ID: %s
Title: %s
Category: %s
Date: %s
--------------------------------
This QR code is required to claim this item.
Please keep this QR code secure.
`,
		item.ID.Hex(),
		orNA(item.Title),
		orNA(string(item.Category)),
		time.Now().Format(time.RFC3339),
	)
}

// VerificationQR returns PNG bytes of the pickup-verification QR code.
func VerificationQR(item *models.Item) ([]byte, error) {
	return qrcode.Encode(VerificationQRContent(item), qrcode.Medium, 256)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
