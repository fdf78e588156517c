package mailer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lostfound-be/models"

	"github.com/google/uuid"
)

// ErrNotConfigured is returned when no mail transport was set up. Callers
// treat it like any other delivery failure: a warning, never a rollback.
var ErrNotConfigured = errors.New("mail transport not configured")

// Dispatcher renders and delivers claim notifications. Delivery is
// best-effort: errors are returned for the caller to log or attach as a
// warning to an otherwise-successful response. Attachment scratch files are
// removed on every exit path.
type Dispatcher struct {
	sender  Sender
	tempDir string
}

// NewDispatcher wraps a Sender. A nil sender disables delivery; every
// dispatch then returns ErrNotConfigured.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender, tempDir: os.TempDir()}
}

// ClaimReceived confirms to the claimant that their claim entered review.
func (d *Dispatcher) ClaimReceived(item *models.Item) error {
	if d.sender == nil {
		return ErrNotConfigured
	}
	if item.ClaimedBy == nil || item.ClaimedBy.Email == "" {
		return errors.New("item has no claimant email")
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Claim Request Received</h2>
<p>Hello %s,</p>
<p>We received your claim for <strong>%s</strong> (%s). The lost-and-found desk will review it and notify you of the decision.</p>
<p>Item ID: %s</p>
<hr>
<p style="color: #666; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>`,
		item.ClaimedBy.FirstName, item.Title, item.Category, item.ID.Hex())

	return d.sender.Send(item.ClaimedBy.Email, "Claim Request Received", body)
}

// ClaimApproved notifies the claimant of an approved claim and attaches the
// pickup-verification QR code.
func (d *Dispatcher) ClaimApproved(item *models.Item) error {
	if d.sender == nil {
		return ErrNotConfigured
	}
	if item.ClaimedBy == nil || item.ClaimedBy.Email == "" {
		return errors.New("item has no claimant email")
	}

	png, err := VerificationQR(item)
	if err != nil {
		return fmt.Errorf("generating QR code: %w", err)
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Claim Approved</h2>
<p>Hello %s,</p>
<p>Your claim for <strong>%s</strong> has been approved.</p>
<p>Please bring the attached QR code and a photo ID to the lost-and-found desk to pick up your item.</p>
<p>Location reported: %s</p>
<hr>
<p style="color: #666; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>`,
		item.ClaimedBy.FirstName, item.Title, item.Location)

	name := fmt.Sprintf("claim_%s_%s.png", item.ID.Hex(), uuid.NewString())
	return d.withScratchFile(name, png, func(path string) error {
		return d.sender.Send(item.ClaimedBy.Email, "Claim Approved", body, path)
	})
}

// ClaimRejected notifies the claimant of a rejected claim.
func (d *Dispatcher) ClaimRejected(item *models.Item) error {
	if d.sender == nil {
		return ErrNotConfigured
	}
	if item.ClaimedBy == nil || item.ClaimedBy.Email == "" {
		return errors.New("item has no claimant email")
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Claim Not Approved</h2>
<p>Hello %s,</p>
<p>Unfortunately your claim for <strong>%s</strong> could not be verified and has been rejected.</p>
<p>If you believe this is a mistake, please contact the lost-and-found desk with additional proof of ownership.</p>
<hr>
<p style="color: #666; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>`,
		item.ClaimedBy.FirstName, item.Title)

	return d.sender.Send(item.ClaimedBy.Email, "Claim Rejected", body)
}

// ItemDetails sends the standalone item-details email with the plain-text
// summary attached, for verification handoff.
func (d *Dispatcher) ItemDetails(to string, item *models.Item) error {
	if d.sender == nil {
		return ErrNotConfigured
	}

	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #333;">Item Claim Information</h2>
<p>Hello,</p>
<p>You have requested to claim the following item:</p>
<ul>
<li><strong>Item ID:</strong> %s</li>
<li><strong>Item Name:</strong> %s</li>
<li><strong>Category:</strong> %s</li>
<li><strong>Description:</strong> %s</li>
<li><strong>Location:</strong> %s</li>
<li><strong>Date:</strong> %s</li>
</ul>
<p>To claim this item, please use the Item ID above on the claim form.</p>
<p>If you did not request this information, please ignore this email.</p>
<hr>
<p style="color: #666; font-size: 12px;">This is an automated message, please do not reply.</p>
</div>`,
		item.ID.Hex(), orNA(item.Title), orNA(string(item.Category)),
		orNA(item.Description), orNA(item.Location), item.Date.Format("2006-01-02"))

	name := fmt.Sprintf("item_%s_%s.txt", item.ID.Hex(), uuid.NewString())
	return d.withScratchFile(name, []byte(VerificationText(item)), func(path string) error {
		return d.sender.Send(to, "Item Claim Information", body, path)
	})
}

// withScratchFile writes content to a scratch file, runs fn with its path and
// removes the file whether or not fn succeeds.
func (d *Dispatcher) withScratchFile(name string, content []byte, fn func(path string) error) error {
	path := filepath.Join(d.tempDir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("writing attachment file: %w", err)
	}
	defer os.Remove(path)
	return fn(path)
}
