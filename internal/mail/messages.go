package mail

import (
	"fmt"

	"github.com/hrstack/staff-portal-api/internal/models"
)

// WelcomeMessage builds the new-account notice carrying the initial password.
func WelcomeMessage(identity models.Identity, password, portalURL string) (subject, body string) {
	subject = fmt.Sprintf("Welcome to the Staff Portal - %s account created", identity.GetRole())
	body = fmt.Sprintf(`
		<h2>Welcome to the Portal!</h2>
		<p>Dear %s,</p>
		<p>Your %s account has been created successfully. Here are your login details:</p>
		<ul>
			<li><strong>Username:</strong> %s</li>
			<li><strong>Email:</strong> %s</li>
			<li><strong>Password:</strong> %s</li>
			<li><strong>Portal Link:</strong> %s</li>
		</ul>
		<p>Please login and change your password immediately for security purposes.</p>
		<p>Best regards,<br>Portal Team</p>
	`, identity.GetUsername(), identity.GetRole(), identity.GetUsername(), identity.GetEmail(), password, portalURL)
	return subject, body
}

// ResetMessage builds the password-reset email embedding the plaintext token
// in the portal URL.
func ResetMessage(identity models.Identity, token, portalURL string) (subject, body string) {
	resetURL := fmt.Sprintf("%s/reset-password/%s", portalURL, token)

	subject = "Password Reset Request"
	body = fmt.Sprintf(`
		<h2>Password Reset Request</h2>
		<p>Dear %s,</p>
		<p>You have requested to reset your password. Click the link below to reset your password:</p>
		<p><a href="%s">Reset Password</a></p>
		<p>If you didn't request this, please ignore this email.</p>
		<p>This link will expire in 1 hour.</p>
		<p>Best regards,<br>Support Team</p>
	`, identity.GetUsername(), resetURL)
	return subject, body
}
