// Package mailer sends transactional notification emails over SMTP.
// Delivery failures are logged and never surfaced to API callers.
package mailer

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/procureconcierge/portalbackend/models"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// RootURL is the public origin of the portal frontend, used to build
	// links inside emails.
	RootURL string
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	root   string
	logger zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		root:   cfg.RootURL,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
}

func (m *Mailer) send(to, subject, htmlBody string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
		return
	}
	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("sent email")
}

// AccountCreated welcomes a newly registered user.
func (m *Mailer) AccountCreated(user *models.User) {
	m.send(user.Email, "Welcome to the Procurement Concierge Program",
		fmt.Sprintf(`<p>Hi,</p>
<p>Your account has been created. You can sign in at <a href="%s/sign-in">%s/sign-in</a> to get started.</p>`, m.root, m.root))
}

// AccountDeactivated notifies a user that their account has been deactivated.
func (m *Mailer) AccountDeactivated(user *models.User) {
	m.send(user.Email, "Your Account Has Been Deactivated",
		`<p>Hi,</p>
<p>Your account has been deactivated. If you believe this was done in error, please contact the program staff.</p>`)
}

// ForgotPassword sends a password reset link carrying the one-time token.
func (m *Mailer) ForgotPassword(user *models.User, token *models.ForgotPasswordToken) {
	link := fmt.Sprintf("%s/reset-password/%s/%s", m.root, token.Token, user.ID.Hex())
	m.send(user.Email, "Reset Your Password",
		fmt.Sprintf(`<p>Hi,</p>
<p>We received a request to reset the password for your account. Click the link below to choose a new password.</p>
<p><a href="%s">Reset my password</a></p>
<p>If you did not make this request, you can safely ignore this email.</p>`, link))
}

// FeedbackReceived forwards submitted feedback to the program's shared inbox.
func (m *Mailer) FeedbackReceived(to string, feedback *models.Feedback) {
	userType := "anonymous"
	if feedback.UserType != nil {
		userType = string(*feedback.UserType)
	}
	m.send(to, "Feedback Received",
		fmt.Sprintf(`<p>New feedback was submitted to the portal.</p>
<p><strong>Rating:</strong> %s<br><strong>User type:</strong> %s</p>
<p>%s</p>`, feedback.Rating, userType, feedback.Text))
}

// DiscoveryDayRegistrationSubmitted notifies program staff that a vendor has
// registered attendees for an RFI's Discovery Day session.
func (m *Mailer) DiscoveryDayRegistrationSubmitted(to string, rfi *models.Rfi, vendor *models.User, response *models.DiscoveryDayResponse) {
	version := rfi.LatestVersion()
	title := ""
	number := ""
	if version != nil {
		title = version.Title
		number = version.RfiNumber
	}
	m.send(to, fmt.Sprintf("Discovery Day Registration Received: %s", number),
		fmt.Sprintf(`<p>%s has registered %d attendee(s) for the Discovery Day session for RFI %s (%s).</p>
<p>View the registration in the <a href="%s/requests-for-information/%s/edit">RFI management page</a>.</p>`,
			vendor.Email, len(response.Attendees), number, title, m.root, rfi.ID.Hex()))
}

// DiscoveryDayRegistrationUpdated notifies program staff that a vendor changed
// an existing Discovery Day registration.
func (m *Mailer) DiscoveryDayRegistrationUpdated(to string, rfi *models.Rfi, vendor *models.User, response *models.DiscoveryDayResponse) {
	version := rfi.LatestVersion()
	number := ""
	if version != nil {
		number = version.RfiNumber
	}
	m.send(to, fmt.Sprintf("Discovery Day Registration Updated: %s", number),
		fmt.Sprintf(`<p>%s has updated their Discovery Day registration for RFI %s. It now lists %d attendee(s).</p>
<p>View the registration in the <a href="%s/requests-for-information/%s/edit">RFI management page</a>.</p>`,
			vendor.Email, number, len(response.Attendees), m.root, rfi.ID.Hex()))
}

// VendorIdeaSubmitted notifies program staff of a new Unsolicited Proposal.
func (m *Mailer) VendorIdeaSubmitted(to string, idea *models.VendorIdea, vendor *models.User) {
	version := idea.LatestVersion()
	title := ""
	if version != nil {
		title = version.Description.Title
	}
	m.send(to, "New Unsolicited Proposal Submitted",
		fmt.Sprintf(`<p>%s has submitted a new Unsolicited Proposal: <strong>%s</strong>.</p>
<p>Review it in the <a href="%s/vendor-ideas/%s/edit">proposal management page</a>.</p>`,
			vendor.Email, title, m.root, idea.ID.Hex()))
}
