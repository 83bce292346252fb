package modeltest

import (
	"sync"

	"github.com/procureconcierge/portalbackend/models"
)

// Notifier records notification calls instead of sending mail.
type Notifier struct {
	mu    sync.Mutex
	Calls []string
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) record(call string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Calls = append(n.Calls, call)
}

func (n *Notifier) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.Calls))
	copy(out, n.Calls)
	return out
}

func (n *Notifier) AccountCreated(user *models.User) { n.record("accountCreated:" + user.Email) }

func (n *Notifier) AccountDeactivated(user *models.User) {
	n.record("accountDeactivated:" + user.Email)
}

func (n *Notifier) ForgotPassword(user *models.User, token *models.ForgotPasswordToken) {
	n.record("forgotPassword:" + user.Email)
}

func (n *Notifier) FeedbackReceived(to string, feedback *models.Feedback) {
	n.record("feedbackReceived:" + to)
}

func (n *Notifier) DiscoveryDayRegistrationSubmitted(to string, rfi *models.Rfi, vendor *models.User, response *models.DiscoveryDayResponse) {
	n.record("discoveryDaySubmitted:" + to)
}

func (n *Notifier) DiscoveryDayRegistrationUpdated(to string, rfi *models.Rfi, vendor *models.User, response *models.DiscoveryDayResponse) {
	n.record("discoveryDayUpdated:" + to)
}

func (n *Notifier) VendorIdeaSubmitted(to string, idea *models.VendorIdea, vendor *models.User) {
	n.record("vendorIdeaSubmitted:" + to)
}
