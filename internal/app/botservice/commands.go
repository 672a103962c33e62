package botservice

import (
	"whats-my-order/internal/domain/conversation"
)

// Global commands, honored in every state before state dispatch. Matching is
// an exact comparison against the whole normalized message, so a single-token
// command never collides with the two-token item-line grammar.
const (
	cmdMenu     = "menu"
	cmdCancel   = "cancelar"
	cmdCancelEN = "cancel"
	cmdHelp     = "ayuda"
	cmdHelpEN   = "help"
)

// intercept short-circuits state dispatch for global commands. The returned
// bool reports whether the message was consumed.
func (s *Service) intercept(sess *conversation.Session, text string) (*result, bool) {
	switch normalize(text) {
	case cmdMenu:
		return s.menuResult(sess.CustomerID, text), true
	case cmdCancel, cmdCancelEN:
		return s.cancelResult(), true
	case cmdHelp, cmdHelpEN:
		// session unchanged
		return &result{next: sess, replies: []string{msgHelp}}, true
	}
	return nil, false
}

// menuResult resets the session to init and immediately runs the init handler.
func (s *Service) menuResult(customerID, text string) *result {
	return s.handleInit(conversation.NewSession(customerID), text)
}

// cancelResult deletes the session entirely; the next message from this
// customer is processed as if from a brand-new customer.
func (s *Service) cancelResult() *result {
	return &result{deleteSession: true, replies: []string{msgCancelled}}
}
