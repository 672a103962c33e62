package botservice

import (
	"strconv"
	"strings"

	"whats-my-order/internal/domain/conversation"
	"whats-my-order/internal/domain/orders"
)

// submitLiteral closes item collection. It is state-local, not a global
// command: sent in any other state it goes through normal dispatch.
const submitLiteral = "listo"

// startTriggers open the conversation from init; matched as case-insensitive substrings.
var startTriggers = []string{"hola", "buenas", "empezar"}

// result is the outcome of dispatching one inbound message. Handlers fill it
// from a cloned session; the caller commits the session first and performs the
// side effects (persist, publish, send) afterwards, best-effort.
type result struct {
	next          *conversation.Session // session to save; ignored when deleteSession
	deleteSession bool                  // cancellation: remove the stored session entirely
	replies       []string              // outbound texts, in emission order
	order         *orders.Order         // set exactly when finalization happened
}

// handlerFunc handles one message for one state. The session passed in is a
// clone; mutating it never affects the stored session until commit.
type handlerFunc func(s *Service, sess *conversation.Session, text string) *result

// handlers is the closed dispatch table: exactly one handler per state.
// stateHandlersComplete (tests) asserts it covers conversation.All.
var handlers = map[conversation.State]handlerFunc{
	conversation.StateInit:            (*Service).handleInit,
	conversation.StateBrowsingCatalog: (*Service).handleBrowsingCatalog,
	conversation.StateCollectingItems: (*Service).handleCollectingItems,
	conversation.StateConfirmingOrder: (*Service).handleConfirmingOrder,
	conversation.StateCapturingData:   (*Service).handleCapturingData,
	conversation.StateFinalized:       (*Service).handleFinalized,
}

func isStartTrigger(text string) bool {
	lowered := strings.ToLower(text)
	for _, trigger := range startTriggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}

// handleInit is deliberately sticky: unrecognized input never errors, it re-prompts.
func (s *Service) handleInit(sess *conversation.Session, text string) *result {
	if isStartTrigger(text) {
		sess.State = conversation.StateBrowsingCatalog
		return &result{next: sess, replies: []string{msgWelcome, msgMenu}}
	}
	return &result{next: sess, replies: []string{msgInitPrompt}}
}

func (s *Service) handleBrowsingCatalog(sess *conversation.Session, text string) *result {
	switch normalize(text) {
	case "1", "catalogo", "ver catalogo":
		// entering collection always starts from an empty cart
		sess.ClearCart()
		sess.State = conversation.StateCollectingItems
		return &result{next: sess, replies: []string{catalogListing(s.catalog.List()), msgItemInstructions}}

	case "2", "promociones":
		sess.State = conversation.StateInit
		return &result{next: sess, replies: []string{msgPromos, msgInitPrompt}}

	case "3", "asesor":
		sess.State = conversation.StateInit
		return &result{next: sess, replies: []string{msgAdvisor, msgInitPrompt}}

	default:
		sess.State = conversation.StateInit
		return &result{next: sess, replies: []string{msgDidNotUnderstand, msgInitPrompt}}
	}
}

func (s *Service) handleCollectingItems(sess *conversation.Session, text string) *result {
	if normalize(text) == submitLiteral {
		if len(sess.Cart) == 0 {
			return &result{next: sess, replies: []string{msgCartEmpty}}
		}
		sess.Total = sess.CartTotal()
		sess.State = conversation.StateConfirmingOrder
		return &result{next: sess, replies: []string{cartSummary(sess), msgConfirmOptions}}
	}

	fields := strings.Fields(text)
	if len(fields) != 2 {
		return &result{next: sess, replies: []string{msgFormatError}}
	}
	qty, err := strconv.Atoi(fields[1])
	if err != nil || qty <= 0 {
		return &result{next: sess, replies: []string{msgFormatError}}
	}

	entry, ok := s.catalog.Lookup(fields[0])
	if !ok {
		return &result{next: sess, replies: []string{msgInvalidCode}}
	}

	// last write wins: repeating a code replaces its quantity
	line := conversation.CartLine{
		ProductCode: entry.Code,
		DisplayName: entry.Name,
		UnitPrice:   entry.Price, // snapshot; later catalog changes do not touch this cart
		Quantity:    qty,
	}
	sess.UpsertLine(line)
	return &result{next: sess, replies: []string{itemAck(line)}}
}

func (s *Service) handleConfirmingOrder(sess *conversation.Session, text string) *result {
	switch normalize(text) {
	case "1", "confirmar":
		sess.State = conversation.StateCapturingData
		return &result{next: sess, replies: []string{msgDataInstructions}}

	case "2", "modificar":
		// cart is preserved, not cleared
		sess.State = conversation.StateCollectingItems
		return &result{next: sess, replies: []string{msgItemInstructions}}

	case "3":
		// same behavior as the global cancel command
		return s.cancelResult()

	case "4":
		// same behavior as the global menu command
		return s.menuResult(sess.CustomerID, text)

	default:
		return &result{next: sess, replies: []string{msgInvalidOption}}
	}
}

func (s *Service) handleCapturingData(sess *conversation.Session, text string) *result {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	// the record is all-or-nothing: no partial capture
	if len(lines) < 4 {
		return &result{next: sess, replies: []string{msgMissingData}}
	}

	sess.Customer = &conversation.Customer{
		Name:          lines[0],
		Address:       lines[1],
		Phone:         lines[2],
		PaymentMethod: lines[3],
		CapturedAt:    s.now(),
	}
	sess.OrderID = buildOrderID(sess)
	order := buildOrder(sess, s.now())
	sess.State = conversation.StateFinalized

	return &result{next: sess, replies: []string{receipt(order)}, order: order}
}

// handleFinalized treats any further input as a fresh init dispatch, so the
// customer can start a new order immediately. The old cart is never resurrected.
func (s *Service) handleFinalized(sess *conversation.Session, text string) *result {
	return s.handleInit(conversation.NewSession(sess.CustomerID), text)
}

// normalize lowercases and trims the whole message for literal matching.
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
