package conversation

// State is a custom type that represents the conversation state of a customer session.
type State string

const (
	// StateInit is the entry state: re-prompts on anything but a start trigger.
	StateInit State = "init"
	// StateBrowsingCatalog is the main menu: the customer picks an option.
	StateBrowsingCatalog State = "browsing_catalog"
	// StateCollectingItems accepts "<code> <quantity>" lines or the submit literal.
	StateCollectingItems State = "collecting_items"
	// StateConfirmingOrder shows the cart summary and waits for one of four options.
	StateConfirmingOrder State = "confirming_order"
	// StateCapturingData waits for the four customer data lines.
	StateCapturingData State = "capturing_customer_data"
	// StateFinalized is terminal for the order; further input re-dispatches as init.
	StateFinalized State = "finalized"
)

// All lists every member of the closed state set, in lifecycle order.
var All = []State{
	StateInit,
	StateBrowsingCatalog,
	StateCollectingItems,
	StateConfirmingOrder,
	StateCapturingData,
	StateFinalized,
}

// Valid reports whether s is a member of the closed state set.
func (s State) Valid() bool {
	switch s {
	case StateInit, StateBrowsingCatalog, StateCollectingItems,
		StateConfirmingOrder, StateCapturingData, StateFinalized:
		return true
	}
	return false
}
