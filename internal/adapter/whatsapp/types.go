package whatsapp

// Notification mirrors the Cloud API webhook payload, trimmed to the fields
// the bot reads. Unknown fields are ignored on purpose: the platform adds new
// ones without notice.
type Notification struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

// Message is one inbound customer message. Text is nil for media types.
type Message struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

// BusinessAccountObject is the payload object type this bot subscribes to.
const BusinessAccountObject = "whatsapp_business_account"

// FlattenMessages collects every message across entries and changes, in
// payload order.
func (n *Notification) FlattenMessages() []Message {
	var out []Message
	for _, e := range n.Entry {
		for _, c := range e.Changes {
			out = append(out, c.Value.Messages...)
		}
	}
	return out
}

// Body returns the text body, or "" for non-text messages.
func (m Message) Body() string {
	if m.Text == nil {
		return ""
	}
	return m.Text.Body
}
