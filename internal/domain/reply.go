package domain

// Option is a selectable choice offered alongside a reply. Token is a
// short machine-readable identifier that comes back via SelectOption;
// Label is the localized text shown to the user.
type Option struct {
	Label string
	Token string
}

// Reply is the transport-agnostic outbound response of the
// conversation engine. The transport layer decides how to render the
// options (inline keyboard, numbered list, ...).
type Reply struct {
	Text    string
	Options []Option
}
