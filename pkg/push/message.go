package push

// Message is one outbound push notification addressed to a device token.
type Message struct {
	To       string            `json:"to"`
	Title    string            `json:"title,omitempty"`
	Body     string            `json:"body,omitempty"`
	Data     map[string]string `json:"data,omitempty"`
	Badge    *int              `json:"badge,omitempty"`
	TTL      int               `json:"ttl,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"`
}

// Status of a ticket or receipt reported by the gateway.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Well-known gateway error codes. DeviceNotRegistered is the only code this
// subsystem acts on directly; everything else is logged and ignored.
const (
	ErrorDeviceNotRegistered = "DeviceNotRegistered"
	ErrorMessageTooBig       = "MessageTooBig"
	ErrorMessageRateExceeded = "MessageRateExceeded"
	ErrorInvalidCredentials  = "InvalidCredentials"
)

// ErrorDetails carries the machine-readable error code of a failed ticket or
// receipt.
type ErrorDetails struct {
	Error string `json:"error,omitempty"`
}

// Ticket is the synchronous per-message acknowledgment returned by the
// gateway on send. An ok ticket carries the id used to fetch the delivery
// receipt later; an error ticket carries the failure classification.
type Ticket struct {
	ID      string        `json:"id,omitempty"`
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// PermanentFailure reports whether the ticket carries a permanent failure:
// the destination endpoint is gone and its token should be disabled.
func (t Ticket) PermanentFailure() bool {
	return t.Status == StatusError && t.Details != nil && t.Details.Error == ErrorDeviceNotRegistered
}

// Receipt is the asynchronous per-message delivery outcome, fetched by ticket
// id. Some permanent failures only surface here, after the gateway accepted
// the message.
type Receipt struct {
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// PermanentFailure reports whether the receipt carries a permanent failure.
func (r Receipt) PermanentFailure() bool {
	return r.Status == StatusError && r.Details != nil && r.Details.Error == ErrorDeviceNotRegistered
}

// TicketResult pairs a ticket with the token its message was addressed to.
// The pairing is preserved across chunk boundaries, because the gateway's
// response ordering only holds within a single request.
type TicketResult struct {
	Token  string `json:"token"`
	Ticket Ticket `json:"ticket"`
}
