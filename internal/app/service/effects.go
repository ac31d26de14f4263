package service

// EffectKind names something the presentation layer must do after a command.
type EffectKind string

const (
	EffectRender      EffectKind = "render"
	EffectPersist     EffectKind = "persist"
	EffectClear       EffectKind = "clear"
	EffectNotify      EffectKind = "notify"
	EffectCartCount   EffectKind = "cart_count"
	EffectAcknowledge EffectKind = "acknowledge"
	EffectRedirect    EffectKind = "redirect"
)

// Effect is a declared consequence of a command. Persistence and notification
// effects have already happened server-side and are reported for the client's
// bookkeeping; render, acknowledge and redirect are instructions.
type Effect struct {
	Kind     EffectKind `json:"kind"`
	Key      string     `json:"key,omitempty"`
	Template string     `json:"template,omitempty"`
	Message  string     `json:"message,omitempty"`
	Count    int        `json:"count,omitempty"`
}

// CartCountNotifier is told about every cart write so open pages can refresh
// their "Cart (N)" badge.
type CartCountNotifier interface {
	PublishCartCount(sessionID string, count int)
}

type noopCartCountNotifier struct{}

func (noopCartCountNotifier) PublishCartCount(string, int) {}
