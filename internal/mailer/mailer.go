package mailer

import "context"

// Mailer delivers login codes out-of-band. The auth flow only depends on
// this interface; delivery mechanics stay behind it.
type Mailer interface {
	SendLoginCode(ctx context.Context, email, code string) error
}
