package service

import "context"

// Mailer is the outbound-mail collaborator. Implementations embed the raw
// verification token into a link; they must fail loudly when transport
// credentials are absent instead of dropping mail silently.
type Mailer interface {
	// SendVerificationEmail delivers the verification link for rawToken to
	// the given address.
	SendVerificationEmail(ctx context.Context, toAddress, rawToken string) error
}
