package pipeline

import (
	"context"

	"github.com/wardpost/wardpost/internal/mailparse"
)

// MailSource delivers retrieved mail messages. Mail-protocol retrieval
// lives outside this module; implementations wrap whatever IMAP or API
// client the deployment uses.
type MailSource interface {
	FetchMessages(ctx context.Context) ([]mailparse.Message, error)
}
