package chat

import (
	"context"
	"time"
)

// poll is the live refresh loop behind an open chat. Every tick it fetches
// messages newer than the watermark, prints them, and marks the partner's
// messages read. Storage errors are logged and the next tick retries.
//
// The batch runs under the session mutex so the printed screen and the read
// receipts stay consistent with whatever the input loop is doing.
func (s *Session) poll(ctx context.Context, partnerID int64, watermark int64) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		batch, err := s.store.MessagesAfter(s.user.ID, partnerID, watermark)
		if err != nil {
			s.logger.Warn().Err(err).Msg("poll for new messages")
			continue
		}
		if len(batch) == 0 {
			continue
		}

		s.mu.Lock()
		for _, message := range batch {
			s.printMessage(message)

			// Incoming messages are read the moment they hit the screen.
			if message.SenderID == partnerID {
				if err := s.store.MarkMessageRead(message.ID); err != nil {
					s.logger.Warn().Err(err).Int64("message_id", message.ID).Msg("mark message read")
				}
			}

			watermark = message.ID
		}
		s.mu.Unlock()
	}
}
