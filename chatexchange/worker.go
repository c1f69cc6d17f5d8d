package chatexchange

import "context"

// worker is the session's single send loop. It owns lastSent and
// sentCount; everything it does between pop and the post-send cooldown
// is fully serialized, so no two sends are ever in flight at once.
func (c *Client) worker() {
	defer close(c.done)
	c.logger.Info().Msg("Worker reporting for duty.")

	for {
		item := c.queue.pop()
		if item.stop {
			c.logger.Info().Msg("Worker exits.")
			return
		}
		c.sentCount++
		c.logger.Info().
			Int("serving", c.sentCount).
			Str("room_id", item.msg.roomID).
			Str("text", item.msg.text).
			Msg("Now serving.")
		c.deliver(item.msg)
	}
}

// deliver retries one message until the service accepts it. There is no
// attempt cap: transient refusals are expected to clear, and dropping a
// queued message is worse than sending it late.
func (c *Client) deliver(msg pendingMessage) {
	text := msg.text

	// The service collapses a message identical to the previous one; a
	// leading space defeats that without changing the rendering. This
	// composes with the per-attempt trailing space for OutcomeDuplicate,
	// the two guards are independent.
	if c.sentCount > 1 && text == c.lastSent {
		text = " " + text
	}

	for attempt := 1; ; attempt++ {
		c.logger.Debug().Int("attempt", attempt).Msg("Attempt start.")

		var outcome SendOutcome
		body, err := c.browser.PostMessage(context.Background(), msg.roomID, text)
		if err != nil {
			outcome = SendOutcome{Kind: OutcomeUnknown, Raw: err.Error()}
		} else {
			outcome = parseOutcome(body)
		}

		next, wait, done := nextAttempt(outcome, text)
		switch outcome.Kind {
		case OutcomeAccepted:
			c.logger.Debug().Int("attempt", attempt).Dur("wait", wait).Msg("Attempt succeeded.")
		case OutcomeRateLimited:
			c.logger.Debug().Int("attempt", attempt).Int("throttle_seconds", outcome.Wait).Dur("wait", wait).Msg("Attempt denied: throttled.")
		case OutcomeDuplicate:
			c.logger.Debug().Int("attempt", attempt).Dur("wait", wait).Msg("Attempt denied: duplicate.")
		default:
			c.logger.Error().Int("attempt", attempt).Str("raw", outcome.Raw).Dur("wait", wait).Msg("Attempt denied: unknown reason.")
		}

		if done {
			c.lastSent = text
			c.sleep(wait)
			return
		}
		text = next
		c.sleep(wait)
	}
}
