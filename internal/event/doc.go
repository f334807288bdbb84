// Package event carries editor notifications between components.
//
// Events are typed values wrapped in Event[T] and published on a Bus under
// a dot-separated topic. Subscribers register a topic pattern (see package
// topic) and are called synchronously, in subscription order, on the
// goroutine that publishes. The selection state machine publishes from the
// editor loop, so handlers observe state changes in the order they happen.
//
// Basic usage:
//
//	bus := event.NewBus()
//	id, _ := bus.Subscribe("selection.*", event.HandlerFunc(func(ctx context.Context, ev any) error {
//		changed := ev.(event.Event[events.SelectionChanged])
//		log.Printf("selection now %s", changed.Payload.New)
//		return nil
//	}))
//	defer bus.Unsubscribe(id)
package event
