/*
Package notify publishes countdown lifecycle events to Redis pub/sub.

A Publisher turns every event a Timer fires into a Message and publishes it
on a Redis channel, so that other processes can follow a countdown without
sharing memory with it.

Basic Usage:

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	p, err := notify.NewPublisher(notify.Config{
		Client:  rdb,
		Channel: "countdown:events",
	})
	if err != nil {
		return err
	}
	if err := p.Attach(timer); err != nil {
		return err
	}

Attach registers the publisher as the handler for every event kind. A
failed publish is reported like any other handler error: it is returned
from the timer operation that fired the event, or passed to the timer's
OnError for ticks.

Encoding:

Messages are JSON by default. EncodingCBOR selects a compact CBOR encoding
with RFC 3339 timestamps. Decode reverses either encoding.
*/
package notify
