package notify

import (
	"context"
	"log"
	"time"
)

// Dispatcher decouples email delivery from request handling: messages are
// queued and a worker goroutine sends them. The response to the caller
// never waits on (or fails because of) a delivery attempt.
type Dispatcher struct {
	mailer Mailer
	queue  chan Message
}

func NewDispatcher(mailer Mailer) *Dispatcher {
	d := &Dispatcher{
		mailer: mailer,
		queue:  make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := d.mailer.Send(ctx, msg); err != nil {
			log.Printf("notify: failed to send %q to %s: %v", msg.Subject, msg.To, err)
		}
		cancel()
	}
}

// Dispatch never blocks: a full queue drops the message with a log line.
func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Println("notify: queue full, dropping message")
	}
}
