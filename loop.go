package dolly

import (
	"context"
	"sync"
)

// Loop drives a Page without a terminal. It is what runs the page in a
// browser, where tea.Program cannot run: DOM callbacks Send messages in,
// commands run on their own goroutines and feed their results back, and
// Handle is only ever called from Run's goroutine.
type Loop struct {
	mu   sync.Mutex
	page Page

	msgs chan Msg
	done chan struct{}
	once sync.Once

	// OnUpdate, if set, is called after each message with the new page.
	OnUpdate func(Page)
}

// NewLoop creates a loop around page.
func NewLoop(page Page) *Loop {
	return &Loop{
		page: page,
		msgs: make(chan Msg, 64),
		done: make(chan struct{}),
	}
}

// Send queues msg for the page. It drops msg once the loop has stopped.
func (l *Loop) Send(msg Msg) {
	select {
	case l.msgs <- msg:
	case <-l.done:
	}
}

// Page returns the current page.
func (l *Loop) Page() Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}

// Run starts the page and then applies messages until ctx is cancelled or a
// command returns QuitMsg.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	l.exec(ctx, l.Page().Start())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-l.msgs:
			switch msg := msg.(type) {
			case QuitMsg:
				return nil
			case BatchMsg:
				for _, cmd := range msg {
					l.exec(ctx, cmd)
				}
				continue
			}

			l.mu.Lock()
			next, cmd := l.page.Handle(msg)
			l.page = next
			l.mu.Unlock()

			if l.OnUpdate != nil {
				l.OnUpdate(next)
			}
			l.exec(ctx, cmd)
		}
	}
}

func (l *Loop) exec(ctx context.Context, cmd Cmd) {
	if cmd == nil {
		return
	}
	go func() {
		msg := cmd()
		if msg == nil {
			return
		}
		select {
		case l.msgs <- msg:
		case <-ctx.Done():
		case <-l.done:
		}
	}()
}
