package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/memberdir/apiserver/internal/mq"
	"github.com/memberdir/apiserver/types"
)

const publishTimeout = 5 * time.Second

// Publisher records member changes on an audit channel.
type Publisher interface {
	MemberChanged(ctx context.Context, kind string, member types.Member, actor string)
}

// Broker publishes member events through a message broker. Publishing is
// best-effort: a broker failure is logged, never surfaced to the caller,
// and never rolls back the store operation it describes.
type Broker struct {
	backend mq.Backend
	channel string
}

// NewBroker constructs a Broker publishing to the named channel.
func NewBroker(backend mq.Backend, channel string) *Broker {
	return &Broker{backend: backend, channel: channel}
}

func (b *Broker) MemberChanged(ctx context.Context, kind string, member types.Member, actor string) {
	event := types.MemberEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		MemberID:   member.MemberID,
		Name:       member.Name,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("audit: encode %s event: %v", kind, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	attrs := map[string]string{"kind": kind}
	if _, err := b.backend.Publish(ctx, b.channel, data, attrs); err != nil {
		log.Printf("audit: publish %s event: %v", kind, err)
	}
}

// Close closes the underlying broker connection.
func (b *Broker) Close() error {
	return b.backend.Close()
}

// Nop discards all events. Used when no events backend is configured.
type Nop struct{}

func (Nop) MemberChanged(context.Context, string, types.Member, string) {}
