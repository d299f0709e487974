package export

import (
	"context"
	"encoding/json"

	skafka "github.com/damirmikic/ufc-specijal-generator/internal/shared/kafka"
	"github.com/damirmikic/ufc-specijal-generator/pkg/contracts/events"
)

// KafkaPublisher publica SlipExported no tópico configurado, chaveado pelo id da exportação
type KafkaPublisher struct {
	Writer *skafka.Writer
}

func NewKafkaPublisher(w *skafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e events.SlipExported) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return skafka.WriteJSON(ctx, p.Writer, e.ExportID, b)
}
