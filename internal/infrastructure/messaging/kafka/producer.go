package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/YouSangSon/admin-backoffice/internal/domain/repository"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/logger"
	"github.com/YouSangSon/admin-backoffice/internal/pkg/metrics"
)

// ProducerConfig는 프로듀서 설정입니다
type ProducerConfig struct {
	Brokers    []string
	ClientID   string
	AuditTopic string
	UseAsync   bool
}

// Producer는 Kafka 프로듀서입니다
type Producer struct {
	producer sarama.SyncProducer
	async    sarama.AsyncProducer
	config   *ProducerConfig
}

// NewProducer는 새로운 Kafka 프로듀서를 생성합니다
func NewProducer(cfg *ProducerConfig) (*Producer, error) {
	config := sarama.NewConfig()
	config.ClientID = cfg.ClientID
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Version = sarama.V3_6_0_0

	p := &Producer{config: cfg}

	var err error
	if cfg.UseAsync {
		p.async, err = sarama.NewAsyncProducer(cfg.Brokers, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create async producer: %w", err)
		}
		go p.handleAsyncResults()
	} else {
		p.producer, err = sarama.NewSyncProducer(cfg.Brokers, config)
		if err != nil {
			return nil, fmt.Errorf("failed to create sync producer: %w", err)
		}
	}

	logger.Info(context.Background(), "kafka producer initialized",
		logger.Field("brokers", cfg.Brokers),
		logger.Field("client_id", cfg.ClientID),
		logger.Field("async", cfg.UseAsync),
	)

	return p, nil
}

// publish는 메시지를 토픽으로 전송합니다
func (p *Producer) publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     topic,
		Key:       sarama.StringEncoder(key),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
	}

	if p.config.UseAsync {
		p.async.Input() <- msg
		return nil
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}

	logger.Debug(ctx, "event published",
		logger.Field("topic", topic),
		logger.Field("key", key),
		logger.Field("partition", partition),
		logger.Field("offset", offset),
	)
	return nil
}

// handleAsyncResults는 비동기 프로듀서의 결과를 처리합니다
func (p *Producer) handleAsyncResults() {
	for {
		select {
		case success, ok := <-p.async.Successes():
			if !ok {
				return
			}
			logger.Debug(context.Background(), "async event published",
				logger.Field("topic", success.Topic),
				logger.Field("partition", success.Partition),
				logger.Field("offset", success.Offset),
			)

		case err, ok := <-p.async.Errors():
			if !ok {
				return
			}
			logger.Error(context.Background(), "async publish failed",
				logger.Field("topic", err.Msg.Topic),
				zap.Error(err.Err),
			)
		}
	}
}

// Close는 프로듀서를 종료합니다
func (p *Producer) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	if p.async != nil {
		return p.async.Close()
	}
	return nil
}

// AuditPublisher는 변경 작업 감사 이벤트를 admin.audit 토픽으로 발행합니다
type AuditPublisher struct {
	producer *Producer
	topic    string
	metrics  *metrics.Metrics
}

// NewAuditPublisher는 새로운 감사 이벤트 발행자를 생성합니다
func NewAuditPublisher(producer *Producer, topic string) *AuditPublisher {
	return &AuditPublisher{
		producer: producer,
		topic:    topic,
		metrics:  metrics.GetMetrics(),
	}
}

// Publish는 감사 이벤트를 발행합니다
func (a *AuditPublisher) Publish(ctx context.Context, event repository.AuditEvent) error {
	err := a.producer.publish(ctx, a.topic, event.Resource, event)

	status := "success"
	if err != nil {
		status = "error"
	}
	a.metrics.RecordAuditEvent(event.Action, event.Resource, status)
	return err
}

// Close는 발행자를 종료합니다
func (a *AuditPublisher) Close() error {
	return a.producer.Close()
}
