package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReaderConfig_Defaults(t *testing.T) {
	rc := readerConfig(Config{Brokers: []string{"b:9092"}, Topic: "appointments.confirmed", GroupID: "g"})

	assert.Equal(t, 1<<10, rc.MinBytes)
	assert.Equal(t, 10<<20, rc.MaxBytes)
	assert.Equal(t, time.Second, rc.CommitInterval)
	assert.Equal(t, 250*time.Millisecond, rc.MaxWait)
	assert.Equal(t, "appointments.confirmed", rc.Topic)
	assert.Equal(t, kafka.LastOffset, rc.StartOffset)
	assert.Nil(t, rc.ErrorLogger)
}

func TestReaderConfig_Overrides(t *testing.T) {
	rc := readerConfig(Config{MinBytes: 10, MaxBytes: 20, CommitInterval: 3 * time.Second, MaxWait: time.Second})

	assert.Equal(t, 10, rc.MinBytes)
	assert.Equal(t, 20, rc.MaxBytes)
	assert.Equal(t, 3*time.Second, rc.CommitInterval)
	assert.Equal(t, time.Second, rc.MaxWait)
}

func TestReaderConfig_FromOldestWithLogger(t *testing.T) {
	rc := readerConfig(Config{FromOldest: true, Logger: zap.NewNop()})

	assert.Equal(t, kafka.FirstOffset, rc.StartOffset)
	assert.NotNil(t, rc.ErrorLogger)
}
