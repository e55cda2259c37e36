package producer

import (
	"testing"
)

func TestNewProducerValidation(t *testing.T) {
	tests := []struct {
		name    string
		brokers string
		topic   string
		wantErr bool
	}{
		{name: "empty brokers", brokers: "", topic: "alert.changed", wantErr: true},
		{name: "empty topic", brokers: "localhost:9092", topic: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProducer(tt.brokers, tt.topic)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewProducer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
