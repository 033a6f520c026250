package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"scratch-tracker/internal/logger"
)

// EnsureTopicsExist creates the given topics if the broker does not already
// have them. Failures are reported but do not stop the remaining topics.
func EnsureTopicsExist(brokers []string, topics []string, log *logger.Logger) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", controller.Host)
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	for _, topic := range topics {
		err = controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		if err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			log.Warn("KAFKA", "Failed to create topic "+topic+": "+err.Error())
			continue
		}
		log.Info("KAFKA", "Created topic: "+topic)
	}

	// Give the broker a moment to settle newly created topics
	time.Sleep(1 * time.Second)
	return nil
}
