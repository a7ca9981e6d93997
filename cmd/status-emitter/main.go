// status-emitter публикует случайные события о смене статуса доставки
// для ручной проверки консьюмера.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
)

type statusEvent struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

var statuses = []string{"PROCESSING", "IN_TRANSIT", "DELIVERED", "CANCELLED"}

func main() {
	brokers := flag.String("brokers", "localhost:9092", "comma-separated kafka brokers")
	topic := flag.String("topic", "delivery-status", "status topic")
	maxID := flag.Int64("max-id", 100, "order ids are drawn from [1, max-id]")
	interval := flag.Duration("interval", 2*time.Second, "delay between events")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	writer := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(*brokers, ",")...),
		Topic:    *topic,
		Balancer: &kafka.Hash{},
	}
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			event := statusEvent{
				OrderID: rand.Int63n(*maxID) + 1,
				Status:  statuses[rand.Intn(len(statuses))],
			}
			data, _ := json.Marshal(event)

			// ключ по заказу, чтобы события одного заказа шли в одну партицию
			key := []byte(strconv.FormatInt(event.OrderID, 10))
			if err := writer.WriteMessages(ctx, kafka.Message{Key: key, Value: data}); err != nil {
				logger.Error("failed to write event", slog.Any("error", err))
				continue
			}
			logger.Info("status event sent", slog.Int64("order_id", event.OrderID), slog.String("status", event.Status))
		case <-ctx.Done():
			return
		}
	}
}
