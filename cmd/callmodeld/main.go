package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mfinn/callmodel/internal/asterisk"
	"github.com/mfinn/callmodel/internal/callmodel"
	"github.com/mfinn/callmodel/internal/config"
	"github.com/mfinn/callmodel/internal/logging"
	"github.com/mfinn/callmodel/internal/publisher"
)

func main() {
	configPath := flag.String("config", "/etc/callmodel/callmodeld.yaml", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "building logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
	}()

	pub, err := publisher.NewMQTTPublisher(publisher.MQTTOptions{
		Broker:   cfg.MQTT.Broker,
		ClientID: cfg.MQTT.ClientID,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		QoS:      byte(cfg.MQTT.QoS),
	})
	if err != nil {
		log.Fatal("connecting to MQTT", zap.Error(err))
	}
	defer pub.Close()
	log.Info("connected to MQTT broker", zap.String("broker", cfg.MQTT.Broker))

	var metrics *callmodel.Metrics
	if cfg.Metrics.Listen != "" {
		metrics = callmodel.NewMetrics(prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Listen, mux); err != nil {
				log.Error("metrics endpoint failed", zap.Error(err))
			}
		}()
		log.Info("metrics endpoint up", zap.String("listen", cfg.Metrics.Listen))
	}

	if err := run(ctx, cfg, pub, metrics, log); err != nil && ctx.Err() == nil {
		log.Fatal("session loop failed", zap.Error(err))
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, pub publisher.Publisher, metrics *callmodel.Metrics, log *zap.Logger) error {
	for {
		err := runSession(ctx, cfg, pub, metrics, log)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			log.Warn("AMI session error, reconnecting in 5s", zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// runSession owns one AMI connection. Call state does not survive a
// reconnect, so the driver and engine are rebuilt per session.
func runSession(ctx context.Context, cfg *config.Config, pub publisher.Publisher, metrics *callmodel.Metrics, log *zap.Logger) error {
	addr := cfg.AMI.Addr()
	log.Info("connecting to AMI", zap.String("addr", addr))

	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("dial AMI: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	reader := bufio.NewReader(conn)

	banner, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading AMI banner: %w", err)
	}
	log.Debug("AMI banner", zap.String("banner", strings.TrimSpace(banner)))

	loginCmd := fmt.Sprintf("Action: Login\r\nUsername: %s\r\nSecret: %s\r\n\r\n", cfg.AMI.Username, cfg.AMI.Secret)
	if _, err := conn.Write([]byte(loginCmd)); err != nil {
		return fmt.Errorf("sending login: %w", err)
	}
	log.Info("AMI authenticated, processing events")

	driver := asterisk.NewDriver(log)
	opts := []callmodel.Option{callmodel.WithLogger(log)}
	if metrics != nil {
		opts = append(opts, callmodel.WithMetrics(metrics))
	}
	modeler := callmodel.New(driver, opts...)
	driver.Bind(modeler)
	modeler.AddListener(newMQTTBridge(ctx, pub, cfg.MQTT.TopicPrefix, log))

	parser := asterisk.NewParser(reader)
	for {
		evt, ok := parser.Next()
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("AMI connection closed")
		}
		driver.HandleEvent(evt)
	}
}
