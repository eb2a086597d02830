package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/janael-pinheiro/zwave-sync-golang/pkg/entities"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/flows"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/zwave"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/zwave/driver"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/gateways/zwave/network"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/httpapi"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/logging"
	"github.com/janael-pinheiro/zwave-sync-golang/pkg/utils"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := utils.GetValueFromEnvironmentVariable("ZWAVE_CONFIG_FILEPATH", "zwave_setup.yaml")
	conf, err := utils.LoadZWaveConfig(configPath)
	if err != nil {
		logrus.Fatalln(err)
	}
	logger := logging.NewLogrus(conf.LogLevel, os.Stdout)
	log := logger.Get("main")

	metrics := prometheus.NewRegistry()
	metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	bus, subscriber, closeBus, err := newBus(conf, logger.Get("bus"))
	if err != nil {
		log.Fatalln(err)
	}
	defer closeBus()

	var registrar flows.Registrar
	if conf.Flows.File != "" {
		registrar = flows.NewFileRegistrar(conf.Flows.File, logger.Get("flows"))
	} else {
		log.Warnln("no flows file configured, nodes will not be announced")
	}

	drv, err := newDriver(conf, logger.Get("driver"))
	if err != nil {
		log.Fatalln(err)
	}

	session := zwave.NewSession(drv, registrar, bus, logger.Get("zwave"), metrics)
	if subscriber != nil {
		commands := network.NewCommandSubscriber(subscriber, conf.Topic, session, logger.Get("commands"))
		if err := commands.SubscribeToCommands(); err != nil {
			log.Errorln(err)
		}
	}

	httpSrv := &http.Server{
		Addr:              conf.HTTP.Addr,
		Handler:           httpapi.NewServer(session, metrics).Router(),
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		log.Infoln("http listening on", conf.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorln("http server:", err)
		}
	}()

	go waitForScan(session.Start(conf), time.Duration(conf.ScanTimeoutSec)*time.Second, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Infoln("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Errorln("http shutdown:", err)
	}
	session.Stop()
}

func waitForScan(done <-chan error, timeout time.Duration, log *logrus.Entry) {
	select {
	case err := <-done:
		if err != nil {
			log.Errorln("zwave session failed:", err)
			return
		}
		log.Infoln("zwave network scan complete")
	case <-time.After(timeout):
		log.Warnf("zwave network scan not complete after %v", timeout)
	}
}

func newDriver(conf entities.IntegrationZWaveConfig, log *logrus.Entry) (zwave.Driver, error) {
	if conf.Driver.ReplayFile == "" {
		log.Warnln("no replay script configured, driver will stay idle")
		return driver.NewReplay(nil, log), nil
	}
	return driver.LoadReplay(conf.Driver.ReplayFile, log)
}

// newBus connects the configured transport. Bus and Subscriber are nil
// for kind "none".
func newBus(conf entities.IntegrationZWaveConfig, log *logrus.Entry) (network.Bus, network.Subscriber, func(), error) {
	noop := func() {}
	switch conf.Bus.Kind {
	case entities.BusMQTT:
		m := network.NewMQTT(conf.Bus.URL, conf.Bus.ClientID, conf.Bus.Password, log)
		if err := m.Connect(); err != nil {
			return nil, nil, noop, err
		}
		return m, m, m.Close, nil
	case entities.BusAMQP:
		a := network.NewAMQP(conf.Bus.URL, conf.Bus.Exchange, log)
		if err := a.Start(); err != nil {
			return nil, nil, noop, err
		}
		return a, a, func() { _ = a.Stop() }, nil
	case entities.BusRedis:
		opts, err := redis.ParseURL(conf.Bus.URL)
		if err != nil {
			return nil, nil, noop, errors.Wrap(err, "redis url")
		}
		r := network.NewRedis(redis.NewClient(opts), log)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := r.Ping(ctx); err != nil {
			return nil, nil, noop, errors.Wrap(err, "redis ping")
		}
		return r, r, func() { _ = r.Close() }, nil
	}
	log.Infoln("no bus configured, publications are dropped")
	return nil, nil, noop, nil
}
