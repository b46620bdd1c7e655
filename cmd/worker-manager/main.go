// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"freezone-advisor/internal/catalog"
	"freezone-advisor/internal/common/aws"
	"freezone-advisor/internal/common/camunda"
	"freezone-advisor/internal/common/config"
	"freezone-advisor/internal/common/database"
	"freezone-advisor/internal/common/logger"
	"freezone-advisor/internal/common/observability"
	"freezone-advisor/internal/common/openai"
	"freezone-advisor/internal/common/payments"
	"freezone-advisor/internal/common/pinecone"
	"freezone-advisor/internal/common/portal"
	"freezone-advisor/internal/leads"
	"freezone-advisor/internal/matching"
	"freezone-advisor/internal/models"

	es "freezone-advisor/internal/workers/communication/email-send"
	ph "freezone-advisor/internal/workers/crm/portal-handoff"
	clr "freezone-advisor/internal/workers/lead/create-lead-record"
	vr "freezone-advisor/internal/workers/lead/validate-requirements"
	mf "freezone-advisor/internal/workers/matching/match-freezones"
	pp "freezone-advisor/internal/workers/payment/process-payment"
	vpw "freezone-advisor/internal/workers/payment/verify-payment-webhook"
	ap "freezone-advisor/internal/workers/proposal/assemble-proposal"
	ep "freezone-advisor/internal/workers/proposal/enhance-proposal"
)

// activeWorkers holds every opened job worker so shutdown can drain them.
var activeWorkers []*camunda.Worker

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init External Service Clients ---
	openaiClient := openai.NewClient(cfg.Integrations.OpenAI.APIKey, openai.Options{
		BaseURL:        cfg.Integrations.OpenAI.BaseURL,
		EmbeddingModel: cfg.Integrations.OpenAI.EmbeddingModel,
		ChatModel:      cfg.Integrations.OpenAI.ChatModel,
		Timeout:        time.Duration(cfg.Integrations.OpenAI.Timeout) * time.Millisecond,
	})

	pineconeClient := pinecone.NewClient(
		cfg.Integrations.Pinecone.IndexHost,
		cfg.Integrations.Pinecone.APIKey,
		cfg.Integrations.Pinecone.Namespace,
		time.Duration(cfg.Integrations.Pinecone.Timeout)*time.Millisecond,
	)

	portalClient := portal.NewClient(
		cfg.Integrations.Portal.BaseURL,
		cfg.Integrations.Portal.APIKey,
		time.Duration(cfg.Integrations.Portal.Timeout)*time.Millisecond,
	)

	var sesClient *aws.SESClient
	if cfg.Integrations.AWS.SES.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client init failed", zap.Error(err))
		}
	}

	var snsClient *aws.SNSClient
	if cfg.Integrations.AWS.SNS.Enabled {
		snsClient, err = aws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client init failed", zap.Error(err))
		}
	}

	gatewayTimeout := time.Duration(cfg.Payments.Timeout) * time.Millisecond
	gateways := map[string]payments.Gateway{
		models.PaymentMethodCard: payments.NewStripeGateway(
			cfg.Payments.Stripe.BaseURL, cfg.Payments.Stripe.SecretKey, gatewayTimeout),
		models.PaymentMethodPayPal: payments.NewPayPalGateway(
			cfg.Payments.PayPal.BaseURL, cfg.Payments.PayPal.ClientID,
			cfg.Payments.PayPal.ClientSecret, gatewayTimeout),
		models.PaymentMethodCrypto: payments.NewCoinbaseGateway(
			cfg.Payments.Coinbase.BaseURL, cfg.Payments.Coinbase.APIKey, gatewayTimeout),
	}

	webhookSecrets := map[string]string{
		"stripe":   cfg.Payments.Stripe.WebhookSecret,
		"paypal":   cfg.Payments.PayPal.WebhookID,
		"coinbase": cfg.Payments.Coinbase.WebhookSecret,
	}

	zapLog.Info("All external service clients initialized")

	// --- Shared domain services ---
	repo := leads.NewRepository(pg.DB)
	proposalCache := leads.NewProposalCache(redis.Client, time.Duration(cfg.Catalog.CacheTTL)*time.Second)
	searchIndex := catalog.NewSearchIndex(esClient.Client, cfg.Catalog.SearchIndex)

	retriever := matching.NewRetriever(matching.RetrieverDeps{
		Embedder: openaiClient,
		Vectors:  pineconeClient,
		Keywords: searchIndex,
		Logger:   log,
		TopK:     cfg.Catalog.RetrievalTop,
	})

	// --- Register Workers ---

	// 1. Lead intake
	if cfg.Workers[vr.TaskType].Enabled {
		handler := vr.NewHandler(
			&vr.Config{
				Timeout: time.Duration(cfg.Workers[vr.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, vr.TaskType, cfg.Workers[vr.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[clr.TaskType].Enabled {
		handler := clr.NewHandler(
			&clr.Config{
				Timeout: time.Duration(cfg.Workers[clr.TaskType].Timeout) * time.Millisecond,
			},
			repo, log,
		)
		startWorker(zeebeClient, clr.TaskType, cfg.Workers[clr.TaskType], handler.Handle, zapLog)
	}

	// 2. Matching
	if cfg.Workers[mf.TaskType].Enabled {
		handler := mf.NewHandler(
			&mf.Config{
				Timeout: time.Duration(cfg.Workers[mf.TaskType].Timeout) * time.Millisecond,
				TopK:    cfg.Catalog.RetrievalTop,
			},
			retriever, repo, log,
		)
		startWorker(zeebeClient, mf.TaskType, cfg.Workers[mf.TaskType], handler.Handle, zapLog)
	}

	// 3. Proposal
	if cfg.Workers[ap.TaskType].Enabled {
		handler := ap.NewHandler(
			&ap.Config{
				Timeout: time.Duration(cfg.Workers[ap.TaskType].Timeout) * time.Millisecond,
			},
			proposalCache, repo, log,
		)
		startWorker(zeebeClient, ap.TaskType, cfg.Workers[ap.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ep.TaskType].Enabled {
		epCfg := ep.LoadConfig()
		if ms := cfg.Workers[ep.TaskType].Timeout; ms > 0 {
			epCfg.Timeout = time.Duration(ms) * time.Millisecond
		}
		handler := ep.NewHandler(epCfg, openaiClient, proposalCache, log)
		startWorker(zeebeClient, ep.TaskType, cfg.Workers[ep.TaskType], handler.Handle, zapLog)
	}

	// 4. Payments
	if cfg.Workers[pp.TaskType].Enabled {
		ppCfg := pp.LoadConfig()
		if ms := cfg.Workers[pp.TaskType].Timeout; ms > 0 {
			ppCfg.Timeout = time.Duration(ms) * time.Millisecond
		}
		handler := pp.NewHandler(ppCfg, gateways, repo, log)
		startWorker(zeebeClient, pp.TaskType, cfg.Workers[pp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[vpw.TaskType].Enabled {
		var smsPublisher vpw.SMSPublisher
		if snsClient != nil {
			smsPublisher = snsClient
		}
		handler := vpw.NewHandler(
			&vpw.Config{
				Timeout:   time.Duration(cfg.Workers[vpw.TaskType].Timeout) * time.Millisecond,
				Tolerance: 5 * time.Minute,
			},
			webhookSecrets, repo, smsPublisher, log,
		)
		startWorker(zeebeClient, vpw.TaskType, cfg.Workers[vpw.TaskType], handler.Handle, zapLog)
	}

	// 5. Communication & handoff
	if cfg.Workers[es.TaskType].Enabled {
		if sesClient == nil {
			zapLog.Fatal("email-send worker enabled but SES is disabled in config")
		}
		esCfg := es.LoadConfig()
		if ms := cfg.Workers[es.TaskType].Timeout; ms > 0 {
			esCfg.Timeout = time.Duration(ms) * time.Millisecond
		}
		if from := cfg.Integrations.AWS.SES.FromEmail; from != "" {
			esCfg.FromAddress = from
		}
		handler := es.NewHandler(esCfg, sesClient, proposalCache, log)
		startWorker(zeebeClient, es.TaskType, cfg.Workers[es.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ph.TaskType].Enabled {
		phCfg := ph.LoadConfig()
		if ms := cfg.Workers[ph.TaskType].Timeout; ms > 0 {
			phCfg.Timeout = time.Duration(ms) * time.Millisecond
		}
		handler := ph.NewHandler(phCfg, portalClient, repo, log)
		startWorker(zeebeClient, ph.TaskType, cfg.Workers[ph.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range activeWorkers {
		w.Stop()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.JobHandler, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	activeWorkers = append(activeWorkers, camunda.NewWorker(
		client, taskType, wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handlerFunc, log,
	))

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
