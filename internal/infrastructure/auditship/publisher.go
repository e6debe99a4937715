package auditship

import (
	"context"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/smashcolombia/startgg-stats/internal/platform/resilience"
	"github.com/smashcolombia/startgg-stats/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

// Publisher ships audit events to a remote audit ingestion endpoint. It is
// best effort by contract: failures are logged and swallowed, auditing never
// breaks the operation being audited.
type PublisherConfig struct {
	BaseURL        string
	Token          string
	ServiceName    string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Publisher struct {
	client         *fasthttp.Client
	baseURL        string
	token          string
	serviceName    string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewPublisher(cfg PublisherConfig, logger *logging.Logger) *Publisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Publisher{
		client:         &fasthttp.Client{},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		serviceName:    strings.TrimSpace(cfg.ServiceName),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type shippedEvent struct {
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Level     string         `json:"level"`
	Service   string         `json:"service"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta,omitempty"`
}

func (p *Publisher) Record(ctx context.Context, event usecase.AuditEvent) {
	if p.baseURL == "" {
		return
	}
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "audit shipper circuit breaker rejected event", "state", p.breaker.State())
			return
		}
	}

	service := event.Service
	if service == "" {
		service = p.serviceName
	}
	level := event.Level
	if level == "" {
		level = "INFO"
	}
	body, err := sonic.Marshal(shippedEvent{
		Timestamp: event.Timestamp,
		Level:     level,
		Service:   service,
		Message:   event.Message,
		Meta:      event.Meta,
	})
	if err != nil {
		p.logger.WarnContext(ctx, "audit event not serializable", "service", service, "error", err)
		return
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.baseURL + "/v1/audit/logs")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if p.token != "" {
		req.Header.Set("X-Internal-Job-Token", p.token)
	}
	req.SetBody(body)

	err = p.client.DoTimeout(req, resp, p.timeout)
	if p.circuitEnabled {
		if err != nil || resp.StatusCode()/100 != 2 {
			p.breaker.RecordFailure()
		} else {
			p.breaker.RecordSuccess()
		}
	}
	if err != nil {
		p.logger.WarnContext(ctx, "audit event not shipped", "service", service, "error", err)
		return
	}
	if resp.StatusCode()/100 != 2 {
		p.logger.WarnContext(ctx, "audit endpoint rejected event",
			"service", service,
			"status", resp.StatusCode(),
			"preview", eventPreview(service, level, event.Message),
		)
	}
}

// eventPreview builds a compact single-line description for warn logs.
func eventPreview(service, level, message string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(service)
	_ = buf.WriteByte('/')
	_, _ = buf.WriteString(level)
	_, _ = buf.WriteString(": ")
	if len(message) > 120 {
		message = message[:120] + "..."
	}
	_, _ = buf.WriteString(message)

	return buf.String()
}
