package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestCounter counts requests by route template, method and status.
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtsyr_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rtsyr_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	// AuthOperationCounter counts successful auth flow steps
	// (login, signup, verify_email, resend_otp, refresh, logout, review).
	AuthOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtsyr_auth_operations_total",
			Help: "Total number of successful authentication operations",
		},
		[]string{"operation"},
	)

	// AuthErrorCounter counts rejected auth attempts by reason.
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtsyr_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"},
	)

	// SignupDecisionCounter counts admin review outcomes.
	SignupDecisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtsyr_signup_decisions_total",
			Help: "Total number of signup request decisions by status",
		},
		[]string{"status"},
	)

	// EmailDeliveryCounter counts OTP mail attempts by result (sent, failed, skipped).
	EmailDeliveryCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtsyr_email_deliveries_total",
			Help: "Total number of verification email deliveries by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AuthOperationCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(SignupDecisionCounter)
	prometheus.MustRegister(EmailDeliveryCounter)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthOperation records a successful auth operation.
func RecordAuthOperation(operation string) {
	AuthOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuthError records an authentication error by type.
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

func RecordSignupDecision(status string) {
	SignupDecisionCounter.With(prometheus.Labels{"status": status}).Inc()
}

func RecordEmailDelivery(result string) {
	EmailDeliveryCounter.With(prometheus.Labels{"result": result}).Inc()
}

// Middleware records request count and duration per route template. Unmatched
// routes are grouped under "unmatched" to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		labels := prometheus.Labels{
			"route":  route,
			"method": c.Request.Method,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		HTTPRequestCounter.With(labels).Inc()
		RequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
