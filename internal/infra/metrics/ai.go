package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiTokensIn,
		aiTokensOut,
		aiTokensTotal,
		aiFallbacks,
		aiSessionsSwept,
		aiActiveSessions,
	)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per model.",
		},
		[]string{"model"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per model.",
		},
		[]string{"model"},
	)

	aiTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_total",
			Help: "Sum of total tokens per model.",
		},
		[]string{"model"},
	)

	aiFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_model_fallbacks_total",
			Help: "Count of sessions downgraded from primary to fallback model.",
		},
		[]string{"from", "to"},
	)

	aiSessionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_sessions_swept_total",
			Help: "Count of idle conversation sessions removed by the sweeper.",
		},
	)

	aiActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ai_active_sessions",
			Help: "Current number of live conversation sessions.",
		},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func ObserveChatUsage(model string, tokensIn, tokensOut, tokensTotal int) {
	aiTokensIn.WithLabelValues(norm(model)).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(norm(model)).Add(float64(tokensOut))
	aiTokensTotal.WithLabelValues(norm(model)).Add(float64(tokensTotal))
}

func IncModelFallback(from, to string) {
	aiFallbacks.WithLabelValues(norm(from), norm(to)).Inc()
}

func AddSessionsSwept(n int) {
	if n > 0 {
		aiSessionsSwept.Add(float64(n))
	}
}

func SetActiveSessions(n int) {
	aiActiveSessions.Set(float64(n))
}
