package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the chat pipeline.
type ChatMetrics struct {
	messagesTotal  *prometheus.CounterVec
	turnLatency    *prometheus.HistogramVec
	llmTokensTotal *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agents",
			Subsystem: "chat",
			Name:      "messages_total",
			Help:      "Total chat messages processed",
		}, []string{"channel", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agents",
			Subsystem: "chat",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of one chat turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		llmTokensTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agents",
			Subsystem: "chat",
			Name:      "llm_tokens_total",
			Help:      "Total tokens consumed by LLM completions",
		}, []string{"direction"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agents",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Bookings created through the flow",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.turnLatency, m.llmTokensTotal, m.bookingsTotal)
	return m
}

func (m *ChatMetrics) ObserveMessage(channel, status string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(channel, status).Inc()
}

func (m *ChatMetrics) ObserveTurnLatency(channel string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(channel).Observe(seconds)
}

func (m *ChatMetrics) ObserveLLMTokens(input, output int32) {
	if m == nil {
		return
	}
	m.llmTokensTotal.WithLabelValues("input").Add(float64(input))
	m.llmTokensTotal.WithLabelValues("output").Add(float64(output))
}

func (m *ChatMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}
