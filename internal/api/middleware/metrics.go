package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 每个路由器一个 registry，测试里可以重复创建
type Metrics struct {
	Registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	Logins          *prometheus.CounterVec
	Signups         prometheus.Counter
	MessagesPosted  prometheus.Counter
	MessagesDeleted prometheus.Counter
	Follows         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "warbler_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warbler_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_signups_total",
			Help: "Accounts created.",
		}),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_messages_posted_total",
			Help: "Messages posted.",
		}),
		MessagesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_messages_deleted_total",
			Help: "Messages deleted by their author.",
		}),
		Follows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "warbler_follow_changes_total",
			Help: "Follow and unfollow operations.",
		}, []string{"op"}),
	}
	m.Registry.MustRegister(
		m.RequestDuration, m.Logins, m.Signups, m.MessagesPosted, m.MessagesDeleted, m.Follows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware 记录请求耗时；未匹配路由统一记为 unmatched
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
	return gin.WrapH(h)
}
