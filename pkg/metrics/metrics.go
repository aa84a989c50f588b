package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles counters for the domain events worth watching; they carry no
// labels beyond their names, given the single-installation scale.
type Metrics struct {
	Signups          prometheus.Counter
	Logins           prometheus.Counter
	MessagesSent     prometheus.Counter
	FollowRequests   prometheus.Counter
	UnfollowRequests prometheus.Counter
	LikesGiven       prometheus.Counter
	ImagesPosted     prometheus.Counter
	ImagesGenerated  prometheus.Counter

	registry *prometheus.Registry
}

func New() *Metrics {
	var m = &Metrics{
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Total number of successfully created users",
		}),
		Logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total number of successful credential checks",
		}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total number of successfully stored direct messages",
		}),
		FollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "follows_total",
			Help: "Total number of follow edges created",
		}),
		UnfollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "unfollows_total",
			Help: "Total number of unfollow operations",
		}),
		LikesGiven: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "likes_total",
			Help: "Total number of like edges created",
		}),
		ImagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "images_posted_total",
			Help: "Total number of images stored",
		}),
		ImagesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "images_generated_total",
			Help: "Total number of images produced by the inference endpoint",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Signups,
		m.Logins,
		m.MessagesSent,
		m.FollowRequests,
		m.UnfollowRequests,
		m.LikesGiven,
		m.ImagesPosted,
		m.ImagesGenerated,
	)

	return m
}

// Handler exposes the registered counters in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
