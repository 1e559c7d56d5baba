// Package metrics exposes Prometheus instruments for game sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/luminal/internal/engine"
	"github.com/roach88/luminal/internal/puzzle"
)

const (
	metricsNamespace = "luminal"
	sessionSubsystem = "session"
)

// Recorder holds the session instruments. A nil *Recorder records nothing,
// so callers never need to guard their calls.
type Recorder struct {
	SessionsStarted      *prometheus.CounterVec
	SessionsFinished     *prometheus.CounterVec
	InvalidMoves         prometheus.Counter
	CoinsAwarded         prometheus.Counter
	AchievementsUnlocked *prometheus.CounterVec
	FinalScore           *prometheus.HistogramVec
}

// NewRecorder creates the instruments and registers them on reg.
// Pass prometheus.NewRegistry() in tests to stay off the global registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		SessionsStarted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionSubsystem,
				Name:      "started_total",
				Help:      "Sessions started by difficulty",
			},
			[]string{"difficulty"},
		),
		SessionsFinished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionSubsystem,
				Name:      "finished_total",
				Help:      "Sessions finished by result",
			},
			[]string{"result"},
		),
		InvalidMoves: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: sessionSubsystem,
			Name:      "invalid_moves_total",
			Help:      "Rejected node taps",
		}),
		CoinsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "coins_awarded_total",
			Help:      "Coins credited to the player",
		}),
		AchievementsUnlocked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "achievements_unlocked_total",
				Help:      "Achievements unlocked by id",
			},
			[]string{"achievement"},
		),
		FinalScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionSubsystem,
				Name:      "final_score",
				Help:      "Score at the end of a session",
				Buckets:   []float64{0, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
			[]string{"result"},
		),
	}
}

// SessionStarted counts a session start.
func (r *Recorder) SessionStarted(d puzzle.Difficulty) {
	if r == nil {
		return
	}
	r.SessionsStarted.WithLabelValues(string(d)).Inc()
}

// SessionFinished counts a finished session and observes its score.
func (r *Recorder) SessionFinished(out engine.Outcome) {
	if r == nil {
		return
	}
	r.SessionsFinished.WithLabelValues(string(out.Result)).Inc()
	r.FinalScore.WithLabelValues(string(out.Result)).Observe(float64(out.Score))
}

// Coins counts awarded coins.
func (r *Recorder) Coins(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.CoinsAwarded.Add(float64(n))
}

// AchievementUnlocked counts one unlock.
func (r *Recorder) AchievementUnlocked(id string) {
	if r == nil {
		return
	}
	r.AchievementsUnlocked.WithLabelValues(id).Inc()
}

// OnEvent implements engine.Listener and counts invalid moves.
func (r *Recorder) OnEvent(ev engine.Event) {
	if r == nil {
		return
	}
	if ev.Kind == engine.EventInvalidMove {
		r.InvalidMoves.Inc()
	}
}

var _ engine.Listener = (*Recorder)(nil)
