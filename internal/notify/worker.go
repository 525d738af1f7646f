package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rakta/internal/domain"
)

// Publisher delivers a payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// Recorder counts publish outcomes; *infra.Metrics satisfies it.
type Recorder interface {
	NotificationPublished(ok bool)
}

// Pruner drops credentials that expired before a cutoff;
// *credentials.Store satisfies it.
type Pruner interface {
	PruneExpired(ctx context.Context, before time.Time) (int64, error)
}

// Alert is the JSON payload sent for each blood request.
type Alert struct {
	RequestID  string           `json:"request_id"`
	BloodType  domain.BloodType `json:"blood_type"`
	Units      int              `json:"units"`
	Hospital   string           `json:"hospital"`
	Location   string           `json:"location"`
	Urgency    domain.Urgency   `json:"urgency"`
	Note       string           `json:"note,omitempty"`
	DonorCount int              `json:"donor_count"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Topic returns <prefix>/requests/<segment>. MQTT reserves '+' so the Rh
// sign is spelled out: "AB-" becomes "ab_neg".
func Topic(prefix string, bt domain.BloodType) string {
	s := strings.ToLower(string(bt))
	switch {
	case strings.HasSuffix(s, "+"):
		s = strings.TrimSuffix(s, "+") + "_pos"
	case strings.HasSuffix(s, "-"):
		s = strings.TrimSuffix(s, "-") + "_neg"
	}
	return strings.TrimRight(prefix, "/") + "/requests/" + s
}

// Worker claims open blood requests one at a time and publishes them.
type Worker struct {
	Requests     domain.RequestRepository
	Users        domain.UserRepository
	Publisher    Publisher
	Recorder     Recorder
	Logger       zerolog.Logger
	TopicPrefix  string
	PollInterval time.Duration

	// Pruner, when set, runs every PruneInterval (default one hour).
	Pruner        Pruner
	PruneInterval time.Duration
	Now           func() time.Time

	lastPrune time.Time
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	interval := w.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	w.Logger.Info().Dur("poll_interval", interval).Msg("worker: started")
	for {
		w.pruneIfDue(ctx)
		handled, err := w.RunOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			w.Logger.Error().Err(err).Msg("worker: failed to claim request")
		}
		if handled && err == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RunOnce claims and publishes a single request. It reports false when no
// request was waiting.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	req, err := w.Requests.ClaimNextOpen(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	logger := w.Logger.With().Str("request_id", req.ID).Str("blood_type", string(req.BloodType)).Logger()
	status, errMsg := domain.RequestStatusNotified, ""
	if err := w.publish(ctx, req); err != nil {
		logger.Error().Err(err).Msg("worker: publish failed")
		status, errMsg = domain.RequestStatusFailed, err.Error()
	} else {
		logger.Info().Msg("worker: request published")
	}
	if w.Recorder != nil {
		w.Recorder.NotificationPublished(status == domain.RequestStatusNotified)
	}
	if err := w.Requests.UpdateStatus(ctx, req.ID, status, errMsg); err != nil {
		logger.Error().Err(err).Msg("worker: update status failed")
	}
	return true, nil
}

func (w *Worker) publish(ctx context.Context, req *domain.BloodRequest) error {
	alert := Alert{
		RequestID: req.ID,
		BloodType: req.BloodType,
		Units:     req.Units,
		Hospital:  req.Hospital,
		Location:  req.Location,
		Urgency:   req.Urgency,
		Note:      req.Note,
		CreatedAt: req.CreatedAt,
	}
	if w.Users != nil {
		n, err := w.Users.CountAvailableDonors(ctx, req.BloodType)
		if err != nil {
			w.Logger.Warn().Err(err).Str("request_id", req.ID).Msg("worker: donor count unavailable")
		} else {
			alert.DonorCount = n
		}
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return w.Publisher.Publish(ctx, Topic(w.TopicPrefix, req.BloodType), payload)
}

func (w *Worker) pruneIfDue(ctx context.Context) {
	if w.Pruner == nil {
		return
	}
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	every := w.PruneInterval
	if every <= 0 {
		every = time.Hour
	}
	if !w.lastPrune.IsZero() && now.Sub(w.lastPrune) < every {
		return
	}
	w.lastPrune = now
	n, err := w.Pruner.PruneExpired(ctx, now)
	if err != nil {
		w.Logger.Error().Err(err).Msg("worker: prune expired tokens failed")
		return
	}
	w.Logger.Info().Int64("removed", n).Msg("worker: expired tokens pruned")
}
