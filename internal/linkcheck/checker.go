package linkcheck

import (
	"context"
	"fmt"
	"time"

	"github.com/nexiplay/nexiplay-go/internal/model"
	"github.com/nexiplay/nexiplay-go/internal/provider"
	"github.com/rs/zerolog/log"
)

// Table names used in results and logs
const (
	TableDownloadLinks        = "download_links"
	TableEpisodeDownloadLinks = "episode_download_links"
)

// LinkStore is the slice of the store the checker needs
type LinkStore interface {
	StaleDownloadLinks(ctx context.Context, limit int) ([]*model.DownloadLink, error)
	StaleEpisodeLinks(ctx context.Context, limit int) ([]*model.EpisodeDownloadLink, error)
	UpdateDownloadLinkStatus(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error
	UpdateEpisodeLinkStatus(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error
}

// Transition records a provider link that newly became EXPIRED
type Transition struct {
	Table      string
	RowID      string
	ParentID   string // content id or episode id
	Resolution string
	Provider   string
	URL        string
}

// ExpiryNotifier is told about links that flipped to EXPIRED during a sweep
type ExpiryNotifier interface {
	NotifyExpired(ctx context.Context, transitions []Transition)
}

// TableResult summarises one table of a sweep
type TableResult struct {
	Selected      int `json:"selected"`
	Updated       int `json:"updated"`
	Probes        int `json:"probes"`
	WriteFailures int `json:"write_failures"`
}

// SweepResult summarises a sweep
type SweepResult struct {
	DownloadLinks        TableResult   `json:"download_links"`
	EpisodeDownloadLinks TableResult   `json:"episode_download_links"`
	Transitions          []Transition  `json:"-"`
	Expired              int           `json:"expired"`
	Duration             time.Duration `json:"duration"`
}

// Checker runs bounded link health sweeps
type Checker struct {
	store    LinkStore
	prober   Prober
	notifier ExpiryNotifier
	now      func() time.Time
}

// NewChecker creates a checker. notifier may be nil.
func NewChecker(store LinkStore, prober Prober, notifier ExpiryNotifier) *Checker {
	return &Checker{
		store:    store,
		prober:   prober,
		notifier: notifier,
		now:      time.Now,
	}
}

// linkRow is a table-independent view of a link row
type linkRow struct {
	id       string
	parentID string
	set      *model.LinkSet
}

// RunSweep checks up to batchSize of the stalest flat link rows, then up to
// batchSize of the stalest episode link rows. Rows are processed one at a
// time. A failed row write is logged and skipped; only a failed row
// selection or a cancelled context returns an error.
func (c *Checker) RunSweep(ctx context.Context, batchSize int) (result SweepResult, err error) {
	if batchSize <= 0 {
		return result, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		sweepDurationSeconds.Observe(result.Duration.Seconds())
	}()

	flat, err := c.store.StaleDownloadLinks(ctx, batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to select download links: %w", err)
	}
	rows := make([]linkRow, 0, len(flat))
	for _, r := range flat {
		rows = append(rows, linkRow{id: r.ID, parentID: r.ContentID, set: &r.LinkSet})
	}
	result.DownloadLinks, err = c.checkRows(ctx, TableDownloadLinks, rows, c.store.UpdateDownloadLinkStatus, &result)
	if err != nil {
		return result, err
	}

	episodes, err := c.store.StaleEpisodeLinks(ctx, batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to select episode links: %w", err)
	}
	rows = make([]linkRow, 0, len(episodes))
	for _, r := range episodes {
		rows = append(rows, linkRow{id: r.ID, parentID: r.EpisodeID, set: &r.LinkSet})
	}
	result.EpisodeDownloadLinks, err = c.checkRows(ctx, TableEpisodeDownloadLinks, rows, c.store.UpdateEpisodeLinkStatus, &result)
	if err != nil {
		return result, err
	}

	result.Expired = len(result.Transitions)
	if c.notifier != nil && len(result.Transitions) > 0 {
		c.notifier.NotifyExpired(ctx, result.Transitions)
	}

	log.Info().
		Int("download_links", result.DownloadLinks.Updated).
		Int("episode_links", result.EpisodeDownloadLinks.Updated).
		Int("expired", result.Expired).
		Msg("Link sweep completed")

	return result, nil
}

type updateFunc func(ctx context.Context, id string, status model.LinkStatusMap, checkedAt time.Time) error

func (c *Checker) checkRows(ctx context.Context, table string, rows []linkRow, update updateFunc, sweep *SweepResult) (TableResult, error) {
	tr := TableResult{Selected: len(rows)}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return tr, fmt.Errorf("sweep interrupted: %w", err)
		}

		status, probes, transitions := c.checkRow(ctx, table, row)
		tr.Probes += probes

		checkedAt := c.stamp(row.set.LastCheckedAt)
		if err := update(ctx, row.id, status, checkedAt); err != nil {
			tr.WriteFailures++
			writeFailuresTotal.WithLabelValues(table).Inc()
			log.Error().Err(err).Str("table", table).Str("id", row.id).Msg("Failed to update link status")
			continue
		}

		tr.Updated++
		rowsUpdatedTotal.WithLabelValues(table).Inc()
		sweep.Transitions = append(sweep.Transitions, transitions...)
	}

	return tr, nil
}

// checkRow probes every populated registered provider of a row and returns the merged status
func (c *Checker) checkRow(ctx context.Context, table string, row linkRow) (model.LinkStatusMap, int, []Transition) {
	status := row.set.LinkStatus.Clone()
	var transitions []Transition
	probes := 0

	for _, pu := range row.set.Providers.Populated() {
		// unregistered keys stay in storage untouched
		if provider.Index(pu.Key) < 0 {
			continue
		}
		res := c.prober.Probe(ctx, pu.URL)
		probes++
		probesTotal.WithLabelValues(outcomeLabel(res)).Inc()

		if res.Err != nil {
			log.Debug().Err(res.Err).Str("provider", pu.Key).Str("id", row.id).Msg("Probe failed, keeping link active")
		}

		prev, seen := status[pu.Key]
		status[pu.Key] = res.State

		if res.State == model.LinkExpired && (!seen || prev != model.LinkExpired) {
			expiredTotal.Inc()
			transitions = append(transitions, Transition{
				Table:      table,
				RowID:      row.id,
				ParentID:   row.parentID,
				Resolution: row.set.Resolution,
				Provider:   pu.Key,
				URL:        pu.URL,
			})
			log.Warn().
				Str("table", table).
				Str("id", row.id).
				Str("provider", pu.Key).
				Int("status", res.StatusCode).
				Msg("Link expired")
		}
	}

	return status, probes, transitions
}

// stamp returns the check time, never earlier than the previous check
func (c *Checker) stamp(prev *time.Time) time.Time {
	now := c.now()
	if prev != nil && prev.After(now) {
		return *prev
	}
	return now
}
