package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSplash      BookmarkType = "splash"
	BookmarkCompression BookmarkType = "compression"
	BookmarkDegraded    BookmarkType = "degraded"
	BookmarkSettled     BookmarkType = "settled"
)

// Bookmark marks a window worth looking at.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Step        int64        `csv:"step"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"step", b.Step,
		"description", b.Description,
	)
}

// Thresholds for bookmark detection.
const (
	splashFactor      = 2.0 // max speed vs rolling average
	splashMinSpeed    = 1.0 // m/s
	compressionFactor = 1.5 // density p90 vs rolling average
	settledCV2        = 0.04
	settledWindows    = 5
)

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	settledCount int
	degraded     bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for settled detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkSplash,
		bd.checkCompression,
		bd.checkDegraded,
		bd.checkSettled,
	} {
		if b := check(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

// Reset clears history, e.g. after the fluid is rebuilt.
func (bd *BookmarkDetector) Reset() {
	bd.historyIdx = 0
	bd.historyFull = false
	bd.settledCount = 0
	bd.degraded = false
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// recent returns up to n most recent windows, newest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	history := bd.getHistory()
	if n > len(history) {
		n = len(history)
	}
	out := make([]WindowStats, 0, n)
	idx := bd.historyIdx
	for len(out) < n {
		idx = (idx - 1 + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

// rolling returns the mean of field over the history.
func (bd *BookmarkDetector) rolling(field func(WindowStats) float64) float64 {
	history := bd.getHistory()
	values := make([]float64, len(history))
	for i, h := range history {
		values[i] = field(h)
	}
	return stat.Mean(values, nil)
}

func (bd *BookmarkDetector) checkSplash(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := bd.rolling(func(s WindowStats) float64 { return s.SpeedMax })
	if avg <= 0 {
		return nil
	}

	if stats.SpeedMax > avg*splashFactor && stats.SpeedMax > splashMinSpeed {
		return &Bookmark{
			Type:        BookmarkSplash,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Max speed %.2f m/s is %.1fx average (%.2f)", stats.SpeedMax, stats.SpeedMax/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCompression(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := bd.rolling(func(s WindowStats) float64 { return s.DensityP90 })
	if avg <= 0 {
		return nil
	}

	if stats.DensityP90 > avg*compressionFactor {
		return &Bookmark{
			Type:        BookmarkCompression,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Density p90 %.0f is %.1fx average (%.0f)", stats.DensityP90, stats.DensityP90/avg, avg),
		}
	}
	return nil
}

// checkDegraded fires on the first window with floored densities and rearms
// after a clean window.
func (bd *BookmarkDetector) checkDegraded(stats WindowStats) *Bookmark {
	if stats.FlooredDensities == 0 {
		bd.degraded = false
		return nil
	}
	if bd.degraded {
		return nil
	}
	bd.degraded = true
	return &Bookmark{
		Type:        BookmarkDegraded,
		Step:        stats.WindowEndStep,
		Description: fmt.Sprintf("%d densities floored, %d isolated particles", stats.FlooredDensities, stats.IsolatedParticles),
	}
}

// checkSettled fires once when kinetic energy has been steady for
// settledWindows consecutive windows.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 4 || stats.Particles == 0 {
		return nil
	}

	values := []float64{stats.KineticEnergy}
	for _, h := range bd.recent(4) {
		values = append(values, h.KineticEnergy)
	}
	mean, variance := stat.PopMeanVariance(values, nil)

	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}
	if cv2 < settledCV2 {
		bd.settledCount++
	} else {
		bd.settledCount = 0
	}

	if bd.settledCount == settledWindows {
		return &Bookmark{
			Type:        BookmarkSettled,
			Step:        stats.WindowEndStep,
			Description: fmt.Sprintf("Kinetic energy steady near %.3g J over %d windows", mean, settledWindows),
		}
	}
	return nil
}
